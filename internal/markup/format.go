package markup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"telesim/pkg/botapi"
)

const markdownV2Specials = "_*[]()~`>#+-=|{}.!\\"

// Format is the inverse of Parse: it re-serializes plain text and a flat
// entity list back into dialect markup. Formatting the result of Parse and
// re-parsing yields the same plain text and an equivalent entity list.
func Format(text string, entities []botapi.MessageEntity, mode ParseMode) (string, error) {
	switch mode {
	case ParseModeMarkdown, ParseModeMarkdownV2, ParseModeHTML:
	case "":
		return text, nil
	default:
		return "", fmt.Errorf("unsupported parse mode %q", mode)
	}

	spans := make([]botapi.MessageEntity, 0, len(entities))
	for _, entity := range entities {
		if entity.Length > 0 {
			spans = append(spans, entity)
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Offset < spans[j].Offset
	})

	units := utf16.Encode([]rune(text))
	var builder strings.Builder
	spanIdx := 0
	active := botapi.MessageEntity{}
	activeEnd := -1

	for pos := 0; pos <= len(units); pos++ {
		if activeEnd == pos {
			builder.WriteString(wrapperSuffix(active, mode))
			activeEnd = -1
		}
		if activeEnd < 0 && spanIdx < len(spans) && spans[spanIdx].Offset == pos {
			active = spans[spanIdx]
			activeEnd = min(pos+active.Length, len(units))
			spanIdx++
			builder.WriteString(wrapperPrefix(active, mode))
		}
		if pos == len(units) {
			break
		}

		r := rune(units[pos])
		if utf16.IsSurrogate(r) && pos+1 < len(units) {
			r = utf16.DecodeRune(r, rune(units[pos+1]))
			pos++
		}
		writeFormatted(&builder, r, mode, activeEntityType(active, activeEnd))
	}

	return builder.String(), nil
}

func activeEntityType(active botapi.MessageEntity, activeEnd int) botapi.EntityType {
	if activeEnd < 0 {
		return ""
	}

	return active.Type
}

// writeFormatted emits one rune, escaped for the dialect. Code and pre span
// content is written raw in the Markdown dialects.
func writeFormatted(builder *strings.Builder, r rune, mode ParseMode, inside botapi.EntityType) {
	inCode := inside == botapi.EntityTypeCode || inside == botapi.EntityTypePre

	switch mode {
	case ParseModeHTML:
		switch r {
		case '&':
			builder.WriteString("&amp;")
		case '<':
			builder.WriteString("&lt;")
		case '>':
			builder.WriteString("&gt;")
		default:
			builder.WriteRune(r)
		}
	case ParseModeMarkdownV2:
		if !inCode && strings.ContainsRune(markdownV2Specials, r) {
			builder.WriteByte('\\')
		}
		if inside == botapi.EntityTypeBlockquote && r == '\n' {
			builder.WriteString("\n>")
			return
		}
		builder.WriteRune(r)
	default:
		if !inCode && strings.ContainsRune(legacyEscapable, r) {
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
}

// wrapperPrefix returns the opening markup for one entity. Entity types a
// dialect cannot express degrade to plain text.
func wrapperPrefix(entity botapi.MessageEntity, mode ParseMode) string {
	if mode == ParseModeHTML {
		return htmlPrefix(entity)
	}

	v2 := mode == ParseModeMarkdownV2
	switch entity.Type {
	case botapi.EntityTypeBold:
		return "*"
	case botapi.EntityTypeItalic:
		return "_"
	case botapi.EntityTypeCode:
		return "`"
	case botapi.EntityTypePre:
		return "```" + entity.Language + "\n"
	case botapi.EntityTypeTextLink, botapi.EntityTypeTextMention:
		return "["
	case botapi.EntityTypeUnderline:
		if v2 {
			return "__"
		}
	case botapi.EntityTypeStrikethrough:
		if v2 {
			return "~"
		}
	case botapi.EntityTypeSpoiler:
		if v2 {
			return "||"
		}
	case botapi.EntityTypeCustomEmoji:
		if v2 {
			return "!["
		}
	case botapi.EntityTypeBlockquote:
		if v2 {
			return ">"
		}
	}

	return ""
}

// wrapperSuffix returns the closing markup for one entity.
func wrapperSuffix(entity botapi.MessageEntity, mode ParseMode) string {
	if mode == ParseModeHTML {
		return htmlSuffix(entity)
	}

	v2 := mode == ParseModeMarkdownV2
	switch entity.Type {
	case botapi.EntityTypeBold:
		return "*"
	case botapi.EntityTypeItalic:
		return "_"
	case botapi.EntityTypeCode:
		return "`"
	case botapi.EntityTypePre:
		return "\n```"
	case botapi.EntityTypeTextLink:
		return "](" + entity.URL + ")"
	case botapi.EntityTypeTextMention:
		return "](tg://user?id=" + mentionID(entity) + ")"
	case botapi.EntityTypeUnderline:
		if v2 {
			return "__"
		}
	case botapi.EntityTypeStrikethrough:
		if v2 {
			return "~"
		}
	case botapi.EntityTypeSpoiler:
		if v2 {
			return "||"
		}
	case botapi.EntityTypeCustomEmoji:
		if v2 {
			return "](tg://emoji?id=" + entity.CustomEmojiID + ")"
		}
	}

	return ""
}

func htmlPrefix(entity botapi.MessageEntity) string {
	switch entity.Type {
	case botapi.EntityTypeBold:
		return "<b>"
	case botapi.EntityTypeItalic:
		return "<i>"
	case botapi.EntityTypeUnderline:
		return "<u>"
	case botapi.EntityTypeStrikethrough:
		return "<s>"
	case botapi.EntityTypeSpoiler:
		return "<tg-spoiler>"
	case botapi.EntityTypeCode:
		return "<code>"
	case botapi.EntityTypePre:
		if entity.Language != "" {
			return `<pre><code class="language-` + entity.Language + `">`
		}
		return "<pre>"
	case botapi.EntityTypeTextLink:
		return `<a href="` + escapeAttr(entity.URL) + `">`
	case botapi.EntityTypeTextMention:
		return `<a href="tg://user?id=` + mentionID(entity) + `">`
	case botapi.EntityTypeCustomEmoji:
		return `<tg-emoji emoji-id="` + escapeAttr(entity.CustomEmojiID) + `">`
	case botapi.EntityTypeBlockquote:
		return "<blockquote>"
	default:
		return ""
	}
}

func htmlSuffix(entity botapi.MessageEntity) string {
	switch entity.Type {
	case botapi.EntityTypeBold:
		return "</b>"
	case botapi.EntityTypeItalic:
		return "</i>"
	case botapi.EntityTypeUnderline:
		return "</u>"
	case botapi.EntityTypeStrikethrough:
		return "</s>"
	case botapi.EntityTypeSpoiler:
		return "</tg-spoiler>"
	case botapi.EntityTypeCode:
		return "</code>"
	case botapi.EntityTypePre:
		if entity.Language != "" {
			return "</code></pre>"
		}
		return "</pre>"
	case botapi.EntityTypeTextLink, botapi.EntityTypeTextMention:
		return "</a>"
	case botapi.EntityTypeCustomEmoji:
		return "</tg-emoji>"
	case botapi.EntityTypeBlockquote:
		return "</blockquote>"
	default:
		return ""
	}
}

func mentionID(entity botapi.MessageEntity) string {
	if entity.User == nil {
		return "0"
	}

	return strconv.FormatInt(entity.User.ID, 10)
}

func escapeAttr(value string) string {
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, `"`, "&quot;")

	return value
}
