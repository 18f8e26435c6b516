package markup

import (
	"strconv"
	"strings"

	"telesim/pkg/botapi"
)

const legacyEscapable = "_*`["

// parseMarkdown scans the legacy Markdown dialect, or MarkdownV2 when v2 is
// set. Matched delimiters become entities spanning stripped output offsets;
// unmatched delimiters pass through literally.
func parseMarkdown(text string, v2 bool) (string, []botapi.MessageEntity) {
	runes := []rune(text)
	out := &output{}
	entities := make([]botapi.MessageEntity, 0, 4)
	atLineStart := true

	i := 0
	for i < len(runes) {
		r := runes[i]

		if r == '\\' && i+1 < len(runes) && isEscapable(runes[i+1], v2) {
			out.writeRune(runes[i+1])
			atLineStart = runes[i+1] == '\n'
			i += 2
			continue
		}

		if v2 && atLineStart && r == '>' {
			i = consumeBlockquote(runes, i, out, &entities)
			atLineStart = true
			continue
		}

		if r == '`' {
			if next, ok := consumeCode(runes, i, out, &entities); ok {
				i = next
				atLineStart = false
				continue
			}
		}

		if r == '[' || (v2 && r == '!' && i+1 < len(runes) && runes[i+1] == '[') {
			if next, ok := consumeLink(runes, i, v2, out, &entities); ok {
				i = next
				atLineStart = false
				continue
			}
		}

		if delim, entityType, ok := styleDelimiterAt(runes, i, v2); ok {
			if next, matched := consumeStyled(runes, i, delim, entityType, v2, out, &entities); matched {
				i = next
				atLineStart = false
				continue
			}
		}

		out.writeRune(r)
		atLineStart = r == '\n'
		i++
	}

	return out.String(), entities
}

func isEscapable(r rune, v2 bool) bool {
	if v2 {
		return r >= 1 && r <= 126 && !isAlphanumeric(r)
	}

	return strings.ContainsRune(legacyEscapable, r)
}

func isAlphanumeric(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// styleDelimiterAt identifies the style delimiter starting at i, preferring
// the two-rune forms over their one-rune prefixes.
func styleDelimiterAt(runes []rune, i int, v2 bool) (string, botapi.EntityType, bool) {
	rest := string(runes[i:])
	if v2 {
		switch {
		case strings.HasPrefix(rest, "||"):
			return "||", botapi.EntityTypeSpoiler, true
		case strings.HasPrefix(rest, "__"):
			return "__", botapi.EntityTypeUnderline, true
		case strings.HasPrefix(rest, "~"):
			return "~", botapi.EntityTypeStrikethrough, true
		}
	}
	switch {
	case strings.HasPrefix(rest, "*"):
		return "*", botapi.EntityTypeBold, true
	case strings.HasPrefix(rest, "_"):
		return "_", botapi.EntityTypeItalic, true
	}

	return "", "", false
}

// consumeStyled matches one inline style span. It reports false when no
// non-empty closing delimiter exists, leaving the caller to emit literally.
func consumeStyled(
	runes []rune,
	i int,
	delim string,
	entityType botapi.EntityType,
	v2 bool,
	out *output,
	entities *[]botapi.MessageEntity,
) (int, bool) {
	open := i + len([]rune(delim))
	closeAt := findDelimiter(runes, open, delim, v2)
	if closeAt < 0 || closeAt == open {
		return i, false
	}

	start := out.cursor
	writeUnescaped(out, runes[open:closeAt], v2)
	*entities = append(*entities, botapi.MessageEntity{
		Type:   entityType,
		Offset: start,
		Length: out.cursor - start,
	})

	return closeAt + len([]rune(delim)), true
}

// consumeCode matches inline code and fenced pre blocks. Content inside code
// spans is raw: no escape processing and no nested delimiters.
func consumeCode(runes []rune, i int, out *output, entities *[]botapi.MessageEntity) (int, bool) {
	if strings.HasPrefix(string(runes[i:]), "```") {
		return consumeFence(runes, i, out, entities)
	}

	closeAt := indexOfRune(runes, i+1, '`')
	if closeAt < 0 || closeAt == i+1 {
		return i, false
	}

	start := out.cursor
	out.writeString(string(runes[i+1 : closeAt]))
	*entities = append(*entities, botapi.MessageEntity{
		Type:   botapi.EntityTypeCode,
		Offset: start,
		Length: out.cursor - start,
	})

	return closeAt + 1, true
}

// consumeFence matches a triple-backtick block with an optional language tag
// on the opening line.
func consumeFence(runes []rune, i int, out *output, entities *[]botapi.MessageEntity) (int, bool) {
	bodyStart := i + 3
	closeAt := indexOfString(runes, bodyStart, "```")
	if closeAt < 0 {
		return i, false
	}

	body := runes[bodyStart:closeAt]
	language := ""
	if newline := indexOfRune(body, 0, '\n'); newline >= 0 {
		tag := string(body[:newline])
		if tag != "" && !strings.ContainsAny(tag, " \t`") {
			language = tag
			body = body[newline+1:]
		}
	}
	content := strings.TrimSuffix(string(body), "\n")
	if content == "" {
		return i, false
	}

	start := out.cursor
	out.writeString(content)
	*entities = append(*entities, botapi.MessageEntity{
		Type:     botapi.EntityTypePre,
		Offset:   start,
		Length:   out.cursor - start,
		Language: language,
	})

	return closeAt + 3, true
}

// consumeLink matches [text](url), tg://user mentions, and (MarkdownV2 only)
// ![emoji](tg://emoji?id=N) custom emoji references.
func consumeLink(
	runes []rune,
	i int,
	v2 bool,
	out *output,
	entities *[]botapi.MessageEntity,
) (int, bool) {
	bracket := i
	customEmoji := false
	if runes[i] == '!' {
		bracket = i + 1
		customEmoji = true
	}

	labelEnd := findDelimiter(runes, bracket+1, "]", v2)
	if labelEnd < 0 || labelEnd == bracket+1 {
		return i, false
	}
	if labelEnd+1 >= len(runes) || runes[labelEnd+1] != '(' {
		return i, false
	}
	urlEnd := indexOfRune(runes, labelEnd+2, ')')
	if urlEnd < 0 {
		return i, false
	}

	target := string(runes[labelEnd+2 : urlEnd])
	if target == "" {
		return i, false
	}

	entity := botapi.MessageEntity{}
	switch {
	case customEmoji:
		id, ok := strings.CutPrefix(target, "tg://emoji?id=")
		if !ok {
			return i, false
		}
		entity.Type = botapi.EntityTypeCustomEmoji
		entity.CustomEmojiID = id
	case strings.HasPrefix(target, "tg://user?id="):
		userID, err := strconv.ParseInt(strings.TrimPrefix(target, "tg://user?id="), 10, 64)
		if err != nil {
			return i, false
		}
		entity.Type = botapi.EntityTypeTextMention
		entity.User = &botapi.User{ID: userID}
	default:
		entity.Type = botapi.EntityTypeTextLink
		entity.URL = target
	}

	start := out.cursor
	writeUnescaped(out, runes[bracket+1:labelEnd], v2)
	entity.Offset = start
	entity.Length = out.cursor - start
	*entities = append(*entities, entity)

	return urlEnd + 1, true
}

// consumeBlockquote folds consecutive '>'-prefixed lines into one blockquote
// entity spanning the stripped lines, inner newlines included.
func consumeBlockquote(runes []rune, i int, out *output, entities *[]botapi.MessageEntity) int {
	start := out.cursor
	first := true
	for i < len(runes) && runes[i] == '>' {
		if !first {
			out.writeRune('\n')
		}
		first = false

		i++ // strip the marker
		lineEnd := indexOfRune(runes, i, '\n')
		if lineEnd < 0 {
			lineEnd = len(runes)
		}
		writeUnescaped(out, runes[i:lineEnd], true)
		i = lineEnd
		if i < len(runes) {
			i++ // swallow the newline; re-emitted between quoted lines
		}
	}

	*entities = append(*entities, botapi.MessageEntity{
		Type:   botapi.EntityTypeBlockquote,
		Offset: start,
		Length: out.cursor - start,
	})
	if i > 0 && i <= len(runes) && runes[i-1] == '\n' {
		out.writeRune('\n')
	}

	return i
}

// writeUnescaped copies span content, resolving backslash escapes. Nested
// delimiters inside a span are not interpreted: entities stay flat.
func writeUnescaped(out *output, content []rune, v2 bool) {
	for j := 0; j < len(content); j++ {
		if content[j] == '\\' && j+1 < len(content) && isEscapable(content[j+1], v2) {
			out.writeRune(content[j+1])
			j++
			continue
		}
		out.writeRune(content[j])
	}
}

// findDelimiter locates the next unescaped occurrence of delim at or after
// from.
func findDelimiter(runes []rune, from int, delim string, v2 bool) int {
	delimRunes := []rune(delim)
	for i := from; i+len(delimRunes) <= len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) && isEscapable(runes[i+1], v2) {
			i++
			continue
		}
		if string(runes[i:i+len(delimRunes)]) == delim {
			return i
		}
	}

	return -1
}

func indexOfRune(runes []rune, from int, r rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}

	return -1
}

func indexOfString(runes []rune, from int, s string) int {
	target := []rune(s)
	for i := from; i+len(target) <= len(runes); i++ {
		if string(runes[i:i+len(target)]) == s {
			return i
		}
	}

	return -1
}
