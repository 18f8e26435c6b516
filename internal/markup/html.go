package markup

import (
	"regexp"
	"strconv"
	"strings"

	"telesim/pkg/botapi"
)

var (
	hrefRe    = regexp.MustCompile(`href="([^"]*)"`)
	classRe   = regexp.MustCompile(`class="([^"]*)"`)
	emojiIDRe = regexp.MustCompile(`emoji-id="([^"]*)"`)
	langRe    = regexp.MustCompile(`class="language-([^"]+)"`)
)

// parseHTML scans the HTML dialect. Known tag pairs become entities; unknown
// or unmatched tags and malformed character references pass through literally.
func parseHTML(text string) (string, []botapi.MessageEntity) {
	runes := []rune(text)
	out := &output{}
	entities := make([]botapi.MessageEntity, 0, 4)

	i := 0
	for i < len(runes) {
		r := runes[i]

		if r == '&' {
			if decoded, next, ok := decodeCharRef(runes, i); ok {
				out.writeString(decoded)
				i = next
				continue
			}
		}

		if r == '<' {
			if next, ok := consumeTag(runes, i, out, &entities); ok {
				i = next
				continue
			}
		}

		out.writeRune(r)
		i++
	}

	return out.String(), entities
}

// consumeTag matches one known opening tag and its closing pair. Inner
// content stays flat: nested tags inside a span are emitted literally.
func consumeTag(runes []rune, i int, out *output, entities *[]botapi.MessageEntity) (int, bool) {
	tagEnd := indexOfRune(runes, i+1, '>')
	if tagEnd < 0 {
		return i, false
	}
	rawTag := string(runes[i+1 : tagEnd])
	if rawTag == "" || strings.HasPrefix(rawTag, "/") {
		return i, false
	}

	name, attrs, _ := strings.Cut(rawTag, " ")
	name = strings.ToLower(name)

	entity, known := entityForTag(name, attrs)
	if !known {
		return i, false
	}

	closer := "</" + name + ">"
	closeAt := indexOfString(runes, tagEnd+1, closer)
	if closeAt < 0 {
		return i, false
	}

	content := runes[tagEnd+1 : closeAt]
	next := closeAt + len([]rune(closer))

	// <pre><code class="language-x">...</code></pre> carries the language tag
	// on the inner code element.
	if name == "pre" {
		if inner, language, ok := innerCodeBlock(string(content)); ok {
			entity.Language = language
			content = []rune(inner)
		}
		content = []rune(strings.TrimSuffix(strings.TrimPrefix(string(content), "\n"), "\n"))
	}

	start := out.cursor
	writeHTMLContent(out, content)
	if out.cursor == start {
		return next, true
	}
	entity.Offset = start
	entity.Length = out.cursor - start
	*entities = append(*entities, entity)

	return next, true
}

// entityForTag maps a tag name and raw attribute text to an entity skeleton.
func entityForTag(name, attrs string) (botapi.MessageEntity, bool) {
	switch name {
	case "b", "strong":
		return botapi.MessageEntity{Type: botapi.EntityTypeBold}, true
	case "i", "em":
		return botapi.MessageEntity{Type: botapi.EntityTypeItalic}, true
	case "u", "ins":
		return botapi.MessageEntity{Type: botapi.EntityTypeUnderline}, true
	case "s", "strike", "del":
		return botapi.MessageEntity{Type: botapi.EntityTypeStrikethrough}, true
	case "code":
		return botapi.MessageEntity{Type: botapi.EntityTypeCode}, true
	case "pre":
		return botapi.MessageEntity{Type: botapi.EntityTypePre}, true
	case "blockquote":
		return botapi.MessageEntity{Type: botapi.EntityTypeBlockquote}, true
	case "tg-spoiler":
		return botapi.MessageEntity{Type: botapi.EntityTypeSpoiler}, true
	case "span":
		if match := classRe.FindStringSubmatch(attrs); match != nil && match[1] == "tg-spoiler" {
			return botapi.MessageEntity{Type: botapi.EntityTypeSpoiler}, true
		}
		return botapi.MessageEntity{}, false
	case "tg-emoji":
		match := emojiIDRe.FindStringSubmatch(attrs)
		if match == nil {
			return botapi.MessageEntity{}, false
		}
		return botapi.MessageEntity{Type: botapi.EntityTypeCustomEmoji, CustomEmojiID: match[1]}, true
	case "a":
		match := hrefRe.FindStringSubmatch(attrs)
		if match == nil {
			return botapi.MessageEntity{}, false
		}
		href := unescapeCharRefs(match[1])
		if id, ok := strings.CutPrefix(href, "tg://user?id="); ok {
			userID, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return botapi.MessageEntity{}, false
			}
			return botapi.MessageEntity{Type: botapi.EntityTypeTextMention, User: &botapi.User{ID: userID}}, true
		}
		return botapi.MessageEntity{Type: botapi.EntityTypeTextLink, URL: href}, true
	default:
		return botapi.MessageEntity{}, false
	}
}

// innerCodeBlock unwraps <code ...>...</code> nested directly inside a pre
// block, returning its content and declared language.
func innerCodeBlock(content string) (string, string, bool) {
	trimmed := strings.TrimPrefix(content, "\n")
	if !strings.HasPrefix(trimmed, "<code") {
		return "", "", false
	}
	openEnd := strings.IndexRune(trimmed, '>')
	if openEnd < 0 {
		return "", "", false
	}
	rest, found := strings.CutSuffix(strings.TrimSuffix(trimmed, "\n"), "</code>")
	if !found {
		return "", "", false
	}

	language := ""
	if match := langRe.FindStringSubmatch(trimmed[:openEnd+1]); match != nil {
		language = match[1]
	}

	return rest[openEnd+1:], language, true
}

// writeHTMLContent copies span content, decoding character references.
func writeHTMLContent(out *output, content []rune) {
	for j := 0; j < len(content); j++ {
		if content[j] == '&' {
			if decoded, next, ok := decodeCharRef(content, j); ok {
				out.writeString(decoded)
				j = next - 1
				continue
			}
		}
		out.writeRune(content[j])
	}
}

var namedCharRefs = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"quot": `"`,
}

// decodeCharRef decodes one character reference starting at i, reporting the
// index just past the terminating semicolon.
func decodeCharRef(runes []rune, i int) (string, int, bool) {
	end := indexOfRune(runes, i+1, ';')
	if end < 0 || end-i > 10 {
		return "", i, false
	}
	name := string(runes[i+1 : end])

	if replacement, ok := namedCharRefs[name]; ok {
		return replacement, end + 1, true
	}
	if numeric, ok := strings.CutPrefix(name, "#"); ok {
		base := 10
		if hex, isHex := strings.CutPrefix(numeric, "x"); isHex {
			numeric = hex
			base = 16
		}
		code, err := strconv.ParseInt(numeric, base, 32)
		if err != nil || code <= 0 {
			return "", i, false
		}
		return string(rune(code)), end + 1, true
	}

	return "", i, false
}

// unescapeCharRefs decodes character references in attribute values.
func unescapeCharRefs(value string) string {
	runes := []rune(value)
	out := &output{}
	writeHTMLContent(out, runes)

	return out.String()
}
