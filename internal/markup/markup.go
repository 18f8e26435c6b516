// Package markup converts formatted text into plain text plus message
// entities, and back. Entity offsets and lengths are measured in UTF-16 code
// units, matching the platform wire format.
package markup

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"telesim/pkg/botapi"
)

// ParseMode selects one of the three mutually exclusive markup dialects.
type ParseMode string

const (
	// ParseModeMarkdown is the legacy Markdown dialect.
	ParseModeMarkdown ParseMode = "Markdown"
	// ParseModeMarkdownV2 is the extended Markdown dialect with escaping.
	ParseModeMarkdownV2 ParseMode = "MarkdownV2"
	// ParseModeHTML is the HTML tag dialect.
	ParseModeHTML ParseMode = "HTML"
)

// ParseModeFrom normalizes a wire parse_mode value. An empty value means no
// markup interpretation.
func ParseModeFrom(value string) (ParseMode, error) {
	switch strings.ToLower(value) {
	case "":
		return "", nil
	case "markdown":
		return ParseModeMarkdown, nil
	case "markdownv2":
		return ParseModeMarkdownV2, nil
	case "html":
		return ParseModeHTML, nil
	default:
		return "", fmt.Errorf("unsupported parse mode %q", value)
	}
}

// Parse strips dialect markup from text and returns the plain text together
// with the flat, appearance-ordered entity list. Unmatched delimiters are
// emitted literally.
func Parse(text string, mode ParseMode) (string, []botapi.MessageEntity, error) {
	switch mode {
	case "":
		return text, nil, nil
	case ParseModeMarkdown:
		plain, entities := parseMarkdown(text, false)
		return plain, entities, nil
	case ParseModeMarkdownV2:
		plain, entities := parseMarkdown(text, true)
		return plain, entities, nil
	case ParseModeHTML:
		plain, entities := parseHTML(text)
		return plain, entities, nil
	default:
		return "", nil, fmt.Errorf("unsupported parse mode %q", mode)
	}
}

// output accumulates stripped plain text while tracking the UTF-16 cursor.
type output struct {
	builder strings.Builder
	cursor  int
}

func (o *output) writeString(s string) {
	o.builder.WriteString(s)
	o.cursor += utf16Len(s)
}

func (o *output) writeRune(r rune) {
	o.builder.WriteRune(r)
	o.cursor += utf16RuneLen(r)
}

func (o *output) String() string {
	return o.builder.String()
}

// utf16Len reports the UTF-16 code unit length of s.
func utf16Len(s string) int {
	units := 0
	for _, r := range s {
		units += utf16RuneLen(r)
	}

	return units
}

func utf16RuneLen(r rune) int {
	if r1, _ := utf16.EncodeRune(r); r1 != '�' {
		return 2
	}

	return 1
}
