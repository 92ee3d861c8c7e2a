package template

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// RenderContext maps placeholder names to their values.
type RenderContext map[string]string

// NewRenderContext populates the standard variables for a project
// name: PROJECT_NAME, its snake/kebab/pascal casings, and YEAR.
func NewRenderContext(projectName string, now time.Time) RenderContext {
	words := splitWords(projectName)
	return RenderContext{
		"PROJECT_NAME":        projectName,
		"PROJECT_NAME_SNAKE":  strings.Join(words, "_"),
		"PROJECT_NAME_KEBAB":  strings.Join(words, "-"),
		"PROJECT_NAME_PASCAL": pascal(words),
		"YEAR":                strconv.Itoa(now.Year()),
	}
}

// splitWords lowercases and splits a name on separators and camelCase
// boundaries.
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	if len(words) == 0 {
		return []string{""}
	}
	return words
}

func pascal(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}
