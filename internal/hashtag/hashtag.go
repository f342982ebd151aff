package hashtag

import (
	"strings"
	"unicode"
)

// DefaultMax is the number of hashtags attached to an article when nothing else is configured.
const DefaultMax = 10

// Generator turns article keywords and the requested category into hashtags.
type Generator struct {
	max int
}

// NewGenerator caps output at max entries; max <= 0 uses DefaultMax.
func NewGenerator(max int) *Generator {
	if max <= 0 {
		max = DefaultMax
	}
	return &Generator{max: max}
}

// Generate returns the category hashtag followed by keyword hashtags in order.
// Entries are compared case-insensitively and keep the casing of their first occurrence.
func (g *Generator) Generate(keywords []string, category string) []string {
	tags := make([]string, 0, g.max)
	seen := make(map[string]struct{}, len(keywords)+1)

	add := func(token string) {
		if len(tags) >= g.max || token == "" {
			return
		}
		key := strings.ToLower(token)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		tags = append(tags, "#"+token)
	}

	add(categoryToken(category))
	for _, kw := range keywords {
		add(sanitize(kw))
	}
	return tags
}

// categoryToken keeps the category tag even when it holds no letters or digits,
// falling back to the lower-cased category without whitespace.
func categoryToken(category string) string {
	if token := sanitize(category); token != "" {
		return token
	}
	return strings.ToLower(strings.Join(strings.Fields(category), ""))
}

// sanitize keeps letters and digits only, so "machine learning" becomes "machinelearning"
// and "#AI" becomes "AI".
func sanitize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
