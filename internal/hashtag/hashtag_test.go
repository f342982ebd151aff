package hashtag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func count(tags []string, want string) int {
	n := 0
	for _, tag := range tags {
		if tag == want {
			n++
		}
	}
	return n
}

func TestGenerateDeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()

	tags := NewGenerator(10).Generate([]string{"AI", "ai", "startup"}, "technology")

	assert.LessOrEqual(t, len(tags), 10)
	assert.Equal(t, 1, count(tags, "#AI"))
	assert.Equal(t, 1, count(tags, "#technology"))
	assert.Equal(t, []string{"#technology", "#AI", "#startup"}, tags)
}

func TestGenerateWithoutKeywordsReturnsCategoryOnly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"#business"}, NewGenerator(0).Generate(nil, "business"))
}

func TestGenerateCapsLength(t *testing.T) {
	t.Parallel()

	keywords := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		keywords = append(keywords, fmt.Sprintf("topic%d", i))
	}

	tags := NewGenerator(5).Generate(keywords, "science")

	assert.Len(t, tags, 5)
	assert.Equal(t, "#science", tags[0])
	assert.Equal(t, "#topic3", tags[4])
}

func TestGenerateSanitizesTokens(t *testing.T) {
	t.Parallel()

	tags := NewGenerator(10).Generate([]string{"machine learning", "#Science", "  ", "U.S.", "---"}, "science")

	assert.Equal(t, []string{"#science", "#machinelearning", "#US"}, tags)
}

func TestGenerateKeepsPunctuationOnlyCategory(t *testing.T) {
	t.Parallel()

	g := NewGenerator(10)
	assert.Equal(t, []string{"#&"}, g.Generate(nil, "&"))
	assert.Equal(t, []string{"#&", "#markets"}, g.Generate([]string{"markets"}, " & "))
	assert.Empty(t, g.Generate(nil, "   "))
}
