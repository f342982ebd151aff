package nlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const article = `Central banks raised interest rates again on Tuesday. Markets reacted calmly to the decision.
Analysts expect interest rates to stay high while inflation remains above target.
The decision surprised nobody who follows central banks closely. Bond yields moved slightly.
Some economists warn that higher interest rates could slow hiring. Others say inflation must come first.
Officials will meet again next month.`

func TestKeywordsRanksByFrequency(t *testing.T) {
	t.Parallel()

	got := Keywords(article, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "interest", got[0])
	assert.Equal(t, "rates", got[1])
	assert.NotContains(t, got, "the")
}

func TestKeywordsZeroLimit(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Keywords(article, 0))
}

func TestMergeKeywordsDeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()

	got := MergeKeywords(4, []string{"AI", " ", "Startups"}, []string{"ai", "funding", "startups", "europe", "extra"})

	assert.Equal(t, []string{"AI", "Startups", "funding", "europe"}, got)
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	got := SplitSentences("First one. Second one! \"Quoted third?\" Fourth\n\nFifth.")

	assert.Equal(t, []string{"First one.", "Second one!", "\"Quoted third?\"", "Fourth", "Fifth."}, got)
}

func TestSummarizeKeepsArticleOrder(t *testing.T) {
	t.Parallel()

	summary := Summarize("Central banks raise interest rates", article, Keywords(article, 10), 2)

	sentences := SplitSentences(summary)
	require.Len(t, sentences, 2)
	first := strings.Index(article, sentences[0])
	second := strings.Index(article, sentences[1])
	assert.True(t, first >= 0 && second > first, "sentences must come from the article in order")
	assert.Contains(t, summary, "Central banks raised interest rates again on Tuesday.")
}

func TestSummarizeShortText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Only one sentence.", Summarize("t", "Only one sentence.", nil, 5))
	assert.Empty(t, Summarize("t", "   ", nil, 5))
}
