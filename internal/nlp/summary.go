package nlp

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultSummarySentences matches the length of a typical newsroom abstract.
const DefaultSummarySentences = 5

var sentenceBoundary = regexp.MustCompile(`([.!?]["'”’)\]]*)\s+`)

// SplitSentences breaks text into trimmed sentences on terminal punctuation and blank lines.
func SplitSentences(text string) []string {
	var sentences []string
	for _, block := range strings.Split(text, "\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		marked := sentenceBoundary.ReplaceAllString(block, "$1\x00")
		for _, s := range strings.Split(marked, "\x00") {
			s = strings.TrimSpace(s)
			if s != "" {
				sentences = append(sentences, s)
			}
		}
	}
	return sentences
}

// Summarize picks the n best sentences of text and returns them in article order.
// Sentences score higher when they share words with the title and the article keywords,
// sit early in the article and have a readable length.
func Summarize(title, text string, keywords []string, n int) string {
	if n <= 0 {
		return ""
	}
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) <= n {
		return strings.Join(sentences, " ")
	}

	titleWords := wordSet(Tokenize(title))
	keywordWeight := map[string]float64{}
	for i, kw := range keywords {
		for _, w := range Tokenize(kw) {
			keywordWeight[w] = float64(len(keywords)-i) / float64(len(keywords))
		}
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(sentences))
	for i, s := range sentences {
		words := Tokenize(s)
		if len(words) == 0 {
			continue
		}
		var titleHits, keywordScore float64
		for _, w := range words {
			if _, ok := titleWords[w]; ok && !isStopword(w) {
				titleHits++
			}
			keywordScore += keywordWeight[w]
		}
		score := 1.5*titleHits/float64(len(titleWords)+1) +
			2.0*keywordScore/float64(len(words)) +
			positionScore(i, len(sentences)) +
			lengthScore(utf8.RuneCountInString(s))
		ranked = append(ranked, scored{index: i, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].index < ranked[j].index })

	picked := make([]string, 0, len(ranked))
	for _, r := range ranked {
		picked = append(picked, sentences[r.index])
	}
	return strings.Join(picked, " ")
}

func positionScore(index, total int) float64 {
	rel := float64(index) / float64(total)
	switch {
	case rel < 0.1:
		return 0.3
	case rel < 0.3:
		return 0.2
	case rel > 0.9:
		return 0.05
	default:
		return 0.1
	}
}

func lengthScore(runes int) float64 {
	switch {
	case runes < 40:
		return 0
	case runes > 400:
		return 0.1
	default:
		return 0.25
	}
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
