// Package nlp holds the lightweight text heuristics used on extracted articles:
// frequency keywords and a sentence-scoring extractive summary.
package nlp

import (
	"sort"
	"strings"
	"unicode"
)

// Keywords returns up to limit of the most frequent non-stopword terms of text,
// ordered by frequency and then by first appearance.
func Keywords(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	type term struct {
		word  string
		count int
		first int
	}

	terms := map[string]*term{}
	for i, word := range Tokenize(text) {
		if len([]rune(word)) < 3 || isStopword(word) || isNumeric(word) {
			continue
		}
		if t, ok := terms[word]; ok {
			t.count++
			continue
		}
		terms[word] = &term{word: word, count: 1, first: i}
	}

	ranked := make([]*term, 0, len(terms))
	for _, t := range terms {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, t.word)
	}
	return out
}

// MergeKeywords concatenates keyword lists, dropping blanks and case-insensitive duplicates,
// and stops at limit entries.
func MergeKeywords(limit int, lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range lists {
		for _, kw := range list {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			key := strings.ToLower(kw)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, kw)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Tokenize lower-cases text and splits it on anything that is not a letter, digit or apostrophe.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

var stopwords = func() map[string]struct{} {
	list := strings.Fields(`
a about above after again against all also although am an and any are aren't as at
be because been before being below between both but by can can't cannot could couldn't
did didn't do does doesn't doing don't down during each even ever every few for from further
get gets got had hadn't has hasn't have haven't having he he'd he'll he's her here here's hers
herself him himself his how how's however i i'd i'll i'm i've if in into is isn't it it's its
itself just let's like made make many may me might more most much must mustn't my myself new
no nor not now of off on once one only or other ought our ours ourselves out over own per
said same say says she she'd she'll she's should shouldn't since so some such than that that's
the their theirs them themselves then there there's these they they'd they'll they're they've
this those though through to too two under until up upon us very via was wasn't we we'd we'll
we're we've were weren't what what's when when's where where's whether which while who who's
whom why why's will with within without won't would wouldn't year years yet you you'd you'll
you're you've your yours yourself yourselves according told week monday tuesday wednesday
thursday friday saturday sunday`)
	set := make(map[string]struct{}, len(list))
	for _, w := range list {
		set[w] = struct{}{}
	}
	return set
}()
