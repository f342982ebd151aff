package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxKeywords caps the keywords stored with extracted content.
const MaxKeywords = 10

// HeadlineRecord is a candidate returned by a news index; URL is its natural key.
type HeadlineRecord struct {
	Title       string
	URL         string
	SourceName  string
	PublishedAt time.Time
	Description string
}

// ArticleContent is the parsed body of one article page.
type ArticleContent struct {
	URL               string
	FullText          string
	Keywords          []string
	ExtractiveSummary string
	FetchedAt         time.Time
}

// NewsArticle is a fully processed candidate handed back to callers.
type NewsArticle struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Hashtags    []string  `json:"hashtags"`
	URL         string    `json:"url"`
}

// SummaryStyle selects the summarization register.
type SummaryStyle string

const (
	StyleTikTok   SummaryStyle = "tiktok"
	StyleStandard SummaryStyle = "standard"
)

// ParseSummaryStyle maps user input to a style; "youtube" is kept as an alias of tiktok.
func ParseSummaryStyle(value string) (SummaryStyle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "tiktok", "youtube":
		return StyleTikTok, nil
	case "standard", "":
		return StyleStandard, nil
	default:
		return "", fmt.Errorf("unknown summary style %q (valid: tiktok, standard)", value)
	}
}
