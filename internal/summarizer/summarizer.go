package summarizer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/metrics"
	"NewsAgent/internal/ports"
)

const (
	// DefaultMaxInputChars bounds the article text sent to the AI service.
	DefaultMaxInputChars = 16000
	// NoSummary is the last resort when a candidate carries no text at all.
	NoSummary = "No summary available"
)

// DefaultInstructions keeps the short conversational register used for video narration.
const DefaultInstructions = `You are a TikTok content creator targeting a Gen-Z audience.
Summarize the following news article in 3-4 trendy and easy-to-understand sentences.
- Make it fun and conversational, with a touch of witty humor.
- Focus on the main points and avoid unnecessary details.
- Stick to the facts of the article and provide accurate information.
- Make it perfect for reading aloud in a short video.
- Do not use any hashtags or emojis.
- Return only the summary, no boilerplate.`

var errBlank = errors.New("blank result")

// Input is everything the chain may draw on for one candidate.
type Input struct {
	Content     domain.ArticleContent
	Title       string
	Description string
}

// Strategy is one fallible way of producing a summary.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, in Input) (string, error)
}

// Result carries the summary and the strategy that produced it.
type Result struct {
	Text     string
	Strategy string
}

// FirstOf evaluates strategies in order and returns the first non-blank result unchanged.
// Failures are reported to onFail and never returned.
func FirstOf(ctx context.Context, in Input, strategies []Strategy, onFail func(name string, err error)) (Result, bool) {
	for _, s := range strategies {
		text, err := s.Run(ctx, in)
		if err == nil {
			if strings.TrimSpace(text) != "" {
				return Result{Text: text, Strategy: s.Name}, true
			}
			err = errBlank
		}
		if onFail != nil {
			onFail(s.Name, err)
		}
	}
	return Result{}, false
}

// Options tune the AI step.
type Options struct {
	Instructions  string
	MaxInputChars int
}

// Summarizer produces the final summary of an article through an AI → extractive → description chain.
type Summarizer struct {
	ai            ports.AIClient
	instructions  string
	maxInputChars int
	logger        *slog.Logger
}

// New builds a summarizer; a nil ai client simply removes the AI step.
func New(ai ports.AIClient, opts Options, log *slog.Logger) *Summarizer {
	if strings.TrimSpace(opts.Instructions) == "" {
		opts.Instructions = DefaultInstructions
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	return &Summarizer{
		ai:            ai,
		instructions:  opts.Instructions,
		maxInputChars: opts.MaxInputChars,
		logger:        log,
	}
}

// Summarize never fails; the returned text is non-empty.
func (s *Summarizer) Summarize(ctx context.Context, in Input, style domain.SummaryStyle) Result {
	strategies := s.chain(style)
	res, ok := FirstOf(ctx, in, strategies, func(name string, err error) {
		if s.logger != nil {
			s.logger.Debug("summary strategy failed", "strategy", name, "url", in.Content.URL, "error", err)
		}
	})
	if !ok {
		res = Result{Text: NoSummary, Strategy: "none"}
	}
	metrics.RecordSummary(res.Strategy)
	return res
}

func (s *Summarizer) chain(style domain.SummaryStyle) []Strategy {
	strategies := make([]Strategy, 0, 4)
	if style == domain.StyleTikTok && s.ai != nil {
		strategies = append(strategies, Strategy{Name: "ai", Run: s.generate})
	}
	return append(strategies,
		Strategy{Name: "extractive", Run: func(_ context.Context, in Input) (string, error) {
			return in.Content.ExtractiveSummary, nil
		}},
		Strategy{Name: "description", Run: func(_ context.Context, in Input) (string, error) {
			return in.Description, nil
		}},
		Strategy{Name: "title", Run: func(_ context.Context, in Input) (string, error) {
			return in.Title, nil
		}},
	)
}

func (s *Summarizer) generate(ctx context.Context, in Input) (string, error) {
	text := strings.TrimSpace(in.Content.FullText)
	if text == "" {
		return "", errors.New("no article text for ai summary")
	}
	reply, err := s.ai.Complete(ctx, s.instructions, truncateRunes(text, s.maxInputChars))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
