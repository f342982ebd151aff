package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/nlp"
	"NewsAgent/internal/ports"
)

const (
	// minReadableChars below this readability output is treated as a miss and <p> text is used.
	minReadableChars = 200

	defaultUserAgent    = "NewsAgent/1.0"
	defaultMaxBodyBytes = 5 << 20
)

// Options tunes page fetching.
type Options struct {
	UserAgent        string
	MaxBodyBytes     int64
	MaxKeywords      int
	SummarySentences int
}

// Parser downloads article pages and extracts readable text, keywords and an extractive summary.
type Parser struct {
	client  *http.Client
	limiter *HostLimiter
	opts    Options
	logger  *slog.Logger
}

var _ ports.PageParser = (*Parser)(nil)

// NewParser wires an HTTP client and an optional per-host limiter.
func NewParser(client *http.Client, limiter *HostLimiter, opts Options, log *slog.Logger) *Parser {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = domain.MaxKeywords
	}
	if opts.SummarySentences <= 0 {
		opts.SummarySentences = nlp.DefaultSummarySentences
	}
	return &Parser{client: client, limiter: limiter, opts: opts, logger: log}
}

// Parse fetches rawURL and returns its content. FetchedAt is left for the caller.
func (p *Parser) Parse(ctx context.Context, rawURL string) (domain.ArticleContent, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("invalid url %s: %w", rawURL, err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return domain.ArticleContent{}, fmt.Errorf("unsupported scheme %q", target.Scheme)
	}

	if err := p.limiter.Wait(ctx, rawURL); err != nil {
		return domain.ArticleContent{}, fmt.Errorf("wait for host: %w", err)
	}

	raw, err := p.fetch(ctx, target)
	if err != nil {
		return domain.ArticleContent{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("parse document: %w", err)
	}

	title := pageTitle(doc)
	text := readableText(raw, target)
	if utf8.RuneCountInString(text) < minReadableChars {
		if fallback := paragraphText(doc); utf8.RuneCountInString(fallback) > utf8.RuneCountInString(text) {
			text = fallback
		}
	}

	keywords := nlp.MergeKeywords(p.opts.MaxKeywords, metaKeywords(doc), nlp.Keywords(text, p.opts.MaxKeywords))
	summary := nlp.Summarize(title, text, keywords, p.opts.SummarySentences)

	p.debug("page parsed", "url", rawURL, "chars", len(text), "keywords", len(keywords))
	return domain.ArticleContent{
		URL:               rawURL,
		FullText:          text,
		Keywords:          keywords,
		ExtractiveSummary: summary,
	}, nil
}

func (p *Parser) fetch(ctx context.Context, target *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !strings.Contains(mediaType, "html") {
			return nil, fmt.Errorf("unsupported content type %q", ct)
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, p.opts.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return raw, nil
}

func readableText(raw []byte, target *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(raw), target)
	if err != nil {
		return ""
	}
	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func paragraphText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// metaKeywords collects news_keywords, keywords and article:tag values in that priority.
func metaKeywords(doc *goquery.Document) []string {
	byKind := map[string][]string{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		kind := strings.ToLower(strings.TrimSpace(s.AttrOr("name", s.AttrOr("property", ""))))
		switch kind {
		case "news_keywords", "keywords", "article:tag":
		default:
			return
		}
		for _, kw := range strings.Split(s.AttrOr("content", ""), ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				byKind[kind] = append(byKind[kind], kw)
			}
		}
	})

	var out []string
	for _, kind := range []string{"news_keywords", "keywords", "article:tag"} {
		out = append(out, byKind[kind]...)
	}
	return out
}

func (p *Parser) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
