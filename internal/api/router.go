package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"NewsAgent/internal/domain"
	"NewsAgent/internal/usecase"
)

// maxCount bounds a single HTTP request; larger digests go through the CLI.
const maxCount = 50

// NewsService runs one acquisition.
type NewsService interface {
	Run(ctx context.Context, req usecase.AcquireRequest) ([]domain.NewsArticle, error)
}

// Defaults fill query parameters the caller leaves out.
type Defaults struct {
	Category         string
	TargetCount      int
	MaxExtraAttempts int
	Style            domain.SummaryStyle
}

// Server serves the news API over gin.
type Server struct {
	news     NewsService
	defaults Defaults
	logger   *slog.Logger
}

// NewServer builds a Server; a nil logger discards output.
func NewServer(news NewsService, defaults Defaults, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{news: news, defaults: defaults, logger: log}
}

// RegisterRoutes mounts /health, /metrics and /api/v1/news on r.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listNews(c *gin.Context) {
	req, err := s.parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "bad_request",
			"message": err.Error(),
		})
		return
	}

	articles, err := s.news.Run(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, req, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    articles,
	})
}

func (s *Server) parseRequest(c *gin.Context) (usecase.AcquireRequest, error) {
	req := usecase.AcquireRequest{
		Category:         strings.ToLower(strings.TrimSpace(c.DefaultQuery("category", s.defaults.Category))),
		TargetCount:      s.defaults.TargetCount,
		MaxExtraAttempts: s.defaults.MaxExtraAttempts,
		Style:            s.defaults.Style,
	}
	if req.Category == "" {
		return req, errors.New("category is required")
	}

	if raw, ok := c.GetQuery("count"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxCount {
			return req, errors.New("count must be an integer between 1 and " + strconv.Itoa(maxCount))
		}
		req.TargetCount = n
	}

	if raw, ok := c.GetQuery("maxExtra"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, errors.New("maxExtra must be a non-negative integer")
		}
		req.MaxExtraAttempts = n
	}

	if raw, ok := c.GetQuery("style"); ok {
		style, err := domain.ParseSummaryStyle(raw)
		if err != nil {
			return req, err
		}
		req.Style = style
	}

	return req, nil
}

func (s *Server) writeError(c *gin.Context, req usecase.AcquireRequest, err error) {
	var (
		exhausted   *domain.ExhaustionError
		unavailable *domain.SourceUnavailableError
		cfgErr      *domain.ConfigurationError
	)

	switch {
	case errors.As(err, &cfgErr):
		s.logger.Error("news request misconfigured", "category", req.Category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "configuration_error",
			"message": "service is misconfigured",
		})
	case errors.As(err, &exhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":      "exhausted",
			"message":   err.Error(),
			"target":    exhausted.Target,
			"achieved":  exhausted.Achieved,
			"attempted": exhausted.Attempted,
		})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    "source_unavailable",
			"message": err.Error(),
		})
	default:
		s.logger.Error("news request failed", "category", req.Category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
	}
}
