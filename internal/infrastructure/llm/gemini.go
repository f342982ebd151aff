package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"NewsAgent/internal/config"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/ports"
)

// GeminiClient implements ports.AIClient on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ ports.AIClient = (*GeminiClient)(nil)

// NewGeminiClient validates the key up front so a misconfiguration surfaces before any article is fetched.
func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &domain.ConfigurationError{Field: "ai.apiKey", Reason: "GEMINI_API_KEY is required"}
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Complete sends instructions as the system instruction and text as the user turn.
func (g *GeminiClient) Complete(ctx context.Context, instructions, text string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini client is nil")
	}

	var genCfg *genai.GenerateContentConfig
	if strings.TrimSpace(instructions) != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instructions, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errors.New("gemini returned no text")
	}
	return out, nil
}
