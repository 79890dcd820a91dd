package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"GREENPATH_BACK-END/internal/config"
)

// Gemini classifies images with Google's Gemini API
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *zap.Logger
}

// NewGemini creates a Gemini classifier
func NewGemini(ctx context.Context, cfg config.GeminiConfig, log *zap.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, model: model, timeout: cfg.Timeout, log: log}, nil
}

// Classify sends the prompt and the image in one request and parses the reply
func (g *Gemini) Classify(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	started := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	g.log.Debug("gemini classification finished",
		zap.String("model", g.model),
		zap.Int("image_bytes", len(image)),
		zap.Duration("duration", time.Since(started)))

	return ParseAnalysis(responseText(resp))
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p != nil && p.Text != "" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
