package aiservice

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"MediBot/internal/apperr"
)

const structuredMimeType = "application/json"

// geminiModels is the slice of genai.Models the extractor needs.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGeminiClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// GeminiConfig configures the Gemini vision backend.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiExtractor asks Gemini for structured output constrained by
// NutritionSchema. The reply still goes through ParseNutritionFacts.
type GeminiExtractor struct {
	models  geminiModels
	model   string
	timeout time.Duration
}

func NewGeminiExtractor(ctx context.Context, cfg GeminiConfig) (*GeminiExtractor, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.New(apperr.KindConfig, "gemini.new", "GEMINI_API_KEY is not set")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, apperr.New(apperr.KindConfig, "gemini.new", "gemini model is not set")
	}

	timeout := timeoutOrDefault(cfg.Timeout)
	client, err := newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "gemini.new", "failed to create gemini client", err)
	}

	return newGeminiExtractor(client.Models, cfg.Model, timeout), nil
}

func newGeminiExtractor(models geminiModels, model string, timeout time.Duration) *GeminiExtractor {
	return &GeminiExtractor{models: models, model: model, timeout: timeout}
}

func (g *GeminiExtractor) Extract(ctx context.Context, img Image) (*NutritionFacts, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("model", g.model).Str("mime_type", img.MIMEType).Int("image_bytes", len(img.Data)).Msg("Calling Gemini API...")

	if _, ok := ctx.Deadline(); !ok && g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: NutritionUserInstruction},
				{InlineData: &genai.Blob{Data: img.Data, MIMEType: img.MIMEType}},
			},
		},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: NutritionScanPrompt}},
		},
		MaxOutputTokens:  NutritionMaxTokens,
		ResponseMIMEType: structuredMimeType,
		ResponseSchema:   NutritionSchema,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, "gemini.extract", "gemini request failed", err)
	}

	text := visibleText(resp)
	if text == "" {
		return nil, apperr.New(apperr.KindProvider, "gemini.extract", "no content found in Gemini response")
	}

	return ParseNutritionFacts(text)
}

// visibleText joins the non-thought text parts of the first candidate.
func visibleText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}
