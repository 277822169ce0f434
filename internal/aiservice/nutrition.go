package aiservice

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"MediBot/internal/apperr"
)

const defaultImageMIMEType = "image/jpeg"

var (
	// ErrNoImage is returned when the request carries no image payload.
	ErrNoImage = apperr.New(apperr.KindValidation, "nutrition.decode", "No image data provided")

	// ErrInvalidImage is returned when the payload is not base64 image data.
	ErrInvalidImage = apperr.New(apperr.KindValidation, "nutrition.decode", "Invalid image data provided")
)

// NutritionFacts is the per-serving content of a nutrition label. Every key is
// always serialized; an unknown value is null.
type NutritionFacts struct {
	Calories      *float64 `json:"calories"`
	Fat           *float64 `json:"fat"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Sugar         *float64 `json:"sugar"`
	Protein       *float64 `json:"protein"`
	ServingSize   *string  `json:"serving_size"`
}

// Extractor reads nutrition facts out of a label image.
type Extractor interface {
	Extract(ctx context.Context, img Image) (*NutritionFacts, error)
}

// Image is a decoded scan payload.
type Image struct {
	// Base64 is the payload without any data-URL prefix.
	Base64   string
	MIMEType string
	Data     []byte
}

// DataURL renders the image as a data URL for OpenAI-style image_url parts.
func (img Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIMEType, img.Base64)
}

// DecodeImage accepts raw base64 or a data URL. Everything up to and including
// the first comma is treated as the prefix; its declared MIME type is kept.
func DecodeImage(raw string) (Image, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Image{}, ErrNoImage
	}

	payload, declared := raw, ""
	if i := strings.IndexByte(raw, ','); i >= 0 {
		declared = mimeFromPrefix(raw[:i])
		payload = raw[i+1:]
	}
	payload = strings.Join(strings.Fields(payload), "")
	if payload == "" {
		return Image{}, ErrNoImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil || len(data) == 0 {
		return Image{}, ErrInvalidImage
	}

	mimeType := declared
	if mimeType == "" {
		if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
			mimeType = sniffed
		} else {
			mimeType = defaultImageMIMEType
		}
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return Image{}, ErrInvalidImage
	}

	return Image{Base64: payload, MIMEType: mimeType, Data: data}, nil
}

// mimeFromPrefix pulls "image/png" out of "data:image/png;base64".
func mimeFromPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if !strings.HasPrefix(strings.ToLower(prefix), "data:") {
		return ""
	}
	mimeType := prefix[len("data:"):]
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// VisionConfig configures an OpenAI-compatible vision endpoint (OpenRouter).
type VisionConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// VisionExtractor sends the label image to a vision model and parses the JSON
// object out of its reply.
type VisionExtractor struct {
	client *openai.Client
	model  string
}

func NewVisionExtractor(cfg VisionConfig) (*VisionExtractor, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.New(apperr.KindConfig, "vision.new", "vision api key is not set")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, apperr.New(apperr.KindConfig, "vision.new", "vision model is not set")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}

	return &VisionExtractor{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

func (v *VisionExtractor) Extract(ctx context.Context, img Image) (*NutritionFacts, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("model", v.model).Str("mime_type", img.MIMEType).Int("image_bytes", len(img.Data)).Msg("Calling vision API")

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     v.model,
		MaxTokens: NutritionMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: NutritionScanPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: NutritionUserInstruction},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: img.DataURL()}},
				},
			},
		},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, "vision.extract", "vision request failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.New(apperr.KindProvider, "vision.extract", "no choices in vision response")
	}

	return ParseNutritionFacts(resp.Choices[0].Message.Content)
}
