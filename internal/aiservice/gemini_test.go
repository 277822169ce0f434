package aiservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"MediBot/internal/apperr"
)

type stubGeminiModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool
}

func (s *stubGeminiModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.model = model
	s.contents = contents
	s.config = config
	_, s.deadline = ctx.Deadline()
	return s.resp, s.err
}

func geminiResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}},
	}
}

func TestGeminiExtractor_Extract(t *testing.T) {
	stub := &stubGeminiModels{resp: geminiResponse(
		&genai.Part{Text: "reading the label", Thought: true},
		&genai.Part{Text: `{"calories": 320, "fat": 9, "carbohydrates": 51, "sugar": null, "protein": 11, "serving_size": "2 slices"}`},
	)}
	extractor := newGeminiExtractor(stub, "gemini-test", time.Second)

	img, err := DecodeImage(pngBase64())
	require.NoError(t, err)

	facts, err := extractor.Extract(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, 320.0, *facts.Calories)
	assert.Nil(t, facts.Sugar)
	assert.Equal(t, "2 slices", *facts.ServingSize)

	assert.Equal(t, "gemini-test", stub.model)
	assert.True(t, stub.deadline)
	require.Len(t, stub.contents, 1)
	require.Len(t, stub.contents[0].Parts, 2)
	blob := stub.contents[0].Parts[1].InlineData
	require.NotNil(t, blob)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, pngBytes, blob.Data)

	assert.Equal(t, "application/json", stub.config.ResponseMIMEType)
	assert.Equal(t, NutritionSchema, stub.config.ResponseSchema)
	assert.EqualValues(t, NutritionMaxTokens, stub.config.MaxOutputTokens)
	assert.Equal(t, NutritionScanPrompt, stub.config.SystemInstruction.Parts[0].Text)
}

func TestGeminiExtractor_EmptyResponse(t *testing.T) {
	extractor := newGeminiExtractor(&stubGeminiModels{resp: &genai.GenerateContentResponse{}}, "m", time.Second)

	img, err := DecodeImage(pngBase64())
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), img)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProvider))
}

func TestGeminiExtractor_ProviderError(t *testing.T) {
	upstream := errors.New("quota exceeded")
	extractor := newGeminiExtractor(&stubGeminiModels{err: upstream}, "m", time.Second)

	img, err := DecodeImage(pngBase64())
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), img)
	assert.ErrorIs(t, err, upstream)
	assert.True(t, apperr.IsKind(err, apperr.KindProvider))
}

func TestNewGeminiExtractor_RequiresKey(t *testing.T) {
	_, err := NewGeminiExtractor(context.Background(), GeminiConfig{Model: "gemini-2.5-flash"})
	assert.True(t, apperr.IsKind(err, apperr.KindConfig))
}
