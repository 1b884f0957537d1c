package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// ErrInvalidResponse is returned when the model answers without any text.
var ErrInvalidResponse = errors.New("invalid response format from Gemini API")

// Analyzer produces Markdown feedback for a resume.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// Gemini analyzes resumes with the Gemini generateContent API.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGemini creates a Gemini analyzer for the given model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, config: GenerationConfig()}, nil
}

// GenerationConfig returns the fixed sampling and safety parameters of the analysis call.
func GenerationConfig() *genai.GenerateContentConfig {
	threshold := genai.HarmBlockThresholdBlockMediumAndAbove
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 2048,
		TopP:            genai.Ptr[float32](0.8),
		TopK:            genai.Ptr[float32](40),
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: threshold},
			{Category: genai.HarmCategoryHateSpeech, Threshold: threshold},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: threshold},
			{Category: genai.HarmCategoryDangerousContent, Threshold: threshold},
		},
	}
}

// Analyze sends the resume to the model and returns its Markdown answer.
func (g *Gemini) Analyze(ctx context.Context, text string) (string, error) {
	slog.Debug("calling gemini", "model", g.model, "chars", len(text))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(text)), g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", ErrInvalidResponse
	}
	return out, nil
}

// upstreamError extracts the status code and message of an API error, if err is one.
func upstreamError(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}
