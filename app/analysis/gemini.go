package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-1.5-flash"
	defaultMaxTokens   = 2048

	// Low temperature keeps the analysis factual and repeatable
	geminiTemperature = 0.3
	geminiTopP        = 0.8
)

var _ Provider = (*GeminiProvider)(nil)

// GeminiProvider implements Provider on top of the official Google GenAI SDK.
type GeminiProvider struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
	}
}

func (g *GeminiProvider) Name() string {
	return "gemini/" + g.model
}

func (g *GeminiProvider) Available() bool {
	return g.apiKey != ""
}

func (g *GeminiProvider) Generate(ctx context.Context, req Request) (Response, error) {
	if !g.Available() {
		return Response{}, fmt.Errorf("gemini provider not configured")
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](geminiTemperature),
		TopP:            genai.Ptr[float32](geminiTopP),
		MaxOutputTokens: int32(maxTokens),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}

	slog.Debug("Gemini API request starting", "model", g.model, "max_tokens", maxTokens)

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), config)
	if err != nil {
		return Response{}, fmt.Errorf("gemini request failed: %w", err)
	}

	content := resp.Text()

	model := g.model
	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		slog.Warn("Gemini response truncated at max tokens",
			"model", model, "max_tokens", maxTokens, "content_length", len(content))
	}

	slog.Info("Gemini API response", "model", model, "content_length", len(content))

	return Response{
		Content: content,
		Model:   model,
	}, nil
}

func (g *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	g.initOnce.Do(func() {
		g.client, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return g.client, g.initErr
}
