package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/bookforge/bookforge-api/internal/domain/repository"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// systemInstruction is fixed for every generation request.
const systemInstruction = "You are an expert technical book writer and programming instructor. " +
	"Create comprehensive, well-structured educational content that is engaging and practical."

const (
	generationTemperature = 0.7
	maxOutputTokens       = 8192
)

// GeminiClient implements repository.LLMClient.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key must not be empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(generationTemperature)
	model.SetMaxOutputTokens(maxOutputTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: modelName,
	}, nil
}

// GenerateBook sends the built prompt to Gemini and returns the generated
// text plus usage metadata. Provider failures are classified so the caller
// can surface a distinct message per failure class; nothing is retried here.
func (c *GeminiClient) GenerateBook(ctx context.Context, prompt string) (*repository.GenerationResult, error) {
	log.Printf("[Gemini] ☁️ Sending generation request to %s...", c.modelName)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, classifyProviderError(err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	result := &repository.GenerationResult{
		Content: text,
		Model:   c.modelName,
	}
	if resp.UsageMetadata != nil {
		result.PromptTokens = resp.UsageMetadata.PromptTokenCount
		result.OutputTokens = resp.UsageMetadata.CandidatesTokenCount
		result.TotalTokens = resp.UsageMetadata.TotalTokenCount
	}

	log.Printf("[Gemini] ☁️ Response received (%d tokens total).", result.TotalTokens)
	return result, nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from gemini")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}

	return "", fmt.Errorf("unexpected response format from gemini")
}

func (c *GeminiClient) Name() string {
	return fmt.Sprintf("Gemini %s (Cloud)", c.modelName)
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
