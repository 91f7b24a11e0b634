package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/shoplist/backend/internal/domain"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultMaxTokens   = 2000
)

// OpenAIProvider extracts recipes and normalizes ingredients through the
// OpenAI chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIProvider creates an OpenAI-backed provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		maxTokens:   maxTokens,
		temperature: config.Temperature,
	}, nil
}

// ExtractRecipe asks the model to pull structured recipe data out of a page
func (p *OpenAIProvider) ExtractRecipe(ctx context.Context, htmlContent, sourceURL string) (*domain.Recipe, error) {
	prompt := fmt.Sprintf(recipeExtractionPrompt, truncateHTML(htmlContent))

	response, err := p.complete(ctx, recipeExtractionSystem, prompt)
	if err != nil {
		return nil, err
	}
	return parseRecipeResponse(response, sourceURL)
}

// NormalizeIngredients asks the model to parse raw ingredient lines
func (p *OpenAIProvider) NormalizeIngredients(ctx context.Context, lines []string) ([]domain.Ingredient, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	linesJSON, err := ingredientLinesJSON(lines)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(ingredientNormalizationPrompt, linesJSON)

	response, err := p.complete(ctx, ingredientNormalizationSystem, prompt)
	if err != nil {
		return nil, err
	}
	return parseIngredientsResponse(response)
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		logger.Error().Err(err).Str("model", p.model).Msg("openai chat completion failed")
		return "", fmt.Errorf("%w: %v", domain.ErrAIProviderFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrAIProviderFailure)
	}
	return resp.Choices[0].Message.Content, nil
}
