package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shoplist/backend/internal/domain"
)

const (
	defaultOllamaModel   = "llama3.1"
	defaultOllamaTimeout = 5 * time.Minute
)

// OllamaProvider talks to a local Ollama instance over its generate API.
// It exists so the demo runs without any hosted AI account.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Format string `json:"format,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaProvider creates an Ollama-backed provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	if config.BaseURL == "" {
		return nil, errors.New("ollama: base URL is required")
	}

	model := config.Model
	if model == "" {
		model = defaultOllamaModel
	}

	return &OllamaProvider{
		baseURL:    config.BaseURL,
		model:      model,
		httpClient: &http.Client{Timeout: defaultOllamaTimeout},
	}, nil
}

// ExtractRecipe asks the model to pull structured recipe data out of a page
func (p *OllamaProvider) ExtractRecipe(ctx context.Context, htmlContent, sourceURL string) (*domain.Recipe, error) {
	prompt := fmt.Sprintf(recipeExtractionPrompt, truncateHTML(htmlContent))

	response, err := p.generate(ctx, recipeExtractionSystem, prompt)
	if err != nil {
		return nil, err
	}
	return parseRecipeResponse(response, sourceURL)
}

// NormalizeIngredients asks the model to parse raw ingredient lines
func (p *OllamaProvider) NormalizeIngredients(ctx context.Context, lines []string) ([]domain.Ingredient, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	linesJSON, err := ingredientLinesJSON(lines)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(ingredientNormalizationPrompt, linesJSON)

	response, err := p.generate(ctx, ingredientNormalizationSystem, prompt)
	if err != nil {
		return nil, err
	}
	return parseIngredientsResponse(response)
}

func (p *OllamaProvider) generate(ctx context.Context, system, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  p.model,
		Prompt: prompt,
		System: system,
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding ollama request: %w", err)
	}

	url := p.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("model", p.model).Msg("ollama request failed")
		return "", fmt.Errorf("%w: %v", domain.ErrAIProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama status %d: %s", domain.ErrAIProviderFailure, resp.StatusCode, body)
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decoding ollama response: %v", domain.ErrAIProviderFailure, err)
	}
	if decoded.Response == "" {
		return "", fmt.Errorf("%w: ollama returned empty response", domain.ErrAIProviderFailure)
	}
	return decoded.Response, nil
}
