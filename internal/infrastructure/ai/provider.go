package ai

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shoplist/backend/internal/domain"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "ai").Logger()

// Supported provider names
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// maxHTMLBytes caps how much page content is sent to the model. Recipe pages
// carry most of their recipe markup early; sending whole pages blows token
// budgets for no gain.
const maxHTMLBytes = 64 << 10

// Provider combines the AI capabilities the shoplist pipeline needs
type Provider interface {
	domain.RecipeExtractor
	domain.IngredientNormalizer
}

// Config holds configuration for AI providers
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// NewProvider creates the configured AI provider
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(config)
	case ProviderOllama:
		return NewOllamaProvider(config)
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", config.Provider)
	}
}

// recipePayload mirrors the JSON shape the prompts specify
type recipePayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Servings     int      `json:"servings"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ImageURL     string   `json:"image_url"`
}

func (p recipePayload) toDomain(sourceURL string) *domain.Recipe {
	return &domain.Recipe{
		Title:        p.Title,
		Description:  p.Description,
		Servings:     p.Servings,
		PrepTime:     p.PrepTime,
		CookTime:     p.CookTime,
		Ingredients:  p.Ingredients,
		Instructions: p.Instructions,
		ImageURL:     p.ImageURL,
		SourceURL:    sourceURL,
	}
}

type ingredientPayload struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	OriginalText string  `json:"original_text"`
}

func ingredientsToDomain(payloads []ingredientPayload) []domain.Ingredient {
	ingredients := make([]domain.Ingredient, 0, len(payloads))
	for _, p := range payloads {
		if p.Name == "" {
			continue
		}
		ingredients = append(ingredients, domain.Ingredient{
			Name:         strings.ToLower(strings.TrimSpace(p.Name)),
			Quantity:     p.Quantity,
			Unit:         p.Unit,
			OriginalText: p.OriginalText,
		})
	}
	return ingredients
}

// parseRecipeResponse decodes a model response into a recipe
func parseRecipeResponse(response, sourceURL string) (*domain.Recipe, error) {
	var payload recipePayload
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding recipe response: %v", domain.ErrAIProviderFailure, err)
	}
	if payload.Title == "" && len(payload.Ingredients) == 0 {
		return nil, domain.ErrNoRecipeFound
	}
	return payload.toDomain(sourceURL), nil
}

// parseIngredientsResponse decodes a model response into ingredients
func parseIngredientsResponse(response string) ([]domain.Ingredient, error) {
	var payloads []ingredientPayload
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &payloads); err != nil {
		return nil, fmt.Errorf("%w: decoding ingredients response: %v", domain.ErrAIProviderFailure, err)
	}
	return ingredientsToDomain(payloads), nil
}

// cleanJSONResponse strips markdown code fences and any prose the model wraps
// around its JSON. Models regularly answer with "```json ... ```" despite
// being told not to.
func cleanJSONResponse(response string) string {
	s := strings.TrimSpace(response)

	if start := strings.IndexAny(s, "{["); start >= 0 {
		closer := byte('}')
		if s[start] == '[' {
			closer = ']'
		}
		if end := strings.LastIndexByte(s, closer); end > start {
			return s[start : end+1]
		}
	}
	return s
}

// truncateHTML limits page content to the provider's budget
func truncateHTML(content string) string {
	if len(content) <= maxHTMLBytes {
		return content
	}
	return content[:maxHTMLBytes]
}

// ingredientLinesJSON renders the raw lines as a JSON array for the prompt
func ingredientLinesJSON(lines []string) (string, error) {
	data, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encoding ingredient lines: %w", err)
	}
	return string(data), nil
}
