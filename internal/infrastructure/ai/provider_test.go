package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplist/backend/internal/domain"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "plain object passes through",
			response: `{"title":"Stir Fry"}`,
			want:     `{"title":"Stir Fry"}`,
		},
		{
			name:     "strips markdown fences",
			response: "```json\n{\"title\":\"Stir Fry\"}\n```",
			want:     `{"title":"Stir Fry"}`,
		},
		{
			name:     "strips surrounding prose",
			response: "Here is the JSON you asked for:\n[{\"name\":\"rice\"}]\nHope that helps!",
			want:     `[{"name":"rice"}]`,
		},
		{
			name:     "no json at all is left alone",
			response: "sorry, I cannot do that",
			want:     "sorry, I cannot do that",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONResponse(tt.response))
		})
	}
}

func TestParseRecipeResponse(t *testing.T) {
	t.Run("decodes a full recipe", func(t *testing.T) {
		response := `{
			"title": "Chicken Stir Fry",
			"description": "Quick dinner",
			"servings": 4,
			"ingredients": ["500 g chicken breast", "2 cups rice"],
			"instructions": ["Cook", "Serve"],
			"image_url": "https://example.com/stir-fry.jpg"
		}`

		recipe, err := parseRecipeResponse(response, "https://example.com/recipe")
		require.NoError(t, err)
		assert.Equal(t, "Chicken Stir Fry", recipe.Title)
		assert.Equal(t, 4, recipe.Servings)
		assert.Len(t, recipe.Ingredients, 2)
		assert.Equal(t, "https://example.com/recipe", recipe.SourceURL)
	})

	t.Run("empty extraction means no recipe", func(t *testing.T) {
		_, err := parseRecipeResponse(`{"title":"","ingredients":[]}`, "https://example.com")
		assert.ErrorIs(t, err, domain.ErrNoRecipeFound)
	})

	t.Run("garbage is a provider failure", func(t *testing.T) {
		_, err := parseRecipeResponse("not json at all", "https://example.com")
		assert.ErrorIs(t, err, domain.ErrAIProviderFailure)
	})
}

func TestParseIngredientsResponse(t *testing.T) {
	response := `[
		{"name": "Chicken Breast", "quantity": 500, "unit": "g", "original_text": "500g chicken breast"},
		{"name": "", "quantity": 1, "unit": "", "original_text": "mystery"},
		{"name": "rice", "quantity": 2, "unit": "cup", "original_text": "2 cups rice"}
	]`

	ingredients, err := parseIngredientsResponse(response)
	require.NoError(t, err)
	require.Len(t, ingredients, 2, "nameless entries are dropped")
	assert.Equal(t, "chicken breast", ingredients[0].Name)
	assert.Equal(t, 500.0, ingredients[0].Quantity)
	assert.Equal(t, "cup", ingredients[1].Unit)
}

func TestNewProvider(t *testing.T) {
	t.Run("rejects unknown provider", func(t *testing.T) {
		_, err := NewProvider(Config{Provider: "bard"})
		assert.Error(t, err)
	})

	t.Run("openai requires an api key", func(t *testing.T) {
		_, err := NewProvider(Config{Provider: ProviderOpenAI})
		assert.Error(t, err)
	})

	t.Run("ollama requires a base url", func(t *testing.T) {
		_, err := NewProvider(Config{Provider: ProviderOllama})
		assert.Error(t, err)
	})
}

func TestOllamaProvider_ExtractRecipe(t *testing.T) {
	payload := map[string]any{
		"title":       "Fried Rice",
		"ingredients": []string{"2 cups rice", "2 eggs"},
	}
	inner, err := json.Marshal(payload)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.NotEmpty(t, req.Prompt)

		json.NewEncoder(w).Encode(ollamaResponse{
			Model:    req.Model,
			Response: string(inner),
			Done:     true,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{Provider: ProviderOllama, BaseURL: server.URL})
	require.NoError(t, err)

	recipe, err := provider.ExtractRecipe(context.Background(), "<html>fried rice</html>", "https://example.com/fried-rice")
	require.NoError(t, err)
	assert.Equal(t, "Fried Rice", recipe.Title)
	assert.Len(t, recipe.Ingredients, 2)
}

func TestOllamaProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{Provider: ProviderOllama, BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.ExtractRecipe(context.Background(), "<html></html>", "https://example.com")
	assert.ErrorIs(t, err, domain.ErrAIProviderFailure)
}

var (
	_ Provider = (*OpenAIProvider)(nil)
	_ Provider = (*OllamaProvider)(nil)
)
