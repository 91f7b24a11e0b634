package usecase

import (
	"context"

	"github.com/shoplist/backend/internal/domain"
)

// FallbackNormalizer tries a primary normalizer and falls back to a second
// one when the primary fails. The pipeline keeps working when the AI
// provider is down: rule-based parsing still yields usable ingredients.
type FallbackNormalizer struct {
	primary  domain.IngredientNormalizer
	fallback domain.IngredientNormalizer
}

// NewFallbackNormalizer chains two normalizers
func NewFallbackNormalizer(primary, fallback domain.IngredientNormalizer) *FallbackNormalizer {
	return &FallbackNormalizer{primary: primary, fallback: fallback}
}

func (n *FallbackNormalizer) NormalizeIngredients(ctx context.Context, lines []string) ([]domain.Ingredient, error) {
	ingredients, err := n.primary.NormalizeIngredients(ctx, lines)
	if err == nil && len(ingredients) > 0 {
		return ingredients, nil
	}
	if err != nil {
		logger.Warn().Err(err).Msg("primary ingredient normalization failed, falling back")
	}
	return n.fallback.NormalizeIngredients(ctx, lines)
}
