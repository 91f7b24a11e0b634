package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/shoplist/backend/internal/domain"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantQty  float64
		wantUnit string
	}{
		{
			name:     "quantity unit and name",
			line:     "2 cups jasmine rice",
			wantName: "jasmine rice",
			wantQty:  2,
			wantUnit: "cup",
		},
		{
			name:     "fraction quantity",
			line:     "1/2 tsp salt",
			wantName: "salt",
			wantQty:  0.5,
			wantUnit: "tsp",
		},
		{
			name:     "mixed number quantity",
			line:     "1 1/2 cups flour",
			wantName: "flour",
			wantQty:  1.5,
			wantUnit: "cup",
		},
		{
			name:     "decimal quantity with metric unit",
			line:     "500 g chicken breast",
			wantName: "chicken breast",
			wantQty:  500,
			wantUnit: "g",
		},
		{
			name:     "strips preparation after comma",
			line:     "1 onion, finely diced",
			wantName: "onion",
			wantQty:  1,
			wantUnit: "",
		},
		{
			name:     "strips parenthetical note",
			line:     "2 tbsp soy sauce (low sodium)",
			wantName: "soy sauce",
			wantQty:  2,
			wantUnit: "tbsp",
		},
		{
			name:     "strips of after unit",
			line:     "3 cloves of garlic",
			wantName: "garlic",
			wantQty:  3,
			wantUnit: "clove",
		},
		{
			name:     "no quantity at all",
			line:     "salt and pepper to taste",
			wantName: "salt and pepper to taste",
			wantQty:  0,
			wantUnit: "",
		},
		{
			name:     "strips preparation descriptors inline",
			line:     "2 cups shredded mozzarella",
			wantName: "mozzarella",
			wantQty:  2,
			wantUnit: "cup",
		},
		{
			name:     "unit aliases normalize",
			line:     "4 tablespoons butter",
			wantName: "butter",
			wantQty:  4,
			wantUnit: "tbsp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIngredientLine(tt.line)
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if math.Abs(got.Quantity-tt.wantQty) > 1e-9 {
				t.Errorf("Quantity = %v, want %v", got.Quantity, tt.wantQty)
			}
			if got.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.wantUnit)
			}
			if got.OriginalText != tt.line {
				t.Errorf("OriginalText = %q, want %q", got.OriginalText, tt.line)
			}
		})
	}
}

func TestRuleIngredientNormalizer(t *testing.T) {
	normalizer := NewRuleIngredientNormalizer(false)
	ctx := context.Background()

	t.Run("drops empty lines", func(t *testing.T) {
		lines := []string{"2 cups rice", "   ", "1/2 tsp salt"}
		got, err := normalizer.NormalizeIngredients(ctx, lines)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d ingredients, want 2", len(got))
		}
	})

	t.Run("preserves input order", func(t *testing.T) {
		lines := []string{"chicken", "vegetables", "soy sauce", "rice"}
		got, err := normalizer.NormalizeIngredients(ctx, lines)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"chicken", "vegetables", "soy sauce", "rice"}
		for i, ing := range got {
			if ing.Name != want[i] {
				t.Errorf("ingredient[%d] = %q, want %q", i, ing.Name, want[i])
			}
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := normalizer.NormalizeIngredients(ctx, []string{"rice"})
		if err == nil {
			t.Error("expected context error")
		}
	})
}

var _ domain.IngredientNormalizer = (*RuleIngredientNormalizer)(nil)
