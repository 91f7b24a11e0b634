package usecase

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/shoplist/backend/internal/domain"
)

// Compiled once at package level
var (
	// Leading quantity: "2", "1.5", "3/4", "1 1/2"
	quantityPattern = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+/\d+|\d+\.?\d*)\s*`)

	// Parenthetical notes like "(about 200g)" or "(optional)"
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// unitAliases maps the unit spellings seen in recipe text to a canonical form
var unitAliases = map[string]string{
	"cup": "cup", "cups": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp", "tbs": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp",
	"gram": "g", "grams": "g", "g": "g",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg",
	"milliliter": "ml", "milliliters": "ml", "ml": "ml",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "l": "l",
	"ounce": "oz", "ounces": "oz", "oz": "oz",
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"pinch": "pinch", "pinches": "pinch",
	"clove": "clove", "cloves": "clove",
	"slice": "slice", "slices": "slice",
	"piece": "piece", "pieces": "piece",
	"bunch": "bunch", "bunches": "bunch",
	"can": "can", "cans": "can",
}

// preparationWords are cooking-prep descriptors that say how to treat an
// ingredient, not what to buy, so they are stripped from the shopping name
var preparationWords = map[string]bool{
	"chopped": true, "diced": true, "minced": true, "sliced": true,
	"grated": true, "shredded": true, "crushed": true, "peeled": true,
	"melted": true, "softened": true, "beaten": true, "whisked": true,
	"cooked": true, "uncooked": true, "drained": true, "rinsed": true,
	"finely": true, "roughly": true, "thinly": true, "freshly": true,
	"optional": true, "divided": true, "packed": true, "heaped": true,
}

// RuleIngredientNormalizer parses raw ingredient lines with regex rules only.
// It backs the AI normalizer as a fallback and stands alone when no AI
// provider is configured.
type RuleIngredientNormalizer struct {
	enableDebugLogging bool
}

// NewRuleIngredientNormalizer creates a rule-based ingredient normalizer
func NewRuleIngredientNormalizer(enableDebugLogging bool) *RuleIngredientNormalizer {
	return &RuleIngredientNormalizer{enableDebugLogging: enableDebugLogging}
}

// NormalizeIngredients parses each line into a structured Ingredient.
// Lines that are blank after cleanup are dropped.
func (n *RuleIngredientNormalizer) NormalizeIngredients(
	ctx context.Context,
	lines []string,
) ([]domain.Ingredient, error) {
	ingredients := make([]domain.Ingredient, 0, len(lines))

	for _, line := range lines {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ingredient := ParseIngredientLine(line)
		if ingredient.Name == "" {
			continue
		}

		if n.enableDebugLogging {
			logger.Debug().
				Str("line", line).
				Str("name", ingredient.Name).
				Float64("quantity", ingredient.Quantity).
				Str("unit", ingredient.Unit).
				Msg("normalized ingredient line")
		}

		ingredients = append(ingredients, ingredient)
	}

	return ingredients, nil
}

// ParseIngredientLine extracts quantity, unit, and a clean shopping name from
// a raw recipe line like "2 cups jasmine rice, rinsed".
func ParseIngredientLine(line string) domain.Ingredient {
	original := strings.TrimSpace(line)
	rest := strings.ToLower(original)

	// Drop parenthetical notes before any token work
	rest = parentheticalPattern.ReplaceAllString(rest, " ")
	rest = strings.TrimSpace(rest)

	var quantity float64
	if m := quantityPattern.FindString(rest); m != "" {
		quantity = parseQuantity(strings.TrimSpace(m))
		rest = strings.TrimSpace(rest[len(m):])
	}

	var unit string
	if fields := strings.Fields(rest); len(fields) > 0 {
		if canonical, ok := unitAliases[strings.Trim(fields[0], ".,")]; ok {
			unit = canonical
			rest = strings.TrimSpace(strings.Join(fields[1:], " "))
		}
	}

	// "of" after a unit ("2 cups of rice") carries no information
	rest = strings.TrimPrefix(rest, "of ")

	name := cleanIngredientName(rest)

	return domain.Ingredient{
		Name:         name,
		Quantity:     quantity,
		Unit:         unit,
		OriginalText: original,
	}
}

// parseQuantity handles plain numbers, fractions, and mixed numbers
func parseQuantity(s string) float64 {
	if strings.Contains(s, "/") {
		parts := strings.Fields(s)
		var whole float64
		frac := parts[len(parts)-1]
		if len(parts) == 2 {
			whole, _ = strconv.ParseFloat(parts[0], 64)
		}
		num := strings.SplitN(frac, "/", 2)
		numerator, err1 := strconv.ParseFloat(num[0], 64)
		denominator, err2 := strconv.ParseFloat(num[1], 64)
		if err1 != nil || err2 != nil || denominator == 0 {
			return whole
		}
		return whole + numerator/denominator
	}

	value, _ := strconv.ParseFloat(s, 64)
	return value
}

// cleanIngredientName strips preparation descriptors and trailing clauses so
// the name works as a store search term.
func cleanIngredientName(s string) string {
	// Everything after the first comma is preparation ("onion, finely diced")
	if idx := strings.Index(s, ","); idx >= 0 {
		s = s[:idx]
	}

	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		trimmed := strings.Trim(word, ".,;:")
		if trimmed == "" || preparationWords[trimmed] {
			continue
		}
		kept = append(kept, trimmed)
	}

	name := strings.Join(kept, " ")
	name = multiSpacePattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
