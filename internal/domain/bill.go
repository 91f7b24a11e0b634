package domain

import "time"

// Bill is a formatted shopping receipt produced from an OptimizationResult.
// Travel cost appears as its own line in the breakdown, next to the per-store
// subtotals.
type Bill struct {
	ID          string            `json:"billId"`
	RecipeTitle string            `json:"recipeTitle"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Items       []IngredientMatch `json:"items"`
	Subtotal    float64           `json:"subtotal"`
	TaxRate     float64           `json:"taxRate"`
	TaxAmount   float64           `json:"taxAmount"`
	Total       float64           `json:"total"`
	Stores      []string          `json:"stores"`
	Breakdown   []BreakdownLine   `json:"breakdown"`
	Currency    string            `json:"currency"`
	Strategy    string            `json:"strategy"`
	Savings     float64           `json:"savings"`
}

// BreakdownLine is one line of the per-store cost breakdown on a bill
type BreakdownLine struct {
	Label  string  `json:"label"` // store display name, or "Travel"
	Amount float64 `json:"amount"`
}
