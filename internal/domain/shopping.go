package domain

// Ingredient represents a single recipe component after normalization.
// Quantity and Unit are optional; an ingredient is identified by its name.
type Ingredient struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity,omitempty"`
	Unit         string  `json:"unit,omitempty"` // e.g. "cup", "tbsp", "g"
	OriginalText string  `json:"originalText,omitempty"`
}

// Product is a concrete purchasable item offered by a store
type Product struct {
	Store    string  `json:"store"` // store identifier, e.g. "aldi"
	Title    string  `json:"title"`
	Brand    string  `json:"brand,omitempty"`
	Size     string  `json:"size,omitempty"`
	Price    float64 `json:"price"`
	URL      string  `json:"url,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// StoreCandidates maps a store identifier to the candidate products found
// for one ingredient at that store. Stores with no results are simply absent.
type StoreCandidates map[string][]Product

// IngredientMatch pairs an ingredient with the product selected for it.
// SelectedProduct is nil when no store had a candidate; that is a normal
// outcome, not an error, and EstimatedCost is 0 in that case.
type IngredientMatch struct {
	Ingredient      Ingredient `json:"ingredient"`
	SelectedProduct *Product   `json:"selectedProduct,omitempty"`
	EstimatedCost   float64    `json:"estimatedCost"`
}

// Matched reports whether a product was selected for this ingredient
func (m IngredientMatch) Matched() bool {
	return m.SelectedProduct != nil
}

// StoreSubtotal is the summed cost of the items allocated to one store
type StoreSubtotal struct {
	Store     string  `json:"store"`
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"itemCount"`
}

// Allocation strategies reported in an OptimizationResult
const (
	StrategySingleStore = "single_store"
	StrategyMultiStore  = "multi_store"
	StrategyNone        = "none" // no store had any match
)

// OptimizationResult is the chosen allocation of ingredients to stores.
// Every input ingredient appears exactly once in Items, matched or not.
// TotalCost = ItemCost + TravelCost, and TravelCost is 0 whenever at most
// one distinct store is used.
type OptimizationResult struct {
	Strategy    string            `json:"strategy"`
	Items       []IngredientMatch `json:"items"`
	Stores      []string          `json:"stores"` // distinct stores used, in configured order
	Subtotals   []StoreSubtotal   `json:"subtotals"`
	ItemCost    float64           `json:"itemCost"`
	TravelCost  float64           `json:"travelCost"`
	TotalCost   float64           `json:"totalCost"`
	Savings     float64           `json:"savings"` // vs the best naive single-store baseline
	ItemsFound  int               `json:"itemsFound"`
	ItemsTotal  int               `json:"itemsTotal"`
}
