package domain

// Recipe represents a recipe extracted from a web page
type Recipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Servings     int      `json:"servings,omitempty"`
	PrepTime     string   `json:"prepTime,omitempty"`
	CookTime     string   `json:"cookTime,omitempty"`
	Ingredients  []string `json:"ingredients"` // raw ingredient lines as written in the recipe
	Instructions []string `json:"instructions,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	SourceURL    string   `json:"sourceUrl"`
}

// ShoplistRequest is the API request to build a shopping list from a recipe URL
type ShoplistRequest struct {
	RecipeURL string   `json:"recipeUrl" binding:"required,url"`
	Stores    []string `json:"stores,omitempty"` // subset of configured stores; empty means all
	Format    string   `json:"format,omitempty"` // bill format: "json" (default) or "html"
}

// OptimizeRequest is the API request to run the optimizer directly over
// already-fetched candidates, without the recipe/AI pipeline.
type OptimizeRequest struct {
	Ingredients []Ingredient      `json:"ingredients" binding:"required"`
	Candidates  []StoreCandidates `json:"candidates" binding:"required"`
}
