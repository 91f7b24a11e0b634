package usecase

import (
	"sort"

	"github.com/shoplist/backend/internal/domain"
)

// Default travel penalty per additional store visited beyond the first.
// This models the inconvenience of driving to a second physical location;
// the exact value is a policy knob, not a fact about the world.
const defaultTravelCostPerStore = 5.0

// priceEpsilon guards float comparisons between summed prices
const priceEpsilon = 1e-9

// OptimizerConfig holds configuration for the shopping optimizer
type OptimizerConfig struct {
	// TravelCostPerStore is the penalty added for every distinct store
	// beyond the first in a multi-store allocation.
	TravelCostPerStore float64
	// StoreOrder fixes the iteration and tie-break order across stores.
	// When empty, stores are visited in sorted identifier order.
	StoreOrder []string
	EnableDebugLogging bool
}

// ShoppingOptimizer decides which store(s) to buy each ingredient from so the
// grand total (item cost plus travel penalty) is minimized. It is a pure
// computation over already-fetched candidates: no I/O, no retries, and absence
// of a match is represented as data, never as an error.
type ShoppingOptimizer struct {
	travelCostPerStore float64
	storeOrder         []string
	enableDebugLogging bool
}

// NewShoppingOptimizer creates an optimizer with the given configuration
func NewShoppingOptimizer(config OptimizerConfig) *ShoppingOptimizer {
	travelCost := config.TravelCostPerStore
	if travelCost <= 0 {
		travelCost = defaultTravelCostPerStore
	}

	return &ShoppingOptimizer{
		travelCostPerStore: travelCost,
		storeOrder:         config.StoreOrder,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// plan is one candidate allocation under evaluation
type plan struct {
	strategy   string
	items      []domain.IngredientMatch
	stores     []string
	subtotals  []domain.StoreSubtotal
	itemCost   float64
	travelCost float64
	matched    int
}

func (p plan) total() float64 {
	return p.itemCost + p.travelCost
}

// Optimize evaluates the single-store and multi-store strategies over the
// given ingredients and their per-store candidates, and returns the cheapest
// allocation. candidates is index-aligned with ingredients; a short or missing
// entry is treated as "no candidates anywhere" for that ingredient.
//
// Selection rule: the plan covering more ingredients wins outright; among
// plans with equal coverage the lowest grand total wins, and on an exact tie
// the strategy touching fewer stores is preferred, so single-store beats
// multi-store. Every input ingredient appears exactly once in the result.
func (o *ShoppingOptimizer) Optimize(
	ingredients []domain.Ingredient,
	candidates []domain.StoreCandidates,
) domain.OptimizationResult {
	if len(ingredients) == 0 {
		return domain.OptimizationResult{
			Strategy:  domain.StrategyNone,
			Items:     []domain.IngredientMatch{},
			Stores:    []string{},
			Subtotals: []domain.StoreSubtotal{},
		}
	}

	storeOrder := o.storeOrder
	if len(storeOrder) == 0 {
		storeOrder = storesInCandidates(candidates)
	}

	multi := o.multiStorePlan(ingredients, candidates, storeOrder)
	single, hasSingle := o.bestSingleStorePlan(ingredients, candidates, storeOrder)

	if o.enableDebugLogging {
		logger.Debug().
			Float64("multi_total", multi.total()).
			Int("multi_stores", len(multi.stores)).
			Bool("has_single", hasSingle).
			Msg("optimizer evaluated strategies")
	}

	// No store matched anything: report every ingredient unmatched.
	if multi.matched == 0 {
		multi.strategy = domain.StrategyNone
		return o.toResult(multi, multi.total(), len(ingredients))
	}

	// A plan with at least one match always has a single-store counterpart,
	// so hasSingle holds here. Coverage outranks price: leaving an available
	// ingredient unbought never wins on a cheaper basket. The multi-store plan
	// always reaches maximum coverage, so it takes over whenever it covers
	// more than the best single store; at equal coverage it only wins a strict
	// price comparison, since on a tie fewer stores means less unmodeled
	// travel risk.
	chosen := single
	if hasSingle && (multi.matched > single.matched ||
		(multi.matched == single.matched && multi.total() < single.total()-priceEpsilon)) {
		chosen = multi
	}

	baseline := single.total()
	return o.toResult(chosen, baseline, len(ingredients))
}

// toResult freezes a plan into an immutable OptimizationResult
func (o *ShoppingOptimizer) toResult(p plan, baseline float64, total int) domain.OptimizationResult {
	savings := baseline - p.total()
	if savings < 0 {
		savings = 0
	}

	return domain.OptimizationResult{
		Strategy:   p.strategy,
		Items:      p.items,
		Stores:     p.stores,
		Subtotals:  p.subtotals,
		ItemCost:   p.itemCost,
		TravelCost: p.travelCost,
		TotalCost:  p.itemCost + p.travelCost,
		Savings:    savings,
		ItemsFound: p.matched,
		ItemsTotal: total,
	}
}

// multiStorePlan allocates every ingredient to its globally cheapest product
// across all stores and charges travel for each distinct store beyond the first.
func (o *ShoppingOptimizer) multiStorePlan(
	ingredients []domain.Ingredient,
	candidates []domain.StoreCandidates,
	storeOrder []string,
) plan {
	items := make([]domain.IngredientMatch, 0, len(ingredients))
	for i, ing := range ingredients {
		items = append(items, selectCheapest(ing, candidateSetAt(candidates, i), storeOrder))
	}

	subtotals, itemCost, matched := aggregateByStore(items, storeOrder)
	stores := storesOf(subtotals)

	return plan{
		strategy:   domain.StrategyMultiStore,
		items:      items,
		stores:     stores,
		subtotals:  subtotals,
		itemCost:   itemCost,
		travelCost: o.travelCost(len(stores)),
		matched:    matched,
	}
}

// bestSingleStorePlan evaluates every store that matches at least one
// ingredient as a one-stop shop and returns the best. Ingredients the store
// does not carry stay unmatched. Stores covering more ingredients outrank
// cheaper but less complete ones; among equal coverage the cheaper store
// wins, then the earlier store in the configured order.
func (o *ShoppingOptimizer) bestSingleStorePlan(
	ingredients []domain.Ingredient,
	candidates []domain.StoreCandidates,
	storeOrder []string,
) (plan, bool) {
	var best plan
	found := false

	for _, store := range storeOrder {
		items := make([]domain.IngredientMatch, 0, len(ingredients))
		for i, ing := range ingredients {
			items = append(items, selectCheapest(ing, onlyStore(candidateSetAt(candidates, i), store), storeOrder))
		}

		subtotals, itemCost, matched := aggregateByStore(items, storeOrder)
		if matched == 0 {
			continue
		}

		p := plan{
			strategy:  domain.StrategySingleStore,
			items:     items,
			stores:    storesOf(subtotals),
			subtotals: subtotals,
			itemCost:  itemCost,
			matched:   matched,
		}

		if !found || betterSingle(p, best) {
			best = p
			found = true
		}

		if o.enableDebugLogging {
			logger.Debug().
				Str("store", store).
				Float64("total", p.total()).
				Int("matched", matched).
				Msg("optimizer evaluated single-store plan")
		}
	}

	return best, found
}

// betterSingle reports whether candidate beats incumbent among single-store
// plans: higher coverage first, then strictly cheaper. A tie on both keeps
// the incumbent, which is the earlier store in the configured order.
func betterSingle(candidate, incumbent plan) bool {
	if candidate.matched != incumbent.matched {
		return candidate.matched > incumbent.matched
	}
	return candidate.total() < incumbent.total()-priceEpsilon
}

// selectCheapest picks the globally cheapest candidate product for one
// ingredient across the given stores. Stores are visited in storeOrder and
// candidates in their listed order, so on a price tie the first-seen product
// wins. An ingredient with no candidates anywhere yields an unmatched entry
// with cost 0.
func selectCheapest(
	ingredient domain.Ingredient,
	perStore domain.StoreCandidates,
	storeOrder []string,
) domain.IngredientMatch {
	var selected *domain.Product

	for _, store := range storeOrder {
		for _, product := range perStore[store] {
			if selected == nil || product.Price < selected.Price {
				p := product
				selected = &p
			}
		}
	}

	match := domain.IngredientMatch{Ingredient: ingredient}
	if selected != nil {
		match.SelectedProduct = selected
		match.EstimatedCost = selected.Price
	}
	return match
}

// aggregateByStore groups matched items per store and sums their cost.
// Unmatched ingredients contribute nothing to any subtotal but are still
// present in the item list handed back to callers.
func aggregateByStore(
	items []domain.IngredientMatch,
	storeOrder []string,
) (subtotals []domain.StoreSubtotal, itemCost float64, matched int) {
	perStore := make(map[string]*domain.StoreSubtotal)
	for _, item := range items {
		if !item.Matched() {
			continue
		}
		matched++
		itemCost += item.EstimatedCost

		store := item.SelectedProduct.Store
		sub, ok := perStore[store]
		if !ok {
			sub = &domain.StoreSubtotal{Store: store}
			perStore[store] = sub
		}
		sub.Subtotal += item.EstimatedCost
		sub.ItemCount++
	}

	subtotals = make([]domain.StoreSubtotal, 0, len(perStore))
	for _, store := range storeOrder {
		if sub, ok := perStore[store]; ok {
			subtotals = append(subtotals, *sub)
		}
	}
	return subtotals, itemCost, matched
}

// travelCost returns the penalty for visiting the given number of stores:
// zero for at most one store, a flat per-store amount for each one after that.
func (o *ShoppingOptimizer) travelCost(storeCount int) float64 {
	if storeCount <= 1 {
		return 0
	}
	return o.travelCostPerStore * float64(storeCount-1)
}

// candidateSetAt returns the candidates for ingredient index i, tolerating a
// short slice from the caller.
func candidateSetAt(candidates []domain.StoreCandidates, i int) domain.StoreCandidates {
	if i >= len(candidates) || candidates[i] == nil {
		return domain.StoreCandidates{}
	}
	return candidates[i]
}

// onlyStore filters a candidate set down to a single store
func onlyStore(perStore domain.StoreCandidates, store string) domain.StoreCandidates {
	products, ok := perStore[store]
	if !ok || len(products) == 0 {
		return domain.StoreCandidates{}
	}
	return domain.StoreCandidates{store: products}
}

// storesInCandidates collects the distinct stores seen across all candidate
// sets, sorted so runs are deterministic when no order is configured.
func storesInCandidates(candidates []domain.StoreCandidates) []string {
	seen := make(map[string]bool)
	for _, perStore := range candidates {
		for store := range perStore {
			seen[store] = true
		}
	}

	stores := make([]string, 0, len(seen))
	for store := range seen {
		stores = append(stores, store)
	}
	sort.Strings(stores)
	return stores
}

// storesOf lists the stores present in a set of subtotals, preserving order
func storesOf(subtotals []domain.StoreSubtotal) []string {
	stores := make([]string, 0, len(subtotals))
	for _, sub := range subtotals {
		stores = append(stores, sub.Store)
	}
	return stores
}
