package catalog

// StoreConfig describes one grocery retailer the app can search
type StoreConfig struct {
	ID          string
	DisplayName string
	Region      string
	BaseURL     string
	PriceFactor float64 // 1.0 = baseline pricing
}

// DefaultStores returns the Australian retailers the demo ships with.
// Price factors reflect each chain's typical positioning: ALDI discounts,
// IGA runs dearer.
func DefaultStores() []StoreConfig {
	return []StoreConfig{
		{ID: "coles", DisplayName: "Coles", Region: "au", BaseURL: "https://www.coles.com.au", PriceFactor: 1.0},
		{ID: "woolworths", DisplayName: "Woolworths", Region: "au", BaseURL: "https://www.woolworths.com.au", PriceFactor: 1.0},
		{ID: "aldi", DisplayName: "ALDI", Region: "au", BaseURL: "https://www.aldi.com.au", PriceFactor: 0.85},
		{ID: "iga", DisplayName: "IGA", Region: "au", BaseURL: "https://www.iga.com.au", PriceFactor: 1.15},
	}
}

// DisplayNames maps store ids to their display names
func DisplayNames(stores []StoreConfig) map[string]string {
	names := make(map[string]string, len(stores))
	for _, store := range stores {
		names[store.ID] = store.DisplayName
	}
	return names
}

// StoreIDs lists the ids of the given stores, preserving order
func StoreIDs(stores []StoreConfig) []string {
	ids := make([]string, 0, len(stores))
	for _, store := range stores {
		ids = append(ids, store.ID)
	}
	return ids
}
