package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrFetchFailed is returned when the recipe page cannot be fetched
	ErrFetchFailed = errors.New("failed to fetch recipe page")

	// ErrAIProviderFailure is returned when the AI provider request fails
	ErrAIProviderFailure = errors.New("AI provider request failed")

	// ErrNoRecipeFound is returned when the AI could not extract a recipe from the page
	ErrNoRecipeFound = errors.New("no recipe found on page")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrBillNotFound is returned when a generated bill cannot be located
	ErrBillNotFound = errors.New("bill not found")

	// ErrUnsupportedFormat is returned for an unknown bill output format
	ErrUnsupportedFormat = errors.New("unsupported bill format")

	// ErrUnknownStore is returned when a requested store is not configured
	ErrUnknownStore = errors.New("unknown store")
)
