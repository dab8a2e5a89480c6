package websearch

import (
	"context"
	"errors"
)

// ErrMissingAPIKey the provider needs an api key which was not configured
var ErrMissingAPIKey = errors.New("missing search api key")

// Result represents a single search result item
type Result struct {
	// URL The URL of the search result
	URL string `json:"url"`
	// Title The title of the search result
	Title string `json:"title"`
	// Content The content snippet of the search result
	Content string `json:"content,omitempty"`
}

// Searcher is a web search backend
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
