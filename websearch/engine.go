package websearch

import "context"

// Result holds a single raw search result before it becomes a Passage.
type Result struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Engine defines the interface for web search backends.
// Implementations wrap a concrete external service (DuckDuckGo, Wikipedia, ...).
type Engine interface {
	// Search performs a web search and returns up to maxResults results.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	// Name returns the engine name used in passage metadata and logs.
	Name() string
}
