package db

// SearchQuery is the input for an FT.SEARCH call.
type SearchQuery struct {
	IndexName string
	Query     string
	Offset    int
	Limit     int

	// SortBy names a sortable field alias; empty means relevance order.
	SortBy  string
	SortAsc bool

	// WithScores requests per-hit relevance scores (only meaningful when
	// SortBy is empty).
	WithScores bool

	// ReturnFields are raw RETURN arguments (paths, AS, aliases). Empty
	// returns the whole document.
	ReturnFields []string
}

// AggregateQuery is the input for a grouped-count FT.AGGREGATE call.
type AggregateQuery struct {
	IndexName string
	Query     string
	GroupBy   string // field alias, without the leading '@'
}

// AggregateRow is one group bucket of an aggregation.
type AggregateRow struct {
	Key   string
	Count int64
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int64
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
