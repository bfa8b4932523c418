package db

import (
	"context"
	"time"
)

// Store is the search backend facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, not on Store itself.
type Store interface {
	Prober
	JSONStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Prober checks backend connectivity at decreasing protocol levels. Ping
// exercises the full client protocol; DialCheck only verifies the transport
// endpoint accepts TCP connections.
type Prober interface {
	Ping(ctx context.Context) error
	DialCheck(ctx context.Context) error
}

// JSONSetItem holds a single key+path+data triple for pipelined JSON.SET.
type JSONSetItem struct {
	Key  string
	Path string
	Data []byte
}

// JSONStore provides JSON document operations.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	// JSONSetMulti writes all items in one pipelined round trip. The returned
	// slice is parallel to items; a nil entry means that item succeeded.
	JSONSetMulti(ctx context.Context, items []JSONSetItem) []error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	// Del removes a key and reports whether it existed.
	Del(ctx context.Context, key string) (bool, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides query and aggregation operations over FT indexes.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
	Aggregate(ctx context.Context, q *AggregateQuery) ([]AggregateRow, error)
}
