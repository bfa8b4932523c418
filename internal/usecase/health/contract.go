package health

import "context"

// IndexChecker probes the search backend and the task index.
type IndexChecker interface {
	TestConnection(ctx context.Context) bool
	Exists(ctx context.Context) (bool, error)
}

// DBPinger pings the primary task store.
type DBPinger interface {
	Ping(ctx context.Context) error
}
