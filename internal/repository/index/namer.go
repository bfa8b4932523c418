package index

import "time"

// Namer derives time-partitioned index names. With a non-empty layout the
// index rolls over per period (layout "2006-01" gives "tasks-2026-08");
// an empty layout pins everything to a single index named by the prefix.
type Namer struct {
	prefix string
	layout string
}

// NewNamer creates a Namer. prefix must be a valid index identifier.
func NewNamer(prefix, layout string) *Namer {
	return &Namer{prefix: prefix, layout: layout}
}

// Name returns the index name for the period containing t.
func (n *Namer) Name(t time.Time) string {
	if n.layout == "" {
		return n.prefix
	}
	return n.prefix + "-" + t.UTC().Format(n.layout)
}

// KeyPrefix returns the document key prefix bound to the index for t.
// Documents written under this prefix are picked up by that index.
func (n *Namer) KeyPrefix(t time.Time) string {
	return n.Name(t) + ":"
}

// Key returns the full document key for a task ID in the period of t.
func (n *Namer) Key(t time.Time, taskID string) string {
	return n.KeyPrefix(t) + taskID
}
