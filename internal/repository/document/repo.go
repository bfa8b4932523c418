package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/taskdeck/searchd/internal/db"
	"github.com/taskdeck/searchd/internal/domain"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
	"github.com/taskdeck/searchd/internal/repository/index"
)

// store is the consumer interface for document writes (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) []error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) (bool, error)
}

// Repo writes task documents under the current period's key prefix so the
// matching FT index picks them up.
type Repo struct {
	store store
	namer *index.Namer
	now   func() time.Time
}

// New creates a document repository.
func New(s store, namer *index.Namer) *Repo {
	return &Repo{store: s, namer: namer, now: time.Now}
}

// Upsert writes the full document, replacing any previous version.
func (r *Repo) Upsert(ctx context.Context, doc *domdoc.TaskDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %d: %w", doc.ID, err)
	}

	key := r.namer.Key(r.now(), strconv.Itoa(doc.ID))
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// BulkUpsert writes all documents in one pipeline. The returned slice is
// parallel to docs; nil entries mean success.
func (r *Repo) BulkUpsert(ctx context.Context, docs []domdoc.TaskDocument) []error {
	if len(docs) == 0 {
		return nil
	}

	now := r.now()
	items := make([]db.JSONSetItem, 0, len(docs))
	errs := make([]error, len(docs))
	mapped := make([]int, 0, len(docs)) // items index -> docs index

	for i := range docs {
		data, err := json.Marshal(&docs[i])
		if err != nil {
			errs[i] = fmt.Errorf("marshal document %d: %w", docs[i].ID, err)
			continue
		}
		items = append(items, db.JSONSetItem{
			Key:  r.namer.Key(now, strconv.Itoa(docs[i].ID)),
			Path: "$",
			Data: data,
		})
		mapped = append(mapped, i)
	}

	for j, err := range r.store.JSONSetMulti(ctx, items) {
		if err != nil {
			errs[mapped[j]] = err
		}
	}
	return errs
}

// Get returns a stored document by task ID.
func (r *Repo) Get(ctx context.Context, taskID int) (*domdoc.TaskDocument, error) {
	key := r.namer.Key(r.now(), strconv.Itoa(taskID))
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}

	// JSON.GET with a "$" path wraps the value in a one-element array.
	var docs []domdoc.TaskDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		var doc domdoc.TaskDocument
		if err2 := json.Unmarshal(raw, &doc); err2 != nil {
			return nil, fmt.Errorf("unmarshal document %d: %w", taskID, err)
		}
		return &doc, nil
	}
	if len(docs) == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return &docs[0], nil
}

// Delete removes a document. Deleting an absent document succeeds; the
// return value reports whether anything was actually removed.
func (r *Repo) Delete(ctx context.Context, taskID int) (bool, error) {
	key := r.namer.Key(r.now(), strconv.Itoa(taskID))
	existed, err := r.store.Del(ctx, key)
	if err != nil {
		return false, fmt.Errorf("del %s: %w", key, err)
	}
	return existed, nil
}
