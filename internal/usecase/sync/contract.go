package sync

import (
	"context"

	"github.com/taskdeck/searchd/internal/domain"
	domdoc "github.com/taskdeck/searchd/internal/domain/document"
)

// TaskSource loads task aggregates from the primary store.
type TaskSource interface {
	LoadAggregate(ctx context.Context, taskID int) (*domain.TaskAggregate, error)
	LoadAllActive(ctx context.Context) ([]domain.TaskAggregate, error)
}

// DocumentWriter writes index documents.
type DocumentWriter interface {
	Upsert(ctx context.Context, doc *domdoc.TaskDocument) error
	BulkUpsert(ctx context.Context, docs []domdoc.TaskDocument) []error
	Delete(ctx context.Context, taskID int) (bool, error)
}

// IndexEnsurer creates the current index when absent.
type IndexEnsurer interface {
	Ensure(ctx context.Context) (bool, error)
}
