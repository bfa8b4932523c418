package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/searchd/internal/domain"
)

// querier is the pgx surface the repo needs; *pgxpool.Pool satisfies it.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo reads task aggregates from the primary Postgres store. All access
// is read-only; this service never writes back to the task tables.
type Repo struct {
	db querier
}

// New creates a task source backed by a pgx pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{db: pool}
}

const taskColumns = `
	t.id, t.title, COALESCE(t.description, ''), t.priority, t.status,
	t.due_date, t.created_at, t.completed_at, t.is_deleted, t.user_id,
	p.id, p.name, p.color`

// LoadAggregate loads one task with its project and comments, regardless
// of deletion state; the caller decides what a deleted task means.
func (r *Repo) LoadAggregate(ctx context.Context, taskID int) (*domain.TaskAggregate, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+taskColumns+`
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.id = $1`, taskID)

	agg, err := scanAggregate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("load task %d: %w", taskID, err)
	}

	comments, err := r.loadComments(ctx, []int{taskID})
	if err != nil {
		return nil, err
	}
	agg.Comments = comments[taskID]
	return agg, nil
}

// LoadAllActive loads every non-deleted task with projects and comments,
// for bulk resyncs. Comments are fetched in one pass and grouped.
func (r *Repo) LoadAllActive(ctx context.Context) ([]domain.TaskAggregate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+taskColumns+`
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE NOT t.is_deleted
		ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("load active tasks: %w", err)
	}
	defer rows.Close()

	var aggs []domain.TaskAggregate
	var ids []int
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		aggs = append(aggs, *agg)
		ids = append(ids, agg.Task.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	if len(aggs) == 0 {
		return nil, nil
	}

	comments, err := r.loadComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range aggs {
		aggs[i].Comments = comments[aggs[i].Task.ID]
	}
	return aggs, nil
}

func (r *Repo) loadComments(ctx context.Context, taskIDs []int) (map[int][]domain.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT task_id, id, content, author_id, created_at
		FROM comments
		WHERE task_id = ANY($1)
		ORDER BY created_at`, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	grouped := make(map[int][]domain.Comment)
	for rows.Next() {
		var taskID int
		var c domain.Comment
		if err := rows.Scan(&taskID, &c.ID, &c.Content, &c.AuthorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		grouped[taskID] = append(grouped[taskID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return grouped, nil
}

// scanAggregate scans one joined task/project row. Project columns come
// from a LEFT JOIN and may all be NULL.
func scanAggregate(row pgx.Row) (*domain.TaskAggregate, error) {
	var (
		agg          domain.TaskAggregate
		priority     int
		status       int
		dueDate      *time.Time
		completedAt  *time.Time
		projectID    *int
		projectName  *string
		projectColor *string
	)

	err := row.Scan(
		&agg.Task.ID, &agg.Task.Title, &agg.Task.Description, &priority, &status,
		&dueDate, &agg.Task.CreatedAt, &completedAt, &agg.Task.IsDeleted, &agg.Task.UserID,
		&projectID, &projectName, &projectColor,
	)
	if err != nil {
		return nil, err
	}

	agg.Task.Priority = domain.Priority(priority)
	agg.Task.Status = domain.Status(status)
	agg.Task.DueDate = dueDate
	agg.Task.CompletedAt = completedAt
	agg.Project = buildProject(projectID, projectName, projectColor)
	return &agg, nil
}

// buildProject assembles the optional project from nullable join columns.
func buildProject(id *int, name, color *string) *domain.Project {
	if id == nil {
		return nil
	}
	p := &domain.Project{ID: *id}
	if name != nil {
		p.Name = *name
	}
	if color != nil {
		p.Color = *color
	}
	return p
}
