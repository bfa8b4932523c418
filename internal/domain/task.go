package domain

import (
	"fmt"
	"time"
)

// Priority is the closed set of task priorities. Codes match the primary store.
type Priority int

const (
	// PriorityLow is the lowest priority.
	PriorityLow Priority = 1
	// PriorityMedium is the default priority.
	PriorityMedium Priority = 2
	// PriorityHigh marks urgent work.
	PriorityHigh Priority = 3
	// PriorityCritical marks blocking work.
	PriorityCritical Priority = 4
)

var priorityNames = map[Priority]string{
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

// String returns the canonical lowercase label used in index documents.
func (p Priority) String() string {
	if n, ok := priorityNames[p]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether p is a member of the closed enum.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// ParsePriority converts a label back into a Priority.
func ParsePriority(s string) (Priority, error) {
	for p, n := range priorityNames {
		if n == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// Status is the closed set of task states. Codes match the primary store.
type Status int

const (
	// StatusTodo is the initial state.
	StatusTodo Status = 1
	// StatusInProgress marks started work.
	StatusInProgress Status = 2
	// StatusReview marks work awaiting review.
	StatusReview Status = 3
	// StatusDone marks completed work.
	StatusDone Status = 4
	// StatusCancelled marks abandoned work.
	StatusCancelled Status = 5
)

var statusNames = map[Status]string{
	StatusTodo:       "todo",
	StatusInProgress: "inprogress",
	StatusReview:     "review",
	StatusDone:       "done",
	StatusCancelled:  "cancelled",
}

// String returns the canonical lowercase label used in index documents.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether s is a member of the closed enum.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus converts a label back into a Status.
func ParseStatus(s string) (Status, error) {
	for st, n := range statusNames {
		if n == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Project is the embedded project summary of a task.
type Project struct {
	ID    int
	Name  string
	Color string
}

// Comment is a single comment on a task.
type Comment struct {
	ID        int
	Content   string
	AuthorID  string
	CreatedAt time.Time
}

// TaskItem holds the task fields relevant to the search index.
type TaskItem struct {
	ID          int
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
	IsDeleted   bool
	UserID      string
}

// IsOverdue reports whether the task is past due and not done, relative to now.
func (t *TaskItem) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}

// TaskAggregate is a task together with its project and comments, as loaded
// from the primary store. Project may be nil; Comments may be empty.
type TaskAggregate struct {
	Task     TaskItem
	Project  *Project
	Comments []Comment
}
