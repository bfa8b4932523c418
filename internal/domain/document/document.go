package document

// TaskDocument is the denormalized index projection of a task. It is stored
// as a JSON value in the search backend; field names here define the paths
// the index schema maps. Timestamps are unix milliseconds, 0 meaning unset.
type TaskDocument struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	DueDate     int64  `json:"dueDate,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	CompletedAt int64  `json:"completedAt,omitempty"`
	UserID      string `json:"userId"`

	Project  ProjectDocument   `json:"project"`
	Comments []CommentDocument `json:"comments"`

	// SearchContent concatenates title, description, project name and all
	// comment bodies. It is derived on every write, never mutated directly.
	SearchContent string   `json:"searchContent"`
	Tags          []string `json:"tags"`
	IsOverdue     bool     `json:"isOverdue"`
	IsDeleted     bool     `json:"isDeleted"`
}

// ProjectDocument is the embedded project summary. A task without a project
// carries the zero value so the document shape stays stable.
type ProjectDocument struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CommentDocument is an embedded comment summary.
type CommentDocument struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	AuthorID  string `json:"authorId"`
	CreatedAt int64  `json:"createdAt"`
}
