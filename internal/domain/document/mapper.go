package document

import (
	"strings"
	"time"

	"github.com/taskdeck/searchd/internal/domain"
)

// FromAggregate projects a task aggregate into its index document. Pure: no
// I/O, deterministic given the aggregate and now. All derived fields
// (searchContent, tags, isOverdue) are recomputed from scratch.
func FromAggregate(agg *domain.TaskAggregate, now time.Time) TaskDocument {
	task := agg.Task

	doc := TaskDocument{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority.String(),
		Status:      task.Status.String(),
		CreatedAt:   task.CreatedAt.UnixMilli(),
		UserID:      task.UserID,
		Comments:    make([]CommentDocument, 0, len(agg.Comments)),
		IsOverdue:   task.IsOverdue(now),
		IsDeleted:   task.IsDeleted,
	}

	if task.DueDate != nil {
		doc.DueDate = task.DueDate.UnixMilli()
	}
	if task.CompletedAt != nil {
		doc.CompletedAt = task.CompletedAt.UnixMilli()
	}

	if agg.Project != nil {
		doc.Project = ProjectDocument{
			ID:    agg.Project.ID,
			Name:  agg.Project.Name,
			Color: agg.Project.Color,
		}
	}

	for _, c := range agg.Comments {
		doc.Comments = append(doc.Comments, CommentDocument{
			ID:        c.ID,
			Content:   c.Content,
			AuthorID:  c.AuthorID,
			CreatedAt: c.CreatedAt.UnixMilli(),
		})
	}

	doc.Tags = deriveTags(agg)
	doc.SearchContent = buildSearchContent(agg)

	return doc
}

// deriveTags builds the tag set: priority, status, project name, plus any
// #word tokens found in title and description ('#' stripped, lowercased).
func deriveTags(agg *domain.TaskAggregate) []string {
	task := agg.Task
	tags := []string{
		"priority:" + task.Priority.String(),
		"status:" + task.Status.String(),
	}

	if agg.Project != nil && agg.Project.Name != "" {
		tags = append(tags, "project:"+strings.ToLower(agg.Project.Name))
	}

	for _, word := range strings.Fields(task.Title + " " + task.Description) {
		if len(word) > 1 && strings.HasPrefix(word, "#") {
			tags = append(tags, strings.ToLower(strings.TrimLeft(word, "#")))
		}
	}

	return tags
}

// buildSearchContent joins title, description, project name and comment
// bodies for cross-field matching. Empty parts are skipped.
func buildSearchContent(agg *domain.TaskAggregate) string {
	parts := make([]string, 0, 3+len(agg.Comments))

	if agg.Task.Title != "" {
		parts = append(parts, agg.Task.Title)
	}
	if agg.Task.Description != "" {
		parts = append(parts, agg.Task.Description)
	}
	if agg.Project != nil && agg.Project.Name != "" {
		parts = append(parts, agg.Project.Name)
	}
	for _, c := range agg.Comments {
		if c.Content != "" {
			parts = append(parts, c.Content)
		}
	}

	return strings.Join(parts, " ")
}
