package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
)

const (
	roleAssignee     = "assignee"
	roleCollaborator = "collaborator"

	defaultChangesLimit = 50
)

// MaxChangesLimit bounds how many status changes a single history read returns.
const MaxChangesLimit = 500

// SaveTaskData mirrors one task: the task row, then its tags and its people.
func (r *Repository) SaveTaskData(ctx context.Context, task models.Task) error {
	if err := r.UpsertTask(ctx, task); err != nil {
		return fmt.Errorf("task insert/update error: %w", err)
	}

	if err := r.UpdateTaskTags(ctx, task.ID, task.Tags); err != nil {
		return fmt.Errorf("error updating tags: %w", err)
	}

	if err := r.UpdateTaskPeople(ctx, task); err != nil {
		return fmt.Errorf("error updating assignees: %w", err)
	}

	return nil
}

// UpsertTask inserts the task row or overwrites the stored copy.
func (r *Repository) UpsertTask(ctx context.Context, task models.Task) error {
	defer r.observe("upsert_task", time.Now())

	query := `
		INSERT INTO tasks (id, number, title, description, status, priority, start_on, deadline_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			start_on = EXCLUDED.start_on,
			deadline_on = EXCLUDED.deadline_on,
			synced_at = CURRENT_TIMESTAMP;`

	_, err := r.db.Exec(ctx, query, task.ID, task.Number, task.Title, task.Description,
		string(task.Status), string(task.Priority), task.Start, task.Deadline)
	if err != nil {
		return fmt.Errorf("failed to upsert task '%s': %w", task.ID, err)
	}

	return nil
}

// UpdateTaskTags replaces the tags of a task.
func (r *Repository) UpdateTaskTags(ctx context.Context, taskID string, tags []string) error {
	defer r.observe("update_task_tags", time.Now())

	if _, err := r.db.Exec(ctx, "DELETE FROM task_tags WHERE task_id = $1", taskID); err != nil {
		return fmt.Errorf("failed to delete existing tags for the task '%s': %w", taskID, err)
	}

	query := `INSERT INTO task_tags (task_id, tag) VALUES ($1, $2) ON CONFLICT DO NOTHING;`
	for _, tag := range tags {
		if _, err := r.db.Exec(ctx, query, taskID, tag); err != nil {
			return fmt.Errorf("failed to save tag '%s' of the task '%s': %w", tag, taskID, err)
		}
	}

	return nil
}

// UpdateTaskPeople replaces the assignees and collaborators of a task, keeping their order.
func (r *Repository) UpdateTaskPeople(ctx context.Context, task models.Task) error {
	defer r.observe("update_task_people", time.Now())

	if _, err := r.db.Exec(ctx, "DELETE FROM task_people WHERE task_id = $1", task.ID); err != nil {
		return fmt.Errorf("failed to delete existing people for the task '%s': %w", task.ID, err)
	}

	query := `INSERT INTO task_people (task_id, role, position, name) VALUES ($1, $2, $3, $4);`
	for idx, assignee := range task.Assignees {
		if _, err := r.db.Exec(ctx, query, task.ID, roleAssignee, idx, assignee.Name); err != nil {
			return fmt.Errorf("failed to save assignee '%s' of the task '%s': %w", assignee.Name, task.ID, err)
		}
	}
	for idx, name := range task.Collaborators {
		if _, err := r.db.Exec(ctx, query, task.ID, roleCollaborator, idx, name); err != nil {
			return fmt.Errorf("failed to save collaborator '%s' of the task '%s': %w", name, task.ID, err)
		}
	}

	return nil
}

// PruneTasks deletes mirrored tasks the backend no longer returns and reports how many went away.
func (r *Repository) PruneTasks(ctx context.Context, keep []string) (int64, error) {
	defer r.observe("prune_tasks", time.Now())

	if keep == nil {
		keep = []string{}
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM tasks WHERE NOT (id = ANY($1));", keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune tasks: %w", err)
	}

	return tag.RowsAffected(), nil
}

// SaveLabels upserts the label directory.
func (r *Repository) SaveLabels(ctx context.Context, labels []models.Label) error {
	defer r.observe("save_labels", time.Now())

	query := `
		INSERT INTO labels (id, name, color)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, color = EXCLUDED.color;`

	for _, label := range labels {
		if _, err := r.db.Exec(ctx, query, label.ID, label.Name, label.Color); err != nil {
			return fmt.Errorf("failed to save label '%s': %w", label.Name, err)
		}
	}

	return nil
}

// SaveStatusChange appends a status transition to the audit log.
func (r *Repository) SaveStatusChange(ctx context.Context, change models.StatusChange) error {
	defer r.observe("save_status_change", time.Now())

	query := `
		INSERT INTO status_changes (task_id, from_status, to_status, outcome, changed_at)
		VALUES ($1, $2, $3, $4, $5);`

	_, err := r.db.Exec(ctx, query, change.TaskID, string(change.From), string(change.To), change.Outcome, change.At)
	if err != nil {
		return fmt.Errorf("failed to save status change of the task '%s': %w", change.TaskID, err)
	}

	return nil
}

// ListStatusChanges returns the latest status changes of a task, newest first. A limit
// of zero or less selects the default, and a limit above MaxChangesLimit is clamped to it.
func (r *Repository) ListStatusChanges(ctx context.Context, taskID string, limit int) ([]models.StatusChange, error) {
	defer r.observe("list_status_changes", time.Now())

	switch {
	case limit <= 0:
		limit = defaultChangesLimit
	case limit > MaxChangesLimit:
		limit = MaxChangesLimit
	}

	query := `
		SELECT task_id, from_status, to_status, outcome, changed_at
		FROM status_changes
		WHERE task_id = $1
		ORDER BY changed_at DESC, id DESC
		LIMIT $2;`

	rows, err := r.db.Query(ctx, query, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query status changes of the task '%s': %w", taskID, err)
	}
	defer rows.Close()

	changes := []models.StatusChange{}
	for rows.Next() {
		var (
			change   models.StatusChange
			from, to string
		)
		if err = rows.Scan(&change.TaskID, &from, &to, &change.Outcome, &change.At); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		change.From, change.To = models.Status(from), models.Status(to)
		changes = append(changes, change)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status changes: %w", err)
	}

	return changes, nil
}
