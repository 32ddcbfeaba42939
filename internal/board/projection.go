package board

import (
	"strconv"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// Columns is the kanban projection: every canonical status maps to the tasks grouped under it.
type Columns map[models.Status][]models.Task

// List is the identity projection of tasks that pass the filter, in fetch order.
func List(tasks []models.Task, filter models.Filter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if Match(task, filter) {
			out = append(out, task)
		}
	}
	return out
}

// Kanban groups tasks by coerced status. All five columns are present, even when empty,
// and each column keeps the source order.
func Kanban(tasks []models.Task) Columns {
	columns := make(Columns, len(models.Statuses))
	for _, status := range models.Statuses {
		columns[status] = []models.Task{}
	}

	for _, task := range tasks {
		status := Coerce(task.Status)
		columns[status] = append(columns[status], task)
	}

	return columns
}

// Match reports whether a task satisfies every criterion set on the filter.
func Match(task models.Task, filter models.Filter) bool {
	if filter.Status != "" && !Coerce(task.Status).EqualFold(filter.Status) {
		return false
	}
	if filter.Priority != "" && !strings.EqualFold(string(task.Priority), string(filter.Priority)) {
		return false
	}
	if filter.Assignee != "" && !hasPerson(task, filter.Assignee) {
		return false
	}
	if filter.Tag != "" && !containsFold(task.Tags, filter.Tag) {
		return false
	}
	if !inDeadlineRange(task, filter.DeadlineFrom, filter.DeadlineTo) {
		return false
	}
	if query := strings.TrimSpace(filter.Query); query != "" && !matchesQuery(task, query) {
		return false
	}

	return true
}

func hasPerson(task models.Task, name string) bool {
	for _, assignee := range task.Assignees {
		if strings.EqualFold(assignee.Name, name) {
			return true
		}
	}
	return containsFold(task.Collaborators, name)
}

func containsFold(values []string, needle string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}

// inDeadlineRange treats an unparsable bound as unset. Tasks without a deadline
// never match a range.
func inDeadlineRange(task models.Task, from, to string) bool {
	lower, hasLower := ParseDate(from)
	upper, hasUpper := ParseDate(to)
	if !hasLower && !hasUpper {
		return true
	}

	deadline, ok := ParseDate(task.Deadline)
	if !ok {
		return false
	}
	if hasLower && deadline.Before(lower) {
		return false
	}
	if hasUpper && deadline.After(upper) {
		return false
	}

	return true
}

func matchesQuery(task models.Task, query string) bool {
	query = strings.ToLower(query)

	fields := []string{task.Title, task.Description}
	if task.Number != 0 {
		fields = append(fields, strconv.Itoa(task.Number))
	}
	fields = append(fields, task.Tags...)
	for _, assignee := range task.Assignees {
		fields = append(fields, assignee.Name)
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
