// Package board holds the in-memory task board: its list, kanban and gantt
// projections, the kanban drag/drop state machine and the optimistic status
// update protocol reconciled against the CRM backend.
package board

import (
	"strings"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
)

const dateLayout = "2006-01-02"

// Coerce maps a task status onto its kanban column. Anything that is not one of the
// canonical statuses is grouped under todo. The task itself is never rewritten.
func Coerce(status models.Status) models.Status {
	if status.IsKnown() {
		return status
	}
	return models.StatusTodo
}

// ParseDate accepts an ISO-8601 date or a full RFC 3339 timestamp and returns the
// UTC midnight of that day.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, false
		}
	}

	return truncateDay(parsed), true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
