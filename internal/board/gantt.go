package board

import (
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// GanttRow positions one task on the chart axis. Offset and Span are in days.
type GanttRow struct {
	Task   models.Task `json:"task"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Offset int         `json:"offset"`
	Span   int         `json:"span"`
}

// GanttChart is the timeline projection. From and To include one day of padding
// around the earliest and latest task dates.
type GanttChart struct {
	From time.Time  `json:"from"`
	To   time.Time  `json:"to"`
	Days int        `json:"days"`
	Rows []GanttRow `json:"rows"`
}

// Gantt builds the timeline projection. Tasks with neither a start nor a deadline are
// left out; a task with only one of them uses it for both ends.
func Gantt(tasks []models.Task) GanttChart {
	rows := make([]GanttRow, 0, len(tasks))

	var minDate, maxDate time.Time
	for _, task := range tasks {
		start, hasStart := ParseDate(task.Start)
		end, hasEnd := ParseDate(task.Deadline)

		switch {
		case !hasStart && !hasEnd:
			continue
		case !hasStart:
			start = end
		case !hasEnd:
			end = start
		}
		if end.Before(start) {
			end = start
		}

		if minDate.IsZero() || start.Before(minDate) {
			minDate = start
		}
		if maxDate.IsZero() || end.After(maxDate) {
			maxDate = end
		}

		rows = append(rows, GanttRow{Task: task, Start: start, End: end})
	}

	if len(rows) == 0 {
		return GanttChart{Rows: rows}
	}

	chart := GanttChart{
		From: minDate.AddDate(0, 0, -1),
		To:   maxDate.AddDate(0, 0, 1),
		Rows: rows,
	}
	chart.Days = daysBetween(chart.From, chart.To) + 1

	for i := range chart.Rows {
		row := &chart.Rows[i]
		row.Offset = daysBetween(chart.From, row.Start)
		row.Span = max(1, daysBetween(row.Start, row.End)+1)
	}

	return chart
}
