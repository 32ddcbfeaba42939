package models

import (
	"strings"
	"time"
)

// Status is the workflow state of a task. Only the five canonical values are
// rendered as kanban columns.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses lists the canonical statuses in board order.
var Statuses = []Status{StatusBacklog, StatusTodo, StatusInProgress, StatusReview, StatusDone}

// IsKnown reports whether s is one of the canonical statuses.
func (s Status) IsKnown() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Normalize trims s and lowers its case, so "Done " and "done" name the same status.
func (s Status) Normalize() Status {
	return Status(strings.ToLower(strings.TrimSpace(string(s))))
}

// EqualFold compares two statuses ignoring case.
func (s Status) EqualFold(other Status) bool {
	return strings.EqualFold(string(s), string(other))
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Assignee is a person the task is assigned to. Only the first assignee of a
// task is treated as its primary assignee.
type Assignee struct {
	Name string `json:"name" validate:"required"`
}

// Task is the backend's task record as far as the board needs it.
type Task struct {
	ID            string     `json:"id"`
	Number        int        `json:"number,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        Status     `json:"status"`
	Priority      Priority   `json:"priority,omitempty"`
	Start         string     `json:"start,omitempty"`
	Deadline      string     `json:"deadline,omitempty"`
	Assignees     []Assignee `json:"assignees,omitempty"`
	Collaborators []string   `json:"collaborators,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}

// PrimaryAssignee returns the name of the first assignee or an empty string.
func (t Task) PrimaryAssignee() string {
	if len(t.Assignees) == 0 {
		return ""
	}
	return t.Assignees[0].Name
}

// Label returns the first tag, which single-select displays treat as the label.
func (t Task) Label() string {
	if len(t.Tags) == 0 {
		return ""
	}
	return t.Tags[0]
}

// Clone returns a deep copy of the task so that snapshots never share slices.
func (t Task) Clone() Task {
	out := t
	if t.Assignees != nil {
		out.Assignees = append([]Assignee(nil), t.Assignees...)
	}
	if t.Collaborators != nil {
		out.Collaborators = append([]string(nil), t.Collaborators...)
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// NewTask is the payload used to create a task on the backend.
type NewTask struct {
	Title         string     `json:"title"                   validate:"required,max=255"`
	Description   string     `json:"description,omitempty"`
	Status        Status     `json:"status,omitempty"        validate:"omitempty,oneof=backlog todo in-progress review done"`
	Priority      Priority   `json:"priority,omitempty"      validate:"omitempty,oneof=low medium high urgent"`
	Start         string     `json:"start,omitempty"         validate:"omitempty,datetime=2006-01-02"`
	Deadline      string     `json:"deadline,omitempty"      validate:"omitempty,datetime=2006-01-02"`
	Assignees     []Assignee `json:"assignees,omitempty"     validate:"dive"`
	Collaborators []string   `json:"collaborators,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
}

// TaskPatch is a partial update. Nil fields are left untouched by the backend.
type TaskPatch struct {
	Title    *string   `json:"title,omitempty"`
	Status   *Status   `json:"status,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
	Start    *string   `json:"start,omitempty"`
	Deadline *string   `json:"deadline,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
}

// StatusChange is an audit record of a status transition issued from the board.
type StatusChange struct {
	TaskID  string    `json:"taskId"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	Outcome string    `json:"outcome"`
	At      time.Time `json:"at"`
}
