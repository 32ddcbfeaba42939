package board

import (
	"sync"

	"github.com/UnknownOlympus/hestia/internal/models"
)

type DragState string

const (
	DragIdle     DragState = "idle"
	DragDragging DragState = "dragging"
	DragHovering DragState = "hovering"
)

// DragSnapshot is a read-only view of a drag machine.
type DragSnapshot struct {
	State  DragState     `json:"state"`
	TaskID string        `json:"taskId,omitempty"`
	Origin models.Status `json:"origin,omitempty"`
	Target models.Status `json:"target,omitempty"`
}

// Intent is the status change a drop asks for.
type Intent struct {
	TaskID string
	From   models.Status
	To     models.Status
}

// Resolver looks a task up by id in the current board snapshot.
type Resolver func(taskID string) (models.Task, bool)

// DragMachine tracks one pointer dragging one card across the kanban columns.
type DragMachine struct {
	mu     sync.Mutex
	state  DragState
	taskID string
	origin models.Status
	target models.Status
}

func NewDragMachine() *DragMachine {
	return &DragMachine{state: DragIdle}
}

// Start picks a card up. A drag already in progress is replaced.
func (m *DragMachine) Start(task models.Task) DragSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = DragDragging
	m.taskID = task.ID
	m.origin = Coerce(task.Status)
	m.target = ""

	return m.snapshotLocked()
}

// Enter highlights the column under the pointer. It is ignored when nothing is dragged
// or the column is not a canonical status.
func (m *DragMachine) Enter(target models.Status) DragSnapshot {
	target = target.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != DragIdle && target.IsKnown() {
		m.state = DragHovering
		m.target = target
	}

	return m.snapshotLocked()
}

// Leave clears the highlight but keeps the card in hand.
func (m *DragMachine) Leave() DragSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == DragHovering {
		m.state = DragDragging
		m.target = ""
	}

	return m.snapshotLocked()
}

// Drop releases the card over target. The machine always returns to idle. An intent is
// returned only when the dragged task still resolves and its current column differs
// from target; an unresolved task is an abort.
func (m *DragMachine) Drop(target models.Status, resolve Resolver) (Intent, bool) {
	target = target.Normalize()

	m.mu.Lock()
	state, taskID := m.state, m.taskID
	m.resetLocked()
	m.mu.Unlock()

	if state == DragIdle || !target.IsKnown() {
		return Intent{}, false
	}

	task, ok := resolve(taskID)
	if !ok {
		return Intent{}, false
	}

	current := Coerce(task.Status)
	if current == target {
		return Intent{}, false
	}

	return Intent{TaskID: taskID, From: task.Status, To: target}, true
}

// Cancel ends the drag without a drop.
func (m *DragMachine) Cancel() DragSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked()

	return m.snapshotLocked()
}

func (m *DragMachine) Snapshot() DragSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

func (m *DragMachine) resetLocked() {
	m.state = DragIdle
	m.taskID = ""
	m.origin = ""
	m.target = ""
}

func (m *DragMachine) snapshotLocked() DragSnapshot {
	return DragSnapshot{State: m.state, TaskID: m.taskID, Origin: m.origin, Target: m.target}
}
