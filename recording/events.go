package recording

import (
	"time"

	"github.com/google/uuid"

	"github.com/sarchlab/clocktree/clock"
)

// EventTable is the table that an EventRecorder writes.
const EventTable = "clock_event"

// Event is one row of the event table.
type Event struct {
	Session string
	Time    string
	Kind    string
	Clock   string
	OldRate uint64
	NewRate uint64
	From    string
	To      string
	Usage   int
}

// EventRecorder is a hook that writes every registry event into a recorder.
// All the events of one EventRecorder share a session ID.
type EventRecorder struct {
	recorder DataRecorder
	session  string
	now      func() time.Time
}

// NewEventRecorder creates an EventRecorder and the event table if the
// recorder does not have it yet.
func NewEventRecorder(recorder DataRecorder) *EventRecorder {
	if !hasTable(recorder, EventTable) {
		recorder.CreateTable(EventTable, Event{})
	}

	return &EventRecorder{
		recorder: recorder,
		session:  uuid.NewString(),
		now:      time.Now,
	}
}

// Session returns the ID stored with every event.
func (e *EventRecorder) Session() string {
	return e.session
}

// Func records the event.
func (e *EventRecorder) Func(ctx clock.HookCtx) {
	event := Event{
		Session: e.session,
		Time:    e.now().Format(time.RFC3339Nano),
		Kind:    ctx.Pos.Name,
		Clock:   ctx.Item.Name(),
		Usage:   ctx.Item.UsageCount(),
	}

	switch detail := ctx.Detail.(type) {
	case clock.RateChange:
		event.OldRate = uint64(detail.Old)
		event.NewRate = uint64(detail.New)
	case clock.Reparent:
		event.From = detail.From
		event.To = detail.To
	default:
		event.NewRate = uint64(ctx.Item.Rate())
	}

	e.recorder.InsertData(EventTable, event)
}

func hasTable(recorder DataRecorder, name string) bool {
	for _, t := range recorder.ListTables() {
		if t == name {
			return true
		}
	}

	return false
}
