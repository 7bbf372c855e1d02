package models

import "time"

type EventType string

const (
	EventClass       EventType = "class"
	EventFocus       EventType = "focus"
	EventChill       EventType = "chill"
	EventDueDate     EventType = "due_date"
	EventOfficeHours EventType = "office_hours"
	EventOther       EventType = "other"
)

// CalendarEvent is a half-open interval [StartAt, EndAt) on a user's
// calendar. The engine never writes events directly; mutations flow
// through the proposal apply step.
type CalendarEvent struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Title            string    `json:"title"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	Type             EventType `json:"type"`
	Movable          bool      `json:"movable"`
	WorkItemID       *string   `json:"work_item_id,omitempty"`
	ChunkIndex       int       `json:"chunk_index,omitempty"`
	ChunkTotal       int       `json:"chunk_total,omitempty"`
	TransitionBuffer bool      `json:"transition_buffer,omitempty"`
}

func (e CalendarEvent) DurationMin() int {
	return int(e.EndAt.Sub(e.StartAt).Minutes())
}

// Overlaps reports whether two half-open intervals truly intersect.
func (e CalendarEvent) Overlaps(o CalendarEvent) bool {
	return e.StartAt.Before(o.EndAt) && e.EndAt.After(o.StartAt)
}
