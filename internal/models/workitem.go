package models

import "time"

// TaskType is the inferred working mode for a work item, derived from its
// title and category keywords. It drives energy-fit scoring and slot
// matching preferences.
type TaskType string

const (
	TaskTypeFocus TaskType = "focus"
	TaskTypeAdmin TaskType = "admin"
	TaskTypeLight TaskType = "light"
	TaskTypeChill TaskType = "chill"
)

// WorkItem is an assignment as the engine sees it: created externally and
// read-only here except for derived fields.
type WorkItem struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	EffortEstimate int        `json:"effort_estimate_min"` // minutes
	GradeWeight    *float64   `json:"grade_weight,omitempty"`
	Category       string     `json:"category,omitempty"`
	CourseID       string     `json:"course_id,omitempty"`
	Completed      bool       `json:"completed"`
}

// DaysUntilDue returns the fractional days between now and the item's due
// date. Items without a due date return false.
func (w WorkItem) DaysUntilDue(now time.Time) (float64, bool) {
	if w.DueAt == nil {
		return 0, false
	}
	return w.DueAt.Sub(now).Hours() / 24, true
}
