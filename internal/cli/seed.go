package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/cadence/internal/models"
)

type EventAddCmd struct {
	Title  string `arg:"" help:"Event title."`
	Start  string `short:"s" help:"Start time (RFC3339 or '2006-01-02 15:04')." required:""`
	End    string `short:"e" help:"End time (RFC3339 or '2006-01-02 15:04')." required:""`
	Type   string `short:"t" help:"Event type (class|focus|chill|due_date|office_hours|other)." default:"other"`
	Pinned bool   `help:"Mark the event immovable."`
	Work   string `short:"w" help:"Linked work item id."`
	Buffer bool   `help:"Require a transition buffer before this event."`
}

func (c *EventAddCmd) Run(ctx *Context) error {
	start, err := parseLocalTime(c.Start, ctx)
	if err != nil {
		return err
	}
	end, err := parseLocalTime(c.End, ctx)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("end must be after start")
	}

	ev := models.CalendarEvent{
		ID:               uuid.New().String(),
		UserID:           ctx.UserID,
		Title:            c.Title,
		StartAt:          start,
		EndAt:            end,
		Type:             models.EventType(c.Type),
		Movable:          !c.Pinned,
		TransitionBuffer: c.Buffer,
	}
	if c.Work != "" {
		ev.WorkItemID = &c.Work
	}
	if err := ctx.Store.AddEvent(ev); err != nil {
		return err
	}
	fmt.Printf("Added event %s (%s)\n", c.Title, ev.ID)
	return nil
}

type WorkAddCmd struct {
	Title    string  `arg:"" help:"Work item title."`
	Due      string  `short:"d" help:"Due time (RFC3339 or '2006-01-02 15:04')."`
	Effort   int     `short:"m" help:"Effort estimate in minutes." required:""`
	Weight   float64 `short:"g" help:"Grade weight percent." default:"-1"`
	Category string  `short:"c" help:"Category hint (essay, problem set, reading, ...)."`
	Course   string  `help:"Course id."`
}

func (c *WorkAddCmd) Run(ctx *Context) error {
	if c.Effort <= 0 {
		return fmt.Errorf("effort must be greater than zero")
	}
	item := models.WorkItem{
		ID:             uuid.New().String(),
		UserID:         ctx.UserID,
		Title:          c.Title,
		EffortEstimate: c.Effort,
		Category:       c.Category,
		CourseID:       c.Course,
	}
	if c.Due != "" {
		due, err := parseLocalTime(c.Due, ctx)
		if err != nil {
			return err
		}
		item.DueAt = &due
	}
	if c.Weight >= 0 {
		item.GradeWeight = &c.Weight
	}
	if err := ctx.Store.AddWorkItem(item); err != nil {
		return err
	}
	fmt.Printf("Added work item %s (%s)\n", c.Title, item.ID)
	return nil
}

func parseLocalTime(s string, ctx *Context) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, ctx.Engine.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, use RFC3339 or '2006-01-02 15:04'", s)
	}
	return t, nil
}
