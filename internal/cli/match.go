package cli

import (
	"fmt"

	"github.com/studyloop/cadence/internal/matcher"
	"github.com/studyloop/cadence/internal/models"
)

type MatchCmd struct {
	Duration      int    `short:"m" help:"Block duration in minutes." required:""`
	Category      string `short:"c" help:"Task category (focus|admin|light|chill)." default:"focus"`
	Work          string `short:"w" help:"Work item id, used for the deadline axis."`
	Days          int    `short:"d" help:"Lookahead window in days." default:"0"`
	Energy        int    `short:"n" help:"Current energy level (1-10)." default:"5"`
	AvoidWeekends bool   `help:"Skip weekend slots."`
}

func (c *MatchCmd) Run(ctx *Context) error {
	req := models.BlockRequest{
		DurationMin: c.Duration,
		Category:    models.TaskType(c.Category),
	}
	if c.Work != "" {
		req.WorkItemID = &c.Work
	}
	opts := matcher.Options{
		LookaheadDays: c.Days,
		Prefs:         models.SlotPreferences{AvoidWeekends: c.AvoidWeekends},
	}
	match, err := ctx.Engine.FindOptimalSlot(ctx.UserID, req, c.Energy, opts)
	if err != nil {
		return err
	}
	if match == nil {
		fmt.Println(warnStyle.Render("No viable slot in the window."))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Best slot (%.0f/100, %s confidence)", match.Best.Total, match.Confidence)))
	fmt.Printf("  %s\n", ctx.FormatSlot(match.Best.Slot.StartAt, match.Best.Slot.EndAt))
	for _, line := range match.Explanations {
		fmt.Printf("  %s\n", dimStyle.Render(line))
	}
	if len(match.Alternatives) > 0 {
		fmt.Println(headerStyle.Render("Alternatives"))
		for _, alt := range match.Alternatives {
			fmt.Printf("  %s (%.0f)\n", ctx.FormatSlot(alt.Slot.StartAt, alt.Slot.EndAt), alt.Total)
		}
	}
	return nil
}
