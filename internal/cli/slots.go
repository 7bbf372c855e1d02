package cli

import (
	"fmt"

	"github.com/studyloop/cadence/internal/models"
)

type SlotsCmd struct {
	Days          int    `short:"d" help:"Lookahead window in days." default:"0"`
	MinDuration   int    `short:"m" help:"Minimum slot duration in minutes." default:"0"`
	Energy        int    `short:"n" help:"Current energy level (1-10)." default:"5"`
	Prefer        string `short:"p" help:"Preferred time of day (morning|afternoon|evening)."`
	AvoidWeekends bool   `help:"Skip weekend slots."`
}

func (c *SlotsCmd) Run(ctx *Context) error {
	prefs := models.SlotPreferences{
		AvoidWeekends: c.AvoidWeekends,
		PreferredTime: models.TimeOfDay(c.Prefer),
	}
	slots, err := ctx.Engine.FindFreeSlots(ctx.UserID, c.Days, c.MinDuration, c.Energy, prefs)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("No free slots in the window.")
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Free slots (%d)", len(slots))))
	for _, s := range slots {
		quality := string(s.Quality)
		switch s.Quality {
		case models.QualityOptimal:
			quality = okStyle.Render(quality)
		case models.QualityPoor:
			quality = dimStyle.Render(quality)
		}
		fmt.Printf("  %s  %4dm  %-9s %s\n", ctx.FormatSlot(s.StartAt, s.EndAt), s.DurationMin, s.TimeOfDay, quality)
	}
	return nil
}
