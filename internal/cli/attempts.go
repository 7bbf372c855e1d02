package cli

import (
	"fmt"

	"github.com/studyloop/cadence/internal/models"
)

type AttemptsCmd struct {
	Proposal string `arg:"" help:"Proposal id."`
}

func (c *AttemptsCmd) Run(ctx *Context) error {
	attempts, err := ctx.Engine.ListApplyAttempts(c.Proposal)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Println("No apply attempts recorded.")
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Apply attempts (%d)", len(attempts))))
	for _, a := range attempts {
		outcome := string(a.Outcome)
		switch a.Outcome {
		case models.AttemptApplied:
			outcome = okStyle.Render(outcome)
		case models.AttemptConflict:
			outcome = dangerStyle.Render(outcome)
		default:
			outcome = warnStyle.Render(outcome)
		}
		line := fmt.Sprintf("  %s  %s", ctx.FormatTime(a.CreatedAt), outcome)
		if a.MoveID != "" {
			line += dimStyle.Render("  move " + a.MoveID)
		}
		if a.Detail != "" {
			line += "  " + a.Detail
		}
		fmt.Println(line)
	}
	return nil
}
