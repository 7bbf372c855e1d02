package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyloop/cadence/internal/errs"
	"github.com/studyloop/cadence/internal/models"
)

type ProposeCmd struct {
	Trigger string `short:"t" help:"What prompted the rebalance (manual|new_assignment|overload|energy_change)." default:"manual"`
	Days    int    `short:"d" help:"Lookahead window in days." default:"0"`
	Energy  int    `short:"n" help:"Current energy level (1-10)." default:"5"`
}

func (c *ProposeCmd) Run(ctx *Context) error {
	p, err := ctx.Engine.GenerateProposal(context.Background(), ctx.UserID, c.Trigger, c.Energy, c.Days)
	if errors.Is(err, errs.ErrInfeasible) {
		fmt.Println(okStyle.Render("Schedule already balanced, nothing to propose."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Proposal %s (%d moves, churn %.1f)", p.ID, len(p.Moves), p.TotalChurn)))
	printMoves(ctx, p.Moves)
	fmt.Println(dimStyle.Render("Review with 'cadence review " + p.ID + "' or apply directly with 'cadence apply'."))
	return nil
}

func printMoves(ctx *Context, moves []models.Move) {
	for _, m := range moves {
		var line string
		switch m.Type {
		case models.MoveInsert:
			line = fmt.Sprintf("  + %s  %s (%dm)", ctx.FormatSlot(*m.NewStart, *m.NewEnd), m.Title, m.DeltaMin)
		case models.MoveMove, models.MoveResize:
			line = fmt.Sprintf("  > %s  %s (from %s)", ctx.FormatSlot(*m.NewStart, *m.NewEnd), m.Title, ctx.FormatTime(*m.OriginalStart))
		case models.MoveDelete:
			line = fmt.Sprintf("  - %s  %s", m.Title, dimStyle.Render("remove"))
		}
		if m.OverLimit {
			line += " " + warnStyle.Render("[over daily churn limit]")
		}
		fmt.Println(line)
		for _, code := range m.ReasonCodes {
			fmt.Printf("      %s\n", dimStyle.Render(models.DescribeReason(code)))
		}
	}
}
