package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/studyloop/cadence/internal/models"
)

type ReviewCmd struct {
	Proposal string `arg:"" help:"Proposal id to review."`
}

func (c *ReviewCmd) Run(ctx *Context) error {
	p, err := ctx.Engine.GetProposal(c.Proposal)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Proposal %s [%s] — %d moves, churn %.1f", p.ID, p.Status, len(p.Moves), p.TotalChurn)))
	printMoves(ctx, p.Moves)

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Apply this proposal?").
				Options(
					huh.NewOption("Apply all moves", "apply"),
					huh.NewOption("Choose moves to apply", "choose"),
					huh.NewOption("Reject", "reject"),
					huh.NewOption("Decide later", "later"),
				).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}

	switch choice {
	case "apply", "choose":
		var selected []string
		if choice == "choose" {
			opts := make([]huh.Option[string], 0, len(p.Moves))
			for _, m := range p.Moves {
				opts = append(opts, huh.NewOption(moveLabel(ctx, m), m.ID))
			}
			pick := huh.NewForm(
				huh.NewGroup(
					huh.NewMultiSelect[string]().
						Title("Moves to apply").
						Options(opts...).
						Value(&selected),
				),
			)
			if err := pick.Run(); err != nil {
				return fmt.Errorf("interactive form error: %w", err)
			}
			if len(selected) == 0 {
				fmt.Println("No moves selected; left as proposed.")
				return nil
			}
		}
		res, err := ctx.Engine.ApplyProposal(context.Background(), p.ID, selected)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(fmt.Sprintf("Applied proposal %s: %d moves applied, %d skipped.", p.ID, res.Applied, res.Skipped)))
		fmt.Println(dimStyle.Render("Undo within the retention window with 'cadence undo " + p.ID + "'."))
	case "reject":
		if err := ctx.Engine.RejectProposal(context.Background(), p.ID); err != nil {
			return err
		}
		fmt.Println("Rejected.")
	default:
		fmt.Println("Left as proposed.")
	}
	return nil
}

func moveLabel(ctx *Context, m models.Move) string {
	switch m.Type {
	case models.MoveInsert:
		return fmt.Sprintf("+ %s  %s", ctx.FormatSlot(*m.NewStart, *m.NewEnd), m.Title)
	case models.MoveMove, models.MoveResize:
		return fmt.Sprintf("> %s  %s (from %s)", ctx.FormatSlot(*m.NewStart, *m.NewEnd), m.Title, ctx.FormatTime(*m.OriginalStart))
	default:
		return fmt.Sprintf("- %s (remove)", m.Title)
	}
}
