package cli

import (
	"context"
	"fmt"
)

type ApplyCmd struct {
	Proposal string   `arg:"" help:"Proposal id to apply."`
	Moves    []string `name:"move" help:"Apply only the listed move ids (repeatable); default is every move."`
}

func (c *ApplyCmd) Run(ctx *Context) error {
	res, err := ctx.Engine.ApplyProposal(context.Background(), c.Proposal, c.Moves)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Applied proposal %s: %d moves applied, %d skipped.", res.Proposal.ID, res.Applied, res.Skipped)))
	fmt.Println(dimStyle.Render("Undo within the retention window with 'cadence undo " + res.Proposal.ID + "'."))
	return nil
}
