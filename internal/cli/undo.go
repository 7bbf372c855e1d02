package cli

import (
	"context"
	"fmt"
)

type UndoCmd struct {
	Proposal string `arg:"" help:"Applied proposal id to undo."`
}

func (c *UndoCmd) Run(ctx *Context) error {
	p, restored, err := ctx.Engine.UndoProposal(context.Background(), c.Proposal)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Undid proposal %s; %d events restored to their pre-apply state.", p.ID, restored)))
	return nil
}
