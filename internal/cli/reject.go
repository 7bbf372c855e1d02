package cli

import (
	"context"
	"fmt"
)

type RejectCmd struct {
	Proposal string `arg:"" help:"Proposal id to reject."`
}

func (c *RejectCmd) Run(ctx *Context) error {
	if err := ctx.Engine.RejectProposal(context.Background(), c.Proposal); err != nil {
		return err
	}
	fmt.Printf("Rejected proposal %s.\n", c.Proposal)
	return nil
}

type CancelCmd struct {
	Proposal string `arg:"" help:"Proposal id to cancel."`
}

func (c *CancelCmd) Run(ctx *Context) error {
	if err := ctx.Engine.CancelProposal(context.Background(), c.Proposal); err != nil {
		return err
	}
	fmt.Printf("Cancelled proposal %s.\n", c.Proposal)
	return nil
}
