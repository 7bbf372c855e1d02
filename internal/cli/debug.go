package cli

import (
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show the storage path."`
	DumpProposal DebugDumpProposalCmd `cmd:"" help:"Dump a proposal with its moves as JSON."`
	DumpEvent    DebugDumpEventCmd    `cmd:"" help:"Dump a calendar event as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return dumpJSON(map[string]string{"path": ctx.StoragePath})
}

type DebugDumpProposalCmd struct {
	ID string `arg:"" help:"Proposal ID."`
}

func (cmd *DebugDumpProposalCmd) Run(ctx *Context) error {
	p, err := ctx.Store.GetProposal(cmd.ID)
	if err != nil {
		return err
	}
	return dumpJSON(p)
}

type DebugDumpEventCmd struct {
	ID string `arg:"" help:"Event ID."`
}

func (cmd *DebugDumpEventCmd) Run(ctx *Context) error {
	ev, err := ctx.Store.GetEvent(cmd.ID)
	if err != nil {
		return err
	}
	return dumpJSON(ev)
}

func dumpJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
