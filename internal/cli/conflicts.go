package cli

import (
	"fmt"
)

type ConflictsCmd struct {
	Days int `short:"d" help:"Lookahead window in days." default:"0"`
}

func (c *ConflictsCmd) Run(ctx *Context) error {
	conflicts, err := ctx.Engine.DetectConflicts(ctx.UserID, c.Days)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		fmt.Println(okStyle.Render("No conflicts detected."))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Conflicts (%d)", len(conflicts))))
	for _, cf := range conflicts {
		fmt.Printf("  %s %s: %s\n", severityStyle(cf.Severity).Render(fmt.Sprintf("[%s]", cf.Severity)), cf.Type, cf.Description)
		for _, r := range cf.Resolutions {
			fmt.Printf("    %s %s (churn %.1f)\n", dimStyle.Render("fix:"), r.Description, r.ChurnCost)
		}
	}
	return nil
}
