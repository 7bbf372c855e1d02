package cli

import (
	"fmt"

	"github.com/studyloop/cadence/internal/balancer"
)

type BalanceCmd struct {
	Days   int `short:"d" help:"Lookahead window in days." default:"0"`
	Energy int `short:"n" help:"Current energy level (1-10)." default:"5"`
}

func (c *BalanceCmd) Run(ctx *Context) error {
	report, err := ctx.Engine.BalanceWorkload(ctx.UserID, c.Days, c.Energy)
	if err != nil {
		return err
	}

	verdict := string(report.Verdict)
	switch report.Verdict {
	case balancer.VerdictExcellent, balancer.VerdictGood:
		verdict = okStyle.Render(verdict)
	case balancer.VerdictFair:
		verdict = warnStyle.Render(verdict)
	default:
		verdict = dangerStyle.Render(verdict)
	}
	fmt.Printf("%s %s\n", headerStyle.Render("Schedule health:"), verdict)

	if len(report.Actions) == 0 && len(report.Deficiencies) == 0 {
		fmt.Println("Nothing to rebalance.")
		return nil
	}

	if len(report.Actions) > 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("Suggested actions (%d)", len(report.Actions))))
		for _, a := range report.Actions {
			printAction(ctx, a)
		}
	}
	for _, d := range report.Deficiencies {
		fmt.Printf("  %s %s\n", warnStyle.Render("unmet:"), d.Detail)
	}
	fmt.Println(dimStyle.Render("Run 'cadence propose' to turn these into an applicable proposal."))
	return nil
}

func printAction(ctx *Context, a balancer.Action) {
	switch a.Type {
	case balancer.ActionAddBlock:
		fmt.Printf("  + %s  %s (%dm)\n", ctx.FormatSlot(a.Start, a.End), a.Title, a.DurationMin)
	case balancer.ActionMoveBlock:
		fmt.Printf("  > %s  %s (from %s, churn %.1f)\n",
			ctx.FormatSlot(a.Start, a.End), a.Title, ctx.FormatTime(*a.OriginalStart), a.ChurnCost)
	case balancer.ActionRemoveBlock:
		fmt.Printf("  - %s  %s\n", a.Title, dimStyle.Render("remove"))
	}
	if a.Reason != "" {
		fmt.Printf("      %s\n", dimStyle.Render(a.Reason))
	}
}
