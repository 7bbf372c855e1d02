package cli

import (
	"fmt"
	"sort"
)

type WorkloadCmd struct {
	Days int `short:"d" help:"Lookahead window in days." default:"0"`
}

func (c *WorkloadCmd) Run(ctx *Context) error {
	a, err := ctx.Engine.AnalyzeWorkload(ctx.UserID, c.Days)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Workload"))
	fmt.Printf("  Weekly average: %.0f focus minutes\n", a.WeeklyAverageMin)

	days := make([]string, 0, len(a.DailyLoad))
	for d := range a.DailyLoad {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		fmt.Printf("  %s  %4d min\n", d, a.DailyLoad[d])
	}

	if len(a.PeakDays) > 0 {
		fmt.Println(headerStyle.Render("Peak days"))
		for _, p := range a.PeakDays {
			fmt.Printf("  %s  %d min (%.0f%% of load)\n", p.Date, p.Minutes, p.Share*100)
		}
	}

	if len(a.CrammingRisks) > 0 {
		fmt.Println(headerStyle.Render("Cramming risks"))
		for _, r := range a.CrammingRisks {
			fmt.Printf("  %s %s: %d min short, due %s (%.1f days)\n",
				riskStyle(r.RiskLevel).Render(fmt.Sprintf("[%s]", r.RiskLevel)),
				r.Title, r.DeficitMin, r.DueAt.In(ctx.Engine.Location()).Format("Mon Jan 2 15:04"), r.DaysUntilDue)
		}
	}

	if len(a.OverloadedDays) > 0 {
		fmt.Printf("%s %v\n", warnStyle.Render("Overloaded:"), a.OverloadedDays)
	}
	if len(a.UnderutilizedDays) > 0 {
		fmt.Printf("%s %v\n", dimStyle.Render("Underused:"), a.UnderutilizedDays)
	}
	for _, rec := range a.Recommendations {
		fmt.Printf("  %s %s\n", dimStyle.Render("tip:"), rec)
	}
	return nil
}
