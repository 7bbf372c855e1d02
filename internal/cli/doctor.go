package cli

import (
	"fmt"
	"time"

	"github.com/studyloop/cadence/internal/backup"
	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/storage/postgres"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println(headerStyle.Render("Running diagnostics"))
	fmt.Println()

	hasError := false
	check := func(name string, err error) {
		if err != nil {
			fmt.Printf("%s %s: %v\n", dangerStyle.Render("✗"), name, err)
			hasError = true
			return
		}
		fmt.Printf("%s %s\n", okStyle.Render("✓"), name)
	}

	check("storage reachable, schema current", ctx.Store.Load())
	check("calendar readable", cmd.checkReadable(ctx))
	check("heuristic config valid", config.Default().Validate())
	check("clock sane", cmd.checkClock())
	cmd.checkConflicts(ctx)
	cmd.checkBackups(ctx)

	fmt.Println()
	if hasError {
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed.")
	return nil
}

func (cmd *DoctorCmd) checkReadable(ctx *Context) error {
	if _, err := ctx.Store.ListWorkItems(ctx.UserID); err != nil {
		return fmt.Errorf("failed to list work items: %w", err)
	}
	now := time.Now()
	if _, err := ctx.Store.ListEventsInRange(ctx.UserID, now, now.AddDate(0, 0, 1)); err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	return nil
}

func (cmd *DoctorCmd) checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

// checkConflicts surfaces critical schedule conflicts as a warning, not a
// failure; the schedule being messy is not a health problem.
func (cmd *DoctorCmd) checkConflicts(ctx *Context) {
	conflicts, err := ctx.Engine.DetectConflicts(ctx.UserID, 0)
	if err != nil {
		fmt.Printf("%s conflict scan: %v\n", warnStyle.Render("!"), err)
		return
	}
	critical := 0
	for _, c := range conflicts {
		if c.Severity == models.SeverityCritical {
			critical++
		}
	}
	if critical > 0 {
		fmt.Printf("%s %d critical schedule conflict(s); run 'cadence conflicts'\n", warnStyle.Render("!"), critical)
		return
	}
	fmt.Printf("%s no critical schedule conflicts\n", okStyle.Render("✓"))
}

func (cmd *DoctorCmd) checkBackups(ctx *Context) {
	if postgres.IsConnString(ctx.StoragePath) {
		return
	}
	backups, err := backup.NewManager(ctx.StoragePath).List()
	if err != nil {
		fmt.Printf("%s backups: %v\n", warnStyle.Render("!"), err)
		return
	}
	if len(backups) == 0 {
		fmt.Printf("%s no backups yet; run 'cadence backup create'\n", warnStyle.Render("!"))
		return
	}
	fmt.Printf("%s %d backup(s), newest %s\n", okStyle.Render("✓"), len(backups),
		backups[0].Timestamp.Format("2006-01-02 15:04"))
}
