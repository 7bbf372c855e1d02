package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/studyloop/cadence/internal/cli"
	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/engine"
	"github.com/studyloop/cadence/internal/logger"
	"github.com/studyloop/cadence/internal/storage"
	"github.com/studyloop/cadence/internal/storage/postgres"
	"github.com/studyloop/cadence/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Storage  string `help:"Database path or PostgreSQL connection string." default:"~/.config/cadence/cadence.db" type:"string"`
	Timezone string `help:"IANA timezone for all scheduling heuristics." default:"Local"`
	User     string `help:"User id to operate on." default:"default"`
	Debug    bool   `help:"Verbose logging to stderr."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize cadence storage."`
	Slots     cli.SlotsCmd     `cmd:"" help:"List free slots over the lookahead window."`
	Conflicts cli.ConflictsCmd `cmd:"" help:"Detect scheduling conflicts."`
	Workload  cli.WorkloadCmd  `cmd:"" help:"Analyze focus load and cramming risk."`
	Score     cli.ScoreCmd     `cmd:"" help:"Score a work item's priority."`
	Match     cli.MatchCmd     `cmd:"" help:"Find the optimal slot for a study block."`
	Balance   cli.BalanceCmd   `cmd:"" help:"Preview rebalancing actions without persisting."`
	Propose   cli.ProposeCmd   `cmd:"" help:"Generate a rebalancing proposal."`
	Review    cli.ReviewCmd    `cmd:"" help:"Interactively review a proposal."`
	Apply     cli.ApplyCmd     `cmd:"" help:"Apply a proposal's moves atomically."`
	Undo      cli.UndoCmd      `cmd:"" help:"Undo an applied proposal within the retention window."`
	Reject    cli.RejectCmd    `cmd:"" help:"Reject a proposal."`
	Cancel    cli.CancelCmd    `cmd:"" help:"Cancel a proposal you raised."`
	Attempts  cli.AttemptsCmd  `cmd:"" help:"Show the apply audit trail for a proposal."`
	Add       struct {
		Event cli.EventAddCmd `cmd:"" help:"Add a calendar event."`
		Work  cli.WorkAddCmd  `cmd:"" help:"Add a work item."`
	} `cmd:"" help:"Seed the calendar and work item stores."`
	Tui    cli.TuiCmd    `cmd:"" help:"Open the schedule dashboard."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Snapshot the database."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
	} `cmd:"" help:"Manage database backups."`
	DebugTools cli.DebugCmd `cmd:"" name:"debug" help:"Inspection helpers." hidden:""`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cadence"),
		kong.Description("Adaptive calendar rebalancing for students"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	storagePath := expandHome(CLI.Storage)

	var store storage.Provider
	dataDir := expandHome("~/.config/cadence")
	if postgres.IsConnString(storagePath) {
		store = postgres.New(storagePath)
		CLI.Init.Path = ""
	} else {
		store = sqlite.NewStore(storagePath)
		CLI.Init.Path = storagePath
		dataDir = filepath.Dir(storagePath)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: dataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	eng, err := engine.New(store, config.Default(), CLI.Timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:       store,
		StoragePath: storagePath,
		Engine:      eng,
		UserID:      CLI.User,
	}
	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
