package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/studyloop/cadence/internal/backup"
	"github.com/studyloop/cadence/internal/storage/postgres"
)

// backupManager guards against the one storage backend that has no local
// file to snapshot.
func backupManager(ctx *Context) (*backup.Manager, error) {
	if postgres.IsConnString(ctx.StoragePath) {
		return nil, fmt.Errorf("backups are managed by the postgres server, not cadence")
	}
	return backup.NewManager(ctx.StoragePath), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Println(okStyle.Render("✓") + " Backup created: " + filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Println("No backups yet.")
		fmt.Println(dimStyle.Render("Backups are stored in " + mgr.BackupDir()))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Backups (%d, keeping the most recent %d)", len(backups), backup.MaxBackups)))
	for _, b := range backups {
		fmt.Printf("  %s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			dimStyle.Render(fmt.Sprintf("%.1f KB", float64(b.Size)/1024)))
	}
	fmt.Println(dimStyle.Render("\n" + mgr.BackupDir()))
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Path or filename of the backup to restore."`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.File
	if !filepath.IsAbs(path) {
		if candidate := filepath.Join(mgr.BackupDir(), c.File); fileExists(candidate) {
			path = candidate
		}
	}
	if !fileExists(path) {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !c.Yes {
		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Replace the current database with %s?", filepath.Base(path))).
				Description("The current database is saved as a fresh backup first.").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close database: %v\n", err)
	}
	if err := mgr.Restore(path); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	fmt.Println(okStyle.Render("✓") + " Database restored.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
