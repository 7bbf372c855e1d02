package cli

import (
	"fmt"
	"os"
)

type InitCmd struct {
	Force bool   `help:"Delete any existing database before initializing."`
	Path  string `kong:"-"`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force && c.Path != "" {
		if _, err := os.Stat(c.Path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(c.Path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", c.Path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Println("Initialized cadence storage.")
	return nil
}
