package cli

import (
	"fmt"
)

type ScoreCmd struct {
	Item   string `arg:"" help:"Work item id."`
	Energy int    `short:"n" help:"Current energy level (1-10)." default:"5"`
	Prev   string `short:"p" help:"Id of the item worked on immediately before, for context-switch friction."`
}

func (c *ScoreCmd) Run(ctx *Context) error {
	score, err := ctx.Engine.ScoreWorkItem(c.Item, c.Energy, c.Prev)
	if err != nil {
		return err
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Priority %.3f", score.Total)))
	fmt.Printf("  urgency    %.2f\n", score.Urgency)
	fmt.Printf("  impact     %.2f\n", score.Impact)
	fmt.Printf("  energy fit %.2f\n", score.EnergyFit)
	fmt.Printf("  friction   %.2f %s\n", score.Friction, dimStyle.Render("(subtracted)"))
	fmt.Printf("  task type  %s\n", score.TaskType)
	return nil
}
