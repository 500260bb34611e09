package tracker

import (
	"fmt"

	"github.com/julianstephens/streaklit/internal/cli"
	"github.com/julianstephens/streaklit/internal/models"
)

type StartCmd struct {
	Topic    string `arg:"" optional:"" help:"What you are learning. Defaults to the current goal's topic, or Swift."`
	Duration string `short:"d" help:"Goal length: week, month or year. Defaults to the current goal's duration."`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	l, err := ctx.AcquireLock()
	if err != nil {
		return err
	}
	defer l.Release()

	topic, duration := ctx.Goals().PreloadCurrentGoal()
	if c.Topic != "" {
		topic = c.Topic
	}
	if c.Duration != "" {
		d, ok := models.ParseDuration(c.Duration)
		if !ok {
			return fmt.Errorf("invalid duration %q (expected week, month or year)", c.Duration)
		}
		duration = d
	}

	v, err := ctx.Engine().StartGoal(topic, duration)
	if err != nil {
		return fmt.Errorf("failed to start goal: %w", err)
	}
	fmt.Printf("Started %s goal: %s\n", v.Goal.Duration, v.Goal.Topic)
	fmt.Println(cli.FormatView(v))
	return nil
}
