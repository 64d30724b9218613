package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/repo"
	"github.com/keshon/dirsnap/internal/watch"
)

// WatchCommand runs the auto-snapshot watcher until interrupted.
type WatchCommand struct{}

func (c *WatchCommand) Name() string      { return "watch" }
func (c *WatchCommand) Usage() string     { return "watch" }
func (c *WatchCommand) Brief() string     { return "Watch the tree and snapshot automatically on change" }
func (c *WatchCommand) Aliases() []string { return nil }

func (c *WatchCommand) Run(ctx *cli.Context) error {
	r, err := repo.OpenAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}

	w := watch.New(r, ctx.Config, ctx.Log)
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (debounce %s), Ctrl-C to stop\n", r.Root, ctx.Config.Debounce.Std())
	for {
		select {
		case ev := <-w.Events():
			fmt.Printf("Created %s\n", ev.ManifestName)
		case <-sigCtx.Done():
			return nil
		}
	}
}

func init() {
	cli.RegisterCommand(&WatchCommand{})
}
