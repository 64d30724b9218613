package commands

import (
	"flag"
	"fmt"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/repo"
)

// SnapCommand takes a manual snapshot.
type SnapCommand struct{}

func (c *SnapCommand) Name() string      { return "snap" }
func (c *SnapCommand) Usage() string     { return "snap [-m message]" }
func (c *SnapCommand) Brief() string     { return "Capture a snapshot of the current tree state" }
func (c *SnapCommand) Aliases() []string { return []string{"snapshot"} }

func (c *SnapCommand) Run(ctx *cli.Context) error {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	message := fs.String("m", "", "snapshot message")
	if err := fs.Parse(ctx.Args); err != nil {
		return err
	}

	r, err := repo.OpenAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}

	res, err := r.Snapshot(*message)
	if err != nil {
		return err
	}
	if !res.Created {
		fmt.Printf("No changes (fingerprint %s)\n", res.Fingerprint)
		return nil
	}
	fmt.Printf("Created %s\n", res.ManifestName)
	return nil
}

func init() {
	cli.RegisterCommand(&SnapCommand{})
}
