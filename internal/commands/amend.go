package commands

import (
	"flag"
	"fmt"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/repo"
)

// AmendCommand rewrites the message of an existing snapshot.
type AmendCommand struct{}

func (c *AmendCommand) Name() string      { return "amend" }
func (c *AmendCommand) Usage() string     { return "amend <manifest-name> -m message" }
func (c *AmendCommand) Brief() string     { return "Rewrite the message of a snapshot" }
func (c *AmendCommand) Aliases() []string { return nil }

func (c *AmendCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) < 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	name := ctx.Args[0]

	fs := flag.NewFlagSet("amend", flag.ContinueOnError)
	message := fs.String("m", "", "new message")
	if err := fs.Parse(ctx.Args[1:]); err != nil {
		return err
	}

	r, err := repo.OpenAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}
	if err := r.AmendMessage(name, *message); err != nil {
		return err
	}
	fmt.Printf("Amended %s\n", name)
	return nil
}

func init() {
	cli.RegisterCommand(&AmendCommand{})
}
