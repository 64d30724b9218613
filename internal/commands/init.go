package commands

import (
	"fmt"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/repo"
)

// InitCommand initializes a repository and commits the initial snapshot.
type InitCommand struct{}

func (c *InitCommand) Name() string  { return "init" }
func (c *InitCommand) Usage() string { return "init" }
func (c *InitCommand) Brief() string {
	return "Initialize snapshot storage and take an initial snapshot"
}
func (c *InitCommand) Aliases() []string { return nil }

func (c *InitCommand) Run(ctx *cli.Context) error {
	r, created, err := repo.InitAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("Repository already initialized at %s\n", r.StoragePath())
		return nil
	}

	head, err := r.Head()
	if err != nil {
		return err
	}
	fmt.Printf("Initialized repository at %s (fingerprint %s)\n", r.StoragePath(), head)
	return nil
}

func init() {
	cli.RegisterCommand(&InitCommand{})
}
