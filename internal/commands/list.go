package commands

import (
	"fmt"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/repo"
)

// ListCommand prints all snapshots ascending by capture time.
type ListCommand struct{}

func (c *ListCommand) Name() string      { return "list" }
func (c *ListCommand) Usage() string     { return "list" }
func (c *ListCommand) Brief() string     { return "List snapshots, oldest first" }
func (c *ListCommand) Aliases() []string { return []string{"ls", "log"} }

func (c *ListCommand) Run(ctx *cli.Context) error {
	r, err := repo.OpenAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}

	entries, err := r.ListSnapshots()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No snapshots")
		return nil
	}

	for _, e := range entries {
		m := e.Manifest
		fmt.Printf("%s  %s  %d file(s)  %s\n", e.Name, m.ISO, len(m.Files), m.Message)
	}
	return nil
}

func init() {
	cli.RegisterCommand(&ListCommand{})
}
