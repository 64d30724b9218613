package commands

import (
	"fmt"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/diff"
	"github.com/keshon/dirsnap/internal/repo"
)

// DiffCommand compares two snapshots.
type DiffCommand struct{}

func (c *DiffCommand) Name() string      { return "diff" }
func (c *DiffCommand) Usage() string     { return "diff <manifest-a> <manifest-b>" }
func (c *DiffCommand) Brief() string     { return "Compare two snapshots" }
func (c *DiffCommand) Aliases() []string { return nil }

func (c *DiffCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) != 2 {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	r, err := repo.OpenAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}

	a, err := r.LoadManifest(ctx.Args[0])
	if err != nil {
		return err
	}
	b, err := r.LoadManifest(ctx.Args[1])
	if err != nil {
		return err
	}

	res, err := diff.Compare(a, b, r.Blobs)
	if err != nil {
		return err
	}

	for _, p := range res.Added {
		fmt.Printf("A  %s\n", p)
	}
	for _, p := range res.Removed {
		fmt.Printf("D  %s\n", p)
	}
	for _, p := range res.Modified {
		fmt.Printf("M  %s\n", p)
	}
	fmt.Printf("%d added, %d removed, %d modified, %d unchanged\n",
		len(res.Added), len(res.Removed), len(res.Modified), len(res.Unchanged))

	for _, p := range res.Modified {
		fd := res.Files[p]
		if fd.Binary {
			fmt.Printf("\n%s: binary or undecodable file (no text diff)\n", p)
			continue
		}
		fmt.Printf("\n%s", fd.Unified)
	}
	return nil
}

func init() {
	cli.RegisterCommand(&DiffCommand{})
}
