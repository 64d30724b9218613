package commands

import (
	"fmt"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/repo"
	"github.com/keshon/dirsnap/internal/util"
)

// ShowCommand prints the summary and file table of one snapshot.
type ShowCommand struct{}

func (c *ShowCommand) Name() string      { return "show" }
func (c *ShowCommand) Usage() string     { return "show <manifest-name>" }
func (c *ShowCommand) Brief() string     { return "Show one snapshot's metadata and file table" }
func (c *ShowCommand) Aliases() []string { return nil }

func (c *ShowCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	r, err := repo.OpenAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}

	m, err := r.LoadManifest(ctx.Args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot:    %s\n", ctx.Args[0])
	fmt.Printf("Fingerprint: %s\n", m.Fingerprint)
	fmt.Printf("Captured:    %s\n", m.ISO)
	fmt.Printf("Message:     %s\n", m.Message)
	fmt.Printf("Files:       %d (%d bytes)\n", len(m.Files), m.TotalSize())
	for _, path := range util.SortedKeys(m.Files) {
		rec := m.Files[path]
		fmt.Printf("  %s  %8d  %s\n", rec.Hash, rec.Size, path)
	}
	return nil
}

func init() {
	cli.RegisterCommand(&ShowCommand{})
}
