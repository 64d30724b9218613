package commands

import (
	"fmt"

	"github.com/keshon/dirsnap/internal/cli"
	"github.com/keshon/dirsnap/internal/repo"
	"github.com/keshon/dirsnap/internal/util"
)

// VerifyCommand re-hashes every referenced blob and reports its state.
type VerifyCommand struct{}

func (c *VerifyCommand) Name() string  { return "verify" }
func (c *VerifyCommand) Usage() string { return "verify" }
func (c *VerifyCommand) Brief() string {
	return "Check every referenced blob for presence and integrity"
}
func (c *VerifyCommand) Aliases() []string { return nil }

func (c *VerifyCommand) Run(ctx *cli.Context) error {
	r, err := repo.OpenAt(ctx.Root, ctx.Config, ctx.Log)
	if err != nil {
		return err
	}

	checks, err := r.Verify(util.WorkerCount())
	if err != nil {
		return err
	}

	var total, bad int
	for check := range checks {
		total++
		if check.Status != repo.BlobOK {
			bad++
			fmt.Printf("%s  %s  %v\n", check.Status, check.Hash, check.Paths)
		}
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d blob(s) missing or damaged", bad, total)
	}
	fmt.Printf("All %d blob(s) ok\n", total)
	return nil
}

func init() {
	cli.RegisterCommand(&VerifyCommand{})
}
