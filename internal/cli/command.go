// Package cli holds the command interface and registry for the dirsnap
// command-line tool. Presentation only: all snapshot semantics live in
// the core packages.
package cli

import (
	"log/slog"

	"github.com/keshon/dirsnap/internal/config"
)

// Command represents a cli command.
type Command interface {
	Name() string
	Brief() string
	Usage() string
	Run(ctx *Context) error
	Aliases() []string
}

// Context represents a cli invocation.
type Context struct {
	Args   []string
	Root   string
	Config config.Config
	Log    *slog.Logger
}
