package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/keshon/dirsnap/internal/cli"
	_ "github.com/keshon/dirsnap/internal/commands"
	"github.com/keshon/dirsnap/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dirsnap: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := flag.String("root", ".", "repository root directory")
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Usage = printUsage
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return nil
	}

	cmd, ok := cli.GetCommand(args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}

	return cmd.Run(&cli.Context{
		Args:   args[1:],
		Root:   *root,
		Config: cfg,
		Log:    logger,
	})
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{Level: logLevel})
	return slog.New(handler)
}

func printUsage() {
	fmt.Println("Usage: dirsnap [-root dir] [-config file] <command> [args...]")
	fmt.Println("Available commands:")
	for _, cmd := range cli.AllCommands() {
		fmt.Printf("  %-28s %s\n", cmd.Usage(), cmd.Brief())
	}
}
