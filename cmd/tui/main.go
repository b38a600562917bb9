package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"todo_app/internal/app"
	"todo_app/internal/config"
	"todo_app/internal/logger"
	"todo_app/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var logFile string

	flagSet := pflag.NewFlagSet("todo-tui", pflag.ContinueOnError)
	config.AddFlags(flagSet)
	flagSet.StringVar(&logFile, "log-file", "", "write log lines to this file (the terminal is owned by the UI)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(flagSet)
	if err != nil {
		return err
	}

	log := logger.Nop()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log = logger.NewWriter(cfg.Log.Level, f)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := core.Close(); cerr != nil {
			log.Errorw("failed to close storage", "err", cerr)
		}
	}()

	model := tui.NewModel(core.Services, log)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
