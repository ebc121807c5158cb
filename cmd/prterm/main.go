package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"prterm/internal/app"
	"prterm/internal/config"
	"prterm/internal/github"
	"prterm/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "prterm: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, path, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	owner, name, err := cfg.SplitRepo()
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	client := github.NewClient(github.RepoRef{Owner: owner, Name: name}, cfg.Token)
	cache := openCache()
	if cache != nil {
		defer cache.Close()
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	model := app.NewModel(cfg, client, cache, interactive)

	if !interactive {
		fmt.Println(model.StaticFrame(context.Background()))
		return nil
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

// openCache is best-effort: the viewer works without the snapshot cache.
func openCache() *store.Store {
	path, err := config.CachePath()
	if err != nil {
		return nil
	}
	s, err := store.Open(path)
	if err != nil {
		return nil
	}
	if err := s.Init(context.Background()); err != nil {
		_ = s.Close()
		return nil
	}
	return s
}
