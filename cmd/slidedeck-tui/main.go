// slidedeck-tui is an interactive terminal browser for slide decks.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/registry"
	"github.com/avolkov/slidedeck/internal/scaffold"
	"github.com/avolkov/slidedeck/internal/tui"
	"github.com/avolkov/slidedeck/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	reg, err := findRegistry()
	if err != nil {
		// If no deck found, offer to create one.
		if isRegistryNotFound(err) {
			reg, err = offerInit()
			if err != nil {
				return err
			}
		} else {
			return err
		}
	}

	browser := tui.New(reg)
	p := tea.NewProgram(browser, tea.WithAltScreen())

	// Start file watcher in background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startWatcher(ctx, browser, p)

	_, err = p.Run()
	return err
}

func isRegistryNotFound(err error) bool {
	if errors.Is(err, registry.ErrNotFound) {
		return true
	}
	var cliErr *clierr.Error
	return errors.As(err, &cliErr) && cliErr.Code == clierr.RegistryNotFound
}

func offerInit() (*registry.Registry, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	title := filepath.Base(cwd)

	fmt.Printf("No slide registry found. Create a deck in %s? [Y/n] ", cwd)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))

	if answer != "" && answer != "y" && answer != "yes" {
		return nil, errors.New("no registry found — run 'slidedeck init' to create one")
	}

	reg := registry.NewDefault(title)
	reg.SetDir(cwd)
	if err := reg.Save(); err != nil {
		return nil, fmt.Errorf("initializing deck: %w", err)
	}
	if err := scaffold.Install(cwd, scaffold.Data{Title: title, Topics: reg.TopicIDs()}); err != nil {
		return nil, fmt.Errorf("initializing deck: %w", err)
	}

	fmt.Printf("Deck %q created in %s\n", title, cwd)
	return reg, nil
}

func startWatcher(ctx context.Context, browser *tui.Browser, p *tea.Program) {
	paths := browser.WatchPaths()
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}

func findRegistry() (*registry.Registry, error) {
	// Check for --dir flag (simple flag parsing).
	dir := ""
	for i, arg := range os.Args[1:] {
		if arg == "--dir" && i+2 < len(os.Args) {
			dir = os.Args[i+2]
			break
		}
	}

	if dir != "" {
		return registry.Load(dir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	deckDir, err := registry.FindDir(cwd)
	if err != nil {
		return nil, err
	}

	return registry.Load(deckDir)
}
