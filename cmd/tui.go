package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/tui"
	"github.com/avolkov/slidedeck/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the deck in an interactive terminal UI",
	Long: `Opens a column-per-topic browser over the registry. The view reloads
automatically when slides.yaml changes on disk.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return clierr.New(clierr.InvalidInput, "tui requires an interactive terminal")
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	browser := tui.New(reg)
	p := tea.NewProgram(browser, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go startTUIWatcher(ctx, browser, p)

	_, err = p.Run()
	return err
}

// startTUIWatcher forwards registry changes to the program as ReloadMsg.
func startTUIWatcher(ctx context.Context, b *tui.Browser, p *tea.Program) {
	w, err := watcher.New(b.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		// non-fatal: the TUI works without live refresh
		return
	}
	defer w.Close()
	w.Run(ctx, nil)
}
