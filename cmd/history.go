package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/gitver"
	"github.com/avolkov/slidedeck/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history PATH",
	Short: "Show the git history of a figure",
	Long:  `Lists every commit that touched the figure, newest first, following renames.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, args []string) error {
	figurePath := args[0]

	dir, err := deckDir()
	if err != nil {
		return err
	}

	entries, err := gitver.NewClient(dir).History(figurePath)
	if err != nil {
		if errors.Is(err, gitver.ErrUnavailable) {
			return clierr.New(clierr.VCSUnavailable, "git is not available (install git to use history)")
		}
		return err
	}
	if len(entries) == 0 {
		return clierr.Newf(clierr.NoHistory,
			"no git history found for %s (the file may not be tracked)", figurePath)
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		output.HistoryCompact(os.Stdout, entries)
	default:
		output.HistoryText(os.Stdout, figurePath, entries)
	}
	return nil
}
