package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/compare"
	"github.com/avolkov/slidedeck/internal/gitver"
	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/registry"
)

var compareCmd = &cobra.Command{
	Use:   "compare PATH",
	Short: "Generate an HTML page comparing all versions of a figure",
	Long: `Extracts every historical version of the figure from git and writes
one standalone HTML page with all versions side by side, newest first.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringP("output", "o", compare.DefaultOutput, "output HTML file")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	figurePath := args[0]

	dir, err := deckDir()
	if err != nil {
		return err
	}

	client := gitver.NewClient(dir)
	entries, err := client.History(figurePath)
	if err != nil {
		if errors.Is(err, gitver.ErrUnavailable) {
			return clierr.New(clierr.VCSUnavailable, "git is not available (install git to use compare)")
		}
		return err
	}
	if len(entries) == 0 {
		return clierr.Newf(clierr.NoHistory,
			"no git history found for %s (the file may not be tracked)", figurePath)
	}
	if len(entries) == 1 {
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, map[string]interface{}{
				"status":   "skipped",
				"versions": 1,
			})
		}
		output.Messagef(os.Stdout, "Only one version found. Nothing to compare.")
		return nil
	}

	// The slide header is a nicety; a deck with a broken registry can
	// still compare figure blobs.
	var slide *registry.Slide
	if reg, regErr := loadRegistryFrom(dir); regErr == nil {
		slide = reg.SlideByFigure(figurePath)
	}

	outPath, _ := cmd.Flags().GetString("output")
	count, err := compare.Generate(client, figurePath, entries, slide, outPath)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status":   "generated",
			"output":   outPath,
			"versions": count,
		})
	}

	output.Messagef(os.Stdout, "Generated comparison: %s", outPath)
	output.Messagef(os.Stdout, "Showing %d versions (newest first)", count)
	return nil
}
