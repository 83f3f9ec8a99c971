package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/deck"
	"github.com/avolkov/slidedeck/internal/output"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Regenerate the deck documents from the registry",
	Long: `Rewrites slides.qmd, recent.qmd, and styles.css in full. Generation
is deterministic: an unchanged registry produces byte-identical files.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().IntP("recent-count", "n", deck.DefaultRecentCount, "slides shown in the recent view")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	recentCount, _ := cmd.Flags().GetInt("recent-count")
	if recentCount < 0 {
		return clierr.Newf(clierr.InvalidInput, "recent count must not be negative, got %d", recentCount)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	res, err := deck.Build(reg, recentCount)
	if err != nil {
		return err
	}

	printWarnings(res.Warnings)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}

	for _, f := range res.Files {
		output.Messagef(os.Stdout, "Generated %s", f)
	}
	output.Messagef(os.Stdout, "Build complete: %d slides across %d topics", res.SlideCount, res.TopicCount)
	return nil
}
