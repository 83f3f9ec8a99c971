package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/registry"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered slides",
	Long:    `Lists slides in registry order, optionally filtered by topic, tag, or a search term.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringP("topic", "t", "", "filter by topic id")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().String("search", "", "search in titles, captions, and tags")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	topic, _ := cmd.Flags().GetString("topic")
	tag, _ := cmd.Flags().GetString("tag")
	search, _ := cmd.Flags().GetString("search")

	slides := registry.Filter(reg.Slides, registry.FilterOptions{
		Topic:  topic,
		Tag:    tag,
		Search: search,
	})

	switch outputFormat() {
	case output.FormatJSON:
		if slides == nil {
			slides = []registry.Slide{}
		}
		return output.JSON(os.Stdout, slides)
	case output.FormatCompact:
		output.SlideCompact(os.Stdout, slides)
	default:
		output.SlideTable(os.Stdout, slides)
	}
	return nil
}
