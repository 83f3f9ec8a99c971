package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/registry"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics with slide counts",
	Args:  cobra.NoArgs,
	RunE:  runTopics,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}

// topicRow pairs a declared topic with its slide count for JSON output.
type topicRow struct {
	registry.Topic
	Slides int `json:"slides"`
}

func runTopics(_ *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	counts := reg.CountByTopic()

	switch outputFormat() {
	case output.FormatJSON:
		rows := make([]topicRow, 0, len(reg.Topics))
		for _, t := range reg.Topics {
			rows = append(rows, topicRow{Topic: t, Slides: counts[t.ID]})
		}
		return output.JSON(os.Stdout, rows)
	case output.FormatCompact:
		output.TopicCompact(os.Stdout, reg.Topics, counts)
	default:
		output.TopicTable(os.Stdout, reg.Topics, counts)
	}
	return nil
}
