package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/registry"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the registry for problems",
	Long: `Reports slides referencing unknown topics, figures registered twice,
missing figure files, and slides with neither figure nor content.
Exits non-zero only when problems (not warnings) are found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkReport lists what the check found. Problems fail the command;
// warnings do not.
type checkReport struct {
	Slides   int      `json:"slides"`
	Topics   int      `json:"topics"`
	Problems []string `json:"problems"`
	Warnings []string `json:"warnings"`
}

func runCheck(_ *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	report := buildCheckReport(reg)

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, report); err != nil {
			return err
		}
	} else {
		for _, p := range report.Problems {
			output.Messagef(os.Stdout, "Problem: %s", p)
		}
		for _, w := range report.Warnings {
			output.Messagef(os.Stdout, "Warning: %s", w)
		}
		if len(report.Problems) == 0 && len(report.Warnings) == 0 {
			output.Messagef(os.Stdout, "Registry OK: %d slides across %d topics",
				report.Slides, report.Topics)
		} else {
			output.Messagef(os.Stdout, "%d problem(s), %d warning(s)",
				len(report.Problems), len(report.Warnings))
		}
	}

	if len(report.Problems) > 0 {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

func buildCheckReport(reg *registry.Registry) checkReport {
	report := checkReport{
		Slides:   len(reg.Slides),
		Topics:   len(reg.Topics),
		Problems: []string{},
		Warnings: []string{},
	}

	seenFigures := make(map[string]string, len(reg.Slides))
	for i := range reg.Slides {
		s := &reg.Slides[i]

		if s.Topic != "" && reg.TopicByID(s.Topic) == nil {
			report.Problems = append(report.Problems,
				fmt.Sprintf("slide %q references unknown topic %q", s.ID, s.Topic))
		}

		if s.Figure != "" {
			key := filepath.ToSlash(filepath.Clean(s.Figure))
			if prev, ok := seenFigures[key]; ok {
				report.Problems = append(report.Problems,
					fmt.Sprintf("figure %s is registered by both %q and %q", s.Figure, prev, s.ID))
			} else {
				seenFigures[key] = s.ID
			}

			figPath := filepath.FromSlash(s.Figure)
			if !filepath.IsAbs(figPath) {
				figPath = filepath.Join(reg.Dir(), figPath)
			}
			if _, err := os.Stat(figPath); err != nil {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("slide %q: figure file %s not found", s.ID, s.Figure))
			}
		}

		if s.Figure == "" && s.Content == "" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("slide %q has neither figure nor content", s.ID))
		}

		// Unparseable dates break recency ordering in the recent view.
		if _, err := s.CreatedTime(); err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("slide %q has an unparseable created date %q", s.ID, s.Created))
		}
	}

	return report
}
