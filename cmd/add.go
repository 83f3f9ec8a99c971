package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/infer"
	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/registry"
)

const figureMode = 0o644

var addCmd = &cobra.Command{
	Use:   "add PATH",
	Short: "Register a figure as a new slide",
	Long: `Appends a slide record for the given figure. Topic and title are
inferred from the path when not supplied. The registry is written only
after inference and the optional copy have fully succeeded.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("topic", "t", "", "topic id (default: inferred from figures/<topic>/ path)")
	addCmd.Flags().StringP("title", "T", "", "slide title (default: inferred from the filename)")
	addCmd.Flags().StringP("caption", "c", "", "figure caption (markdown)")
	addCmd.Flags().StringP("notes", "n", "", "speaker notes")
	addCmd.Flags().String("tags", "", "comma-separated tags")
	addCmd.Flags().String("created", "", "creation date as YYYY-MM-DD (default: today)")
	addCmd.Flags().Bool("copy", false, "copy the figure into figures/<topic>/ first")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	figurePath := args[0]

	dir, err := deckDir()
	if err != nil {
		return err
	}

	release, err := lockDeck(dir)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck // lock release failure is not actionable

	reg, err := loadRegistryFrom(dir)
	if err != nil {
		return err
	}

	createdFlag, _ := cmd.Flags().GetString("created")
	created, err := validateCreated(createdFlag)
	if err != nil {
		return err
	}

	explicitTopic, _ := cmd.Flags().GetString("topic")
	topic, err := resolveTopic(reg, explicitTopic, infer.TopicFromPath(figurePath))
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = infer.TitleFromFilename(figurePath)
	}

	figure := normalizeFigurePath(dir, figurePath)
	if doCopy, _ := cmd.Flags().GetBool("copy"); doCopy {
		figure, err = copyFigure(dir, topic, figurePath)
		if err != nil {
			return err
		}
	}

	caption, _ := cmd.Flags().GetString("caption")
	notes, _ := cmd.Flags().GetString("notes")
	rawTags, _ := cmd.Flags().GetString("tags")

	slide := registry.Slide{
		ID:      reg.UniqueID(infer.SlideID(title, created)),
		Topic:   topic,
		Title:   title,
		Figure:  figure,
		Caption: caption,
		Notes:   notes,
		Created: created,
		Tags:    infer.ParseTags(rawTags),
	}

	if err := reg.AddSlide(slide); err != nil {
		return clierr.New(clierr.DuplicateSlide, err.Error())
	}
	if err := reg.Save(); err != nil {
		return err
	}

	return printSlideAdded(&slide, "Added")
}

// validateCreated returns today when created is empty and validates the
// date format otherwise.
func validateCreated(created string) (string, error) {
	if created == "" {
		return time.Now().Format(registry.DateLayout), nil
	}
	if _, err := time.Parse(registry.DateLayout, created); err != nil {
		return "", clierr.Newf(clierr.InvalidDate, "invalid date %q (want YYYY-MM-DD)", created)
	}
	return created, nil
}

// normalizeFigurePath stores deck-relative slash paths for figures inside
// the deck directory, and the cleaned input path for anything else.
func normalizeFigurePath(dir, path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		if rel, relErr := filepath.Rel(dir, abs); relErr == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// copyFigure copies src into figures/<topic>/ under the deck directory
// and returns the deck-relative figure path.
func copyFigure(dir, topic, src string) (string, error) {
	data, err := os.ReadFile(src) //nolint:gosec // user-supplied figure path
	if err != nil {
		return "", clierr.Newf(clierr.CopyFailed, "reading %s: %v", src, err)
	}

	destDir := filepath.Join(dir, registry.FiguresDir, topic)
	if err := os.MkdirAll(destDir, deckDirMode); err != nil {
		return "", clierr.Newf(clierr.CopyFailed, "creating %s: %v", destDir, err)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.WriteFile(dest, data, figureMode); err != nil {
		return "", clierr.Newf(clierr.CopyFailed, "writing %s: %v", dest, err)
	}

	return filepath.ToSlash(filepath.Join(registry.FiguresDir, topic, filepath.Base(src))), nil
}

// printSlideAdded reports a newly registered slide in the active format.
func printSlideAdded(s *registry.Slide, verb string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, s)
	}

	output.Messagef(os.Stdout, "%s slide: %s", verb, s.ID)
	output.Messagef(os.Stdout, "  Title: %s", s.Title)
	output.Messagef(os.Stdout, "  Topic: %s | Created: %s", s.Topic, s.Created)
	if s.Figure != "" {
		output.Messagef(os.Stdout, "  Figure: %s", s.Figure)
	}
	if len(s.Tags) > 0 {
		output.Messagef(os.Stdout, "  Tags: %s", strings.Join(s.Tags, ", "))
	}
	output.Messagef(os.Stdout, "\nRun 'slidedeck build' to regenerate the deck.")
	return nil
}
