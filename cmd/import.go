package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/infer"
	"github.com/avolkov/slidedeck/internal/registry"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a markdown file as a new slide",
	Long: `Reads a markdown file with YAML frontmatter (title, topic, figure,
caption, notes, created, tags) and registers it as a slide. The body of
the file becomes the slide content.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringP("topic", "t", "", "topic id (default: from frontmatter or the figure path)")
	importCmd.Flags().Bool("copy", false, "copy the referenced figure into figures/<topic>/")
	rootCmd.AddCommand(importCmd)
}

// importMeta is the frontmatter schema accepted by import. All fields are
// optional; missing ones are inferred the same way add infers them.
type importMeta struct {
	Title   string   `yaml:"title"`
	Topic   string   `yaml:"topic"`
	Figure  string   `yaml:"figure"`
	Caption string   `yaml:"caption"`
	Notes   string   `yaml:"notes"`
	Created string   `yaml:"created"`
	Tags    []string `yaml:"tags"`
}

func runImport(cmd *cobra.Command, args []string) error {
	mdPath := args[0]

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

	f, err := os.Open(mdPath) //nolint:gosec // user-supplied markdown path
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "reading %s: %v", mdPath, err)
	}
	defer f.Close()

	var meta importMeta
	body, err := frontmatter.Parse(f, &meta)
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "parsing frontmatter in %s: %v", mdPath, err)
	}

	created, err := validateCreated(meta.Created)
	if err != nil {
		return err
	}

	explicitTopic, _ := cmd.Flags().GetString("topic")
	if explicitTopic == "" {
		explicitTopic = meta.Topic
	}
	topic, err := resolveTopic(reg, explicitTopic, infer.TopicFromPath(meta.Figure))
	if err != nil {
		return err
	}

	title := meta.Title
	if title == "" {
		title = infer.TitleFromFilename(mdPath)
	}

	// Frontmatter figure paths are relative to the markdown file.
	var figure string
	if meta.Figure != "" {
		src := meta.Figure
		if !filepath.IsAbs(src) {
			src = filepath.Join(filepath.Dir(mdPath), src)
		}
		if doCopy, _ := cmd.Flags().GetBool("copy"); doCopy {
			figure, err = copyFigure(dir, topic, src)
			if err != nil {
				return err
			}
		} else {
			figure = normalizeFigurePath(dir, src)
		}
	}

	slide := registry.Slide{
		ID:      reg.UniqueID(infer.SlideID(title, created)),
		Topic:   topic,
		Title:   title,
		Figure:  figure,
		Caption: meta.Caption,
		Content: strings.TrimSpace(string(body)),
		Notes:   meta.Notes,
		Created: created,
		Tags:    meta.Tags,
	}

	if err := reg.AddSlide(slide); err != nil {
		return clierr.New(clierr.DuplicateSlide, err.Error())
	}
	if err := reg.Save(); err != nil {
		return err
	}

	return printSlideAdded(&slide, "Imported")
}
