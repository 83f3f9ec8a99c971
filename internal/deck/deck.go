// Package deck renders the slide registry into Quarto markdown documents.
// Rendering is a pure function of the registry, so repeated builds of an
// unchanged registry produce byte-identical output.
package deck

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avolkov/slidedeck/internal/registry"
)

// Generated file names, written into the deck directory.
const (
	SlidesFileName = "slides.qmd"
	RecentFileName = "recent.qmd"
	StylesFileName = "styles.css"
)

const outputMode = 0o644

// DefaultRecentCount is how many slides the recent view shows by default.
const DefaultRecentCount = 10

// Result reports what a build produced.
type Result struct {
	Files      []string `json:"files"`
	SlideCount int      `json:"slide_count"`
	TopicCount int      `json:"topic_count"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Build regenerates slides.qmd, recent.qmd, and styles.css in the deck
// directory. Every file is rewritten in full; the registry is never
// modified.
func Build(reg *registry.Registry, recentCount int) (*Result, error) {
	outputs := []struct {
		name    string
		content string
	}{
		{SlidesFileName, SlidesQMD(reg)},
		{RecentFileName, RecentQMD(reg, recentCount)},
		{StylesFileName, StylesCSS()},
	}

	res := &Result{
		SlideCount: len(reg.Slides),
		TopicCount: len(reg.Topics),
	}
	for _, out := range outputs {
		path := filepath.Join(reg.Dir(), out.name)
		if err := os.WriteFile(path, []byte(out.content), outputMode); err != nil {
			return nil, fmt.Errorf("writing %s: %w", out.name, err)
		}
		res.Files = append(res.Files, out.name)
	}

	for _, s := range reg.Slides {
		if s.Figure == "" && s.Content == "" {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("slide %q has neither figure nor content", s.ID))
		}
	}

	return res, nil
}
