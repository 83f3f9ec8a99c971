package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avolkov/slidedeck/internal/gitver"
	"github.com/avolkov/slidedeck/internal/registry"
)

// SlideCompact renders a list of slides in one-line-per-record compact format.
func SlideCompact(w io.Writer, slides []registry.Slide) {
	if len(slides) == 0 {
		fmt.Fprintln(os.Stderr, "No slides found.")
		return
	}

	for i := range slides {
		fmt.Fprintln(w, formatSlideLine(&slides[i]))
	}
}

// TopicCompact renders the declared topics in compact format.
func TopicCompact(w io.Writer, topics []registry.Topic, counts map[string]int) {
	for _, t := range topics {
		fmt.Fprintf(w, "[%d] %s: %s (%d slides)\n", t.Order, t.ID, t.Name, counts[t.ID])
	}
	if counts[""] > 0 {
		fmt.Fprintf(w, "(unassigned): %d slides\n", counts[""])
	}
}

// HistoryCompact renders history entries one per line, newest first.
func HistoryCompact(w io.Writer, entries []gitver.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\n", e.Abbrev(), e.Date, e.Message)
	}
}

// formatSlideLine builds the one-line representation of a slide.
func formatSlideLine(s *registry.Slide) string {
	line := s.ID
	if s.Topic != "" {
		line += " [" + s.Topic + "]"
	}
	line += " " + s.Title

	if len(s.Tags) > 0 {
		line += " (" + strings.Join(s.Tags, ", ") + ")"
	}
	if s.Figure != "" {
		line += " fig:" + s.Figure
	}

	return line
}
