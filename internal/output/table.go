package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/slidedeck/internal/gitver"
	"github.com/avolkov/slidedeck/internal/registry"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
}

// SlideTable renders a list of slides as a formatted table.
func SlideTable(w io.Writer, slides []registry.Slide) {
	if len(slides) == 0 {
		fmt.Fprintln(os.Stderr, "No slides found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, topicW, createdW, titleW := 4, 7, 12, 7
	for i := range slides {
		s := &slides[i]
		idW = max(idW, len(s.ID)+pad)
		topicW = max(topicW, len(s.Topic)+pad)
		titleW = max(titleW, min(len(s.Title)+pad, 50)) //nolint:mnd // max title column width
	}

	header := padRight("ID", idW) + padRight("TOPIC", topicW) +
		padRight("CREATED", createdW) + padRight("TITLE", titleW) + "TAGS"
	fmt.Fprintln(w, headerStyle.Render(header))

	for i := range slides {
		s := &slides[i]
		title := s.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}

		topic := padRight(s.Topic, topicW)
		if s.Topic == "" {
			topic = dimStyle.Render(padRight("--", topicW))
		}
		tags := stringOrDash(strings.Join(s.Tags, ", "))

		fmt.Fprintln(w, padRight(s.ID, idW)+topic+
			padRight(s.Created, createdW)+padRight(title, titleW)+tags)
	}
}

// TopicTable renders the declared topics with their slide counts.
// counts maps topic id to slide count; the empty key counts slides
// without a topic.
func TopicTable(w io.Writer, topics []registry.Topic, counts map[string]int) {
	if len(topics) == 0 && counts[""] == 0 {
		fmt.Fprintln(os.Stderr, "No topics found.")
		return
	}

	const pad = 2
	orderW, idW, nameW := 7, 4, 6
	for _, t := range topics {
		idW = max(idW, len(t.ID)+pad)
		nameW = max(nameW, len(t.Name)+pad)
	}

	header := padRight("ORDER", orderW) + padRight("ID", idW) +
		padRight("NAME", nameW) + "SLIDES"
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range topics {
		fmt.Fprintln(w, padRight(strconv.Itoa(t.Order), orderW)+
			padRight(t.ID, idW)+padRight(t.Name, nameW)+
			strconv.Itoa(counts[t.ID]))
	}

	if counts[""] > 0 {
		row := padRight("--", orderW) + padRight("--", idW) +
			padRight("(unassigned)", nameW) + strconv.Itoa(counts[""])
		fmt.Fprintln(w, dimStyle.Render(row))
	}
}

// HistoryText renders figure history in full, newest first.
func HistoryText(w io.Writer, path string, entries []gitver.Entry) {
	fmt.Fprintln(w, "Git history for "+path+":")
	fmt.Fprintln(w, strings.Repeat("-", 60)) //nolint:mnd // rule width

	for i, e := range entries {
		fmt.Fprintf(w, "\n[%d] %s\n", i+1, e.Date)
		fmt.Fprintln(w, "    Commit: "+e.Abbrev())
		fmt.Fprintln(w, "    Message: "+e.Message)
	}

	fmt.Fprintf(w, "\n%d version(s) found\n", len(entries))
	fmt.Fprintln(w, "\nUse 'slidedeck compare' to generate a visual comparison.")
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

// padRight pads s with spaces to width. Strings at or beyond width are
// returned unchanged. Pad before styling so ANSI codes do not skew columns.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}
