// Package tui implements an interactive terminal browser for slide decks.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/slidedeck/internal/deck"
	"github.com/avolkov/slidedeck/internal/registry"
)

// view represents the current screen state.
type view int

const (
	viewTopics view = iota
	viewDetail
	viewHelp
)

// Key and layout constants.
const (
	keyEsc  = "esc"
	keyDown = "down"
	keyUp   = "up"

	titleLines     = 2 // slide titles wrap to at most two card lines
	tagMaxFraction = 2 // tags get at most 1/N of card width
	browserChrome  = 2 // blank line + status bar below the column area
	maxScrollOff   = 1<<31 - 1
)

// Browser is the top-level bubbletea model.
type Browser struct {
	dir       string
	reg       *registry.Registry
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	notice    string
	now       func() time.Time // clock for age display; defaults to time.Now

	// Detail view.
	detailSlide     *registry.Slide
	detailScrollOff int
}

// column groups slides belonging to a single topic.
type column struct {
	id        string
	name      string
	slides    []*registry.Slide
	scrollOff int // first visible row index
}

// New creates a Browser model from a loaded registry.
func New(reg *registry.Registry) *Browser {
	b := &Browser{dir: reg.Dir(), reg: reg, now: time.Now}
	b.buildColumns()
	return b
}

// SetNow overrides the clock function used for age display (for testing).
func (b *Browser) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewHelp:
		return b.viewHelp()
	default:
		return b.viewTopics()
	}
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewTopics:
		return b.handleTopicsKey(msg)
	case viewDetail:
		return b.handleDetailKey(msg)
	case viewHelp:
		return b.handleHelpKey(msg)
	}

	return b, nil
}

func (b *Browser) handleTopicsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return b, tea.Quit
	case "?":
		b.view = viewHelp
	case "h", "left", "l", "right", "j", keyDown, "k", keyUp:
		b.handleNavigation(msg.String())
	case "enter":
		b.handleEnter()
	case "b":
		b.rebuild()
	case "r":
		b.reload()
	}
	return b, nil
}

func (b *Browser) handleNavigation(k string) {
	switch k {
	case "h", "left":
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "j", keyDown:
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.slides)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", keyUp:
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	}
}

func (b *Browser) handleEnter() {
	if s := b.selectedSlide(); s != nil {
		b.detailSlide = s
		b.detailScrollOff = 0
		b.view = viewDetail
	}
}

func (b *Browser) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "backspace":
		b.view = viewTopics
		b.detailSlide = nil
		b.detailScrollOff = 0
	case "j", keyDown:
		b.detailScrollOff++
	case "k", keyUp:
		if b.detailScrollOff > 0 {
			b.detailScrollOff--
		}
	case "g":
		b.detailScrollOff = 0
	case "G":
		// Set to large value; viewDetail will clamp it.
		b.detailScrollOff = maxScrollOff
	}
	return b, nil
}

func (b *Browser) handleHelpKey(_ tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.view = viewTopics
	return b, nil
}

// reload re-reads the registry from disk and rebuilds the columns.
func (b *Browser) reload() {
	reg, err := registry.Load(b.dir)
	if err != nil {
		b.err = err
		return
	}
	b.reg = reg
	b.err = nil
	b.notice = ""
	b.buildColumns()
}

// rebuild regenerates the deck documents from the current registry.
func (b *Browser) rebuild() {
	res, err := deck.Build(b.reg, deck.DefaultRecentCount)
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.notice = fmt.Sprintf("Built %d slides across %d topics", res.SlideCount, res.TopicCount)
}

// buildColumns organizes slides into one column per topic. Every declared
// topic gets a column even when empty; topics referenced by slides without
// being declared sort after the declared ones; slides without a topic go
// into a trailing unassigned column.
func (b *Browser) buildColumns() {
	buckets := make(map[string][]*registry.Slide)
	var extras []string
	var unassigned []*registry.Slide
	for i := range b.reg.Slides {
		s := &b.reg.Slides[i]
		if s.Topic == "" {
			unassigned = append(unassigned, s)
			continue
		}
		if _, ok := buckets[s.Topic]; !ok && b.reg.TopicByID(s.Topic) == nil {
			extras = append(extras, s.Topic)
		}
		buckets[s.Topic] = append(buckets[s.Topic], s)
	}

	ids := make([]string, 0, len(b.reg.Topics)+len(extras))
	for _, t := range b.reg.Topics {
		ids = append(ids, t.ID)
	}
	ids = append(ids, extras...)
	sort.SliceStable(ids, func(i, j int) bool {
		oi, oj := deck.TopicOrder(b.reg, ids[i]), deck.TopicOrder(b.reg, ids[j])
		if oi != oj {
			return oi < oj
		}
		return ids[i] < ids[j]
	})

	b.columns = make([]column, 0, len(ids)+1)
	for _, id := range ids {
		b.columns = append(b.columns, column{
			id:     id,
			name:   deck.TopicName(b.reg, id),
			slides: buckets[id],
		})
	}
	if len(unassigned) > 0 {
		b.columns = append(b.columns, column{
			id:     "",
			name:   deck.TopicName(b.reg, ""),
			slides: unassigned,
		})
	}

	if b.activeCol >= len(b.columns) {
		b.activeCol = 0
	}
	b.clampRow()
}

func (b *Browser) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Browser) selectedSlide() *registry.Slide {
	col := b.currentColumn()
	if col == nil || len(col.slides) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(col.slides) {
		return col.slides[b.activeRow]
	}
	return nil
}

// cardHeight returns the height of a single card in lines:
// top border + title lines + 1 detail line + bottom border.
func (b *Browser) cardHeight() int {
	return titleLines + 3 //nolint:mnd // borders(2) + detail line(1)
}

func (b *Browser) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.slides) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.slides) {
		b.activeRow = len(col.slides) - 1
	}
	b.ensureVisible()
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines ("↑ N more" / "↓ N more") that
// consume vertical space.
func (b *Browser) visibleCardsForColumn(col *column) int {
	budget := b.height - browserChrome
	if budget < 1 {
		return 1
	}

	// Always need 1 line for column header.
	avail := budget - 1

	// Check if up indicator is needed.
	if col.scrollOff > 0 {
		avail--
	}

	// Compute cards assuming no down indicator.
	ch := b.cardHeight()
	n := avail / ch
	if n < 1 {
		n = 1
	}

	// Check if down indicator is needed.
	if col.scrollOff+n < len(col.slides) {
		// Re-compute with 1 fewer line for the down indicator.
		n = (avail - 1) / ch
		if n < 1 {
			n = 1
		}
	}

	return n
}

// ensureVisible adjusts the active column's scroll offset so the
// selected row is within the visible window.
func (b *Browser) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	maxVis := b.visibleCardsForColumn(col)

	// Scroll down if active row is below visible window.
	if b.activeRow >= col.scrollOff+maxVis {
		col.scrollOff = b.activeRow - maxVis + 1
	}
	// Scroll up if active row is above visible window.
	if b.activeRow < col.scrollOff {
		col.scrollOff = b.activeRow
	}
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Browser) WatchPaths() []string {
	return []string{b.dir}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a registry refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginBottom(0)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginBottom(0)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	figStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	detailLabelStyle = lipgloss.NewStyle().Bold(true).Width(10) //nolint:mnd // label column width

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// --- View rendering ---

func (b *Browser) viewTopics() string {
	if len(b.columns) == 0 {
		return "No topics declared and no slides registered."
	}

	colWidth := b.columnWidth()

	renderedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		renderedCols[i] = b.renderColumn(i, col, colWidth)
	}

	topicsView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)
	statusBar := b.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, topicsView, "", statusBar)
}

func (b *Browser) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	// Total rendered width = w * numColumns (JoinHorizontal adds no gaps).
	w := b.width / len(b.columns)
	const maxColWidth = 50
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func (b *Browser) renderColumn(colIdx int, col column, width int) string {
	headerText := fmt.Sprintf("%s (%d)", col.name, len(col.slides))
	// Truncate to fit within padding (1 left + 1 right).
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	var header string
	if colIdx == b.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	// Determine visible card range.
	maxVis := b.visibleCardsForColumn(&col)
	start := col.scrollOff
	end := start + maxVis
	if end > len(col.slides) {
		end = len(col.slides)
	}
	if start > len(col.slides) {
		start = len(col.slides)
	}

	parts := []string{header}

	// Show "↑ N more" indicator if scrolled down.
	if start > 0 {
		indicator := fmt.Sprintf("  ↑ %d more", start)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	// Render visible cards.
	if len(col.slides) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	} else {
		for rowIdx := start; rowIdx < end; rowIdx++ {
			s := col.slides[rowIdx]
			active := colIdx == b.activeCol && rowIdx == b.activeRow
			parts = append(parts, b.renderCard(s, active, width))
		}
	}

	// Show "↓ N more" indicator if more cards below.
	if end < len(col.slides) {
		remaining := len(col.slides) - end
		indicator := fmt.Sprintf("  ↓ %d more", remaining)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Browser) renderCard(s *registry.Slide, active bool, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := width - cardChrome
	if cardWidth < 1 {
		cardWidth = 1
	}

	contentLines := wrapTitle(s.Title, cardWidth, titleLines)
	// Pad to exactly titleLines for uniform card height.
	for len(contentLines) < titleLines {
		contentLines = append(contentLines, "")
	}

	// Date + tags + figure marker line.
	var details []string
	details = append(details, dimStyle.Render(s.Created))

	if len(s.Tags) > 0 {
		tagStr := strings.Join(s.Tags, ",")
		tagMaxLen := cardWidth / tagMaxFraction
		if len(tagStr) > tagMaxLen {
			tagStr = tagStr[:tagMaxLen-3] + "..."
		}
		details = append(details, dimStyle.Render(tagStr))
	}

	if s.Figure != "" {
		details = append(details, figStyle.Render("fig"))
	}

	if created, err := s.CreatedTime(); err == nil {
		age := humanDuration(b.now().Sub(created))
		details = append(details, dimStyle.Render(age))
	}

	contentLines = append(contentLines, strings.Join(details, " "))

	content := strings.Join(contentLines, "\n")

	style := cardStyle
	if active {
		style = activeCardStyle
	}

	return style.Width(width - 2).Render(content) //nolint:mnd // border width
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if len(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if current.Len()+1+len(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
		} else {
			lines = append(lines, truncate(current.String(), maxWidth))
			current.Reset()
			current.WriteString(word)
			if len(lines) == maxLines-1 {
				// Last line: append all remaining words.
				for _, w := range words[i+1:] {
					current.WriteByte(' ')
					current.WriteString(w)
				}
				break
			}
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (b *Browser) renderStatusBar() string {
	title := b.reg.Title
	if title == "" {
		title = registry.DefaultTitle
	}
	status := fmt.Sprintf(" %s | %d slides | ←↓↑→/hjkl:navigate enter:detail b:build r:reload ?:help esc/q:quit",
		title, len(b.reg.Slides))
	status = truncate(status, b.width)

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	if b.notice != "" {
		note := noticeStyle.Render(truncate(b.notice, b.width))
		return note + "\n" + statusBarStyle.Render(status)
	}

	return statusBarStyle.Render(status)
}

func (b *Browser) viewDetail() string {
	s := b.detailSlide
	if s == nil {
		return "No slide selected."
	}

	lines := detailLines(s, b.reg, b.width)

	// Reserve the last line for the fixed status hint.
	viewHeight := b.height - 1
	if viewHeight < 1 {
		viewHeight = len(lines)
	}

	hint := "q/esc:back"
	if len(lines) > viewHeight {
		hint += "  j/k:scroll  g/G:top/bottom"
	}

	// Apply viewport scrolling.
	off := b.detailScrollOff
	maxOff := len(lines) - viewHeight
	if maxOff < 0 {
		maxOff = 0
	}
	if off > maxOff {
		off = maxOff
	}

	end := off + viewHeight
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[off:end], "\n") + "\n" + dimStyle.Render(hint)
}

func detailLines(s *registry.Slide, reg *registry.Registry, width int) []string {
	var lines []string
	titleLine := lipgloss.NewStyle().Bold(true).Render(s.Title)
	lines = append(lines, titleLine)
	lines = append(lines, strings.Repeat("─", lipgloss.Width(titleLine)))
	lines = append(lines, "")
	lines = append(lines, detailLabelStyle.Render("ID:")+"  "+s.ID)
	lines = append(lines, detailLabelStyle.Render("Topic:")+"  "+deck.TopicName(reg, s.Topic))

	if s.Figure != "" {
		lines = append(lines, detailLabelStyle.Render("Figure:")+"  "+s.Figure)
	}
	lines = append(lines, detailLabelStyle.Render("Created:")+"  "+s.Created)
	if len(s.Tags) > 0 {
		lines = append(lines, detailLabelStyle.Render("Tags:")+"  "+strings.Join(s.Tags, ", "))
	}

	if s.Caption != "" {
		lines = append(lines, "")
		wrapped := lipgloss.NewStyle().Width(width).Render(s.Caption)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	if s.Content != "" {
		lines = append(lines, "")
		wrapped := lipgloss.NewStyle().Width(width).Render(s.Content)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	if s.Notes != "" {
		lines = append(lines, "")
		lines = append(lines, detailLabelStyle.Render("Notes:"))
		wrapped := lipgloss.NewStyle().Width(width).Render(s.Notes)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

func (b *Browser) viewHelp() string {
	help := []struct{ key, desc string }{
		{"h/←", "Move to left column"},
		{"l/→", "Move to right column"},
		{"j/↓", "Move cursor down"},
		{"k/↑", "Move cursor up"},
		{"enter", "Show slide detail"},
		{"b", "Rebuild deck documents"},
		{"r", "Reload registry"},
		{"?", "Show this help"},
		{"esc/q", "Quit"},
		{"ctrl+c", "Force quit"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, h := range help {
		keyStyle := lipgloss.NewStyle().Bold(true).Width(12) //nolint:mnd // key column width
		lines = append(lines, keyStyle.Render(h.key)+"  "+h.desc)
	}

	lines = append(lines, "")
	lines = append(lines, dimStyle.Render("Press any key to close"))

	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// humanDuration formats a duration as a compact human-readable string.
// Examples: "<1m", "5m", "2h", "3d", "2w", "3mo", "1y".
func humanDuration(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		week  = 7 * day
		month = 30 * day
		year  = 365 * day
	)

	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < day:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < week:
		return fmt.Sprintf("%dd", int(d/day))
	case d < month:
		return fmt.Sprintf("%dw", int(d/week))
	case d < year:
		return fmt.Sprintf("%dmo", int(d/month))
	default:
		return fmt.Sprintf("%dy", int(d/year))
	}
}
