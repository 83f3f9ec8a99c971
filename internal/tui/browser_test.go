package tui_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/avolkov/slidedeck/internal/deck"
	"github.com/avolkov/slidedeck/internal/registry"
	"github.com/avolkov/slidedeck/internal/tui"
)

func init() {
	// Strip all ANSI codes so assertions see plain text.
	lipgloss.SetColorProfile(termenv.Ascii)
}

// setupTestBrowser creates a temp deck directory with a registry and slides,
// then returns a Browser model ready for testing.
func setupTestBrowser(t *testing.T) (*tui.Browser, string) {
	t.Helper()

	dir := t.TempDir()
	reg := registry.NewDefault("Test Deck")
	reg.SetDir(dir)

	slides := []registry.Slide{
		{
			ID:      "2026-08-18-class-balance",
			Topic:   "data_exploration",
			Title:   "Class Balance",
			Figure:  "figures/data_exploration/class_balance.png",
			Caption: "Classes are roughly balanced.",
			Notes:   "Mention the 60/40 split.",
			Created: "2026-08-18",
			Tags:    []string{"eda"},
		},
		{
			ID:      "2026-08-19-loss-curve",
			Topic:   "results",
			Title:   "Loss Curve",
			Figure:  "figures/results/loss_curve.png",
			Created: "2026-08-19",
			Tags:    []string{"training", "loss"},
		},
		{
			ID:      "2026-08-20-confusion-matrix",
			Topic:   "results",
			Title:   "Confusion Matrix",
			Created: "2026-08-20",
		},
		{
			ID:      "2026-08-21-scratch-note",
			Title:   "Scratch Note",
			Created: "2026-08-21",
		},
	}
	for _, s := range slides {
		if err := reg.AddSlide(s); err != nil {
			t.Fatalf("adding slide: %v", err)
		}
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("saving registry: %v", err)
	}

	loaded, err := registry.Load(dir)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}

	b := tui.New(loaded)
	// Simulate window size.
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return b, dir
}

func sendKey(b *tui.Browser, k string) *tui.Browser {
	m, _ := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return m.(*tui.Browser)
}

func sendSpecialKey(b *tui.Browser, k tea.KeyType) *tui.Browser {
	m, _ := b.Update(tea.KeyMsg{Type: k})
	return m.(*tui.Browser)
}

func TestBrowser_InitialState(t *testing.T) {
	b, _ := setupTestBrowser(t)
	v := b.View()

	if v == "" || v == "Loading..." {
		t.Error("expected browser view, got empty or loading")
	}

	// Declared topics should show as columns.
	if !containsStr(v, "Data Exploration") {
		t.Error("expected Data Exploration column in view")
	}
	if !containsStr(v, "Results") {
		t.Error("expected Results column in view")
	}

	// Slide titles should be visible.
	if !containsStr(v, "Class Balance") {
		t.Error("expected Class Balance in view")
	}
	if !containsStr(v, "Loss Curve") {
		t.Error("expected Loss Curve in view")
	}
}

func TestBrowser_LoadingBeforeResize(t *testing.T) {
	dir := t.TempDir()
	reg := registry.NewDefault("Test Deck")
	reg.SetDir(dir)
	if err := reg.Save(); err != nil {
		t.Fatalf("saving registry: %v", err)
	}

	loaded, err := registry.Load(dir)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}

	b := tui.New(loaded)
	if v := b.View(); v != "Loading..." {
		t.Errorf("expected loading placeholder before first resize, got %q", v)
	}
}

func TestBrowser_EmptyTopicShowsMarker(t *testing.T) {
	b, _ := setupTestBrowser(t)
	v := b.View()

	// The modeling topic has no slides.
	if !containsStr(v, "Modeling (0)") {
		t.Error("expected empty Modeling column header with zero count")
	}
	if !containsStr(v, "(empty)") {
		t.Error("expected empty column indicator")
	}
}

func TestBrowser_UnassignedColumn(t *testing.T) {
	b, _ := setupTestBrowser(t)
	v := b.View()

	if !containsStr(v, "Unassigned") {
		t.Error("expected Unassigned column for topic-less slides")
	}
	if !containsStr(v, "Scratch Note") {
		t.Error("expected Scratch Note in view")
	}
}

func TestBrowser_UndeclaredTopicGetsColumn(t *testing.T) {
	dir := t.TempDir()
	reg := registry.NewDefault("Test Deck")
	reg.SetDir(dir)
	err := reg.AddSlide(registry.Slide{
		ID:      "2026-08-20-extra-material",
		Topic:   "appendix",
		Title:   "Extra Material",
		Created: "2026-08-20",
	})
	if err != nil {
		t.Fatalf("adding slide: %v", err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("saving registry: %v", err)
	}

	loaded, err := registry.Load(dir)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}

	b := tui.New(loaded)
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	v := b.View()
	if !containsStr(v, "Appendix") {
		t.Error("expected synthesized Appendix column for undeclared topic")
	}
	if !containsStr(v, "Extra Material") {
		t.Error("expected Extra Material in view")
	}
}

func TestBrowser_NavigateColumns(t *testing.T) {
	b, _ := setupTestBrowser(t)

	// Move right past the last column, then left past the first.
	b = sendKey(b, "l")
	b = sendKey(b, "l")
	b = sendKey(b, "l")
	b = sendKey(b, "l")
	b = sendKey(b, "h")
	b = sendKey(b, "h")
	b = sendKey(b, "h")
	b = sendKey(b, "h")
	b = sendKey(b, "h")

	v := b.View()
	if v == "" || v == "Loading..." {
		t.Error("expected valid view after navigation")
	}
}

func TestBrowser_NavigateRows(t *testing.T) {
	b, _ := setupTestBrowser(t)

	// Move to the results column (2 slides), then down past the end
	// and back up past the start.
	b = sendKey(b, "l")
	b = sendKey(b, "l")
	b = sendKey(b, "j")
	b = sendKey(b, "j")
	b = sendKey(b, "k")
	b = sendKey(b, "k")

	// Should not panic.
	_ = b.View()
}

func TestBrowser_EnterDetail(t *testing.T) {
	b, _ := setupTestBrowser(t)

	// Press enter on the first slide of the first column.
	b = sendKey(b, "enter")
	v := b.View()

	if !containsStr(v, "ID:") {
		t.Error("expected detail view with ID field")
	}
	if !containsStr(v, "2026-08-18-class-balance") {
		t.Error("expected slide id in detail view")
	}
	if !containsStr(v, "Data Exploration") {
		t.Error("expected topic name in detail view")
	}
	if !containsStr(v, "Classes are roughly balanced.") {
		t.Error("expected caption in detail view")
	}
	if !containsStr(v, "Notes:") {
		t.Error("expected notes section in detail view")
	}

	// Press esc to go back.
	b = sendSpecialKey(b, tea.KeyEsc)
	v = b.View()

	if !containsStr(v, "Results") {
		t.Error("expected to return to the topics view")
	}
}

func TestBrowser_EnterOnEmptyColumnIsNoop(t *testing.T) {
	b, _ := setupTestBrowser(t)

	// Move to the modeling column (empty) and press enter.
	b = sendKey(b, "l")
	b = sendKey(b, "enter")
	v := b.View()

	// Still on the topics view.
	if !containsStr(v, "Modeling (0)") {
		t.Error("expected to stay on topics view when column is empty")
	}
}

func TestBrowser_HelpView(t *testing.T) {
	b, _ := setupTestBrowser(t)

	b = sendKey(b, "?")
	v := b.View()

	if !containsStr(v, "Keyboard Shortcuts") {
		t.Error("expected help view")
	}
	if !containsStr(v, "Rebuild deck documents") {
		t.Error("expected rebuild shortcut in help view")
	}

	// Any key should close help.
	b = sendKey(b, "q")
	v = b.View()

	if containsStr(v, "Keyboard Shortcuts") {
		t.Error("expected help view to close")
	}
}

func TestBrowser_Reload(t *testing.T) {
	b, dir := setupTestBrowser(t)

	// Add a slide externally.
	reg, err := registry.Load(dir)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	err = reg.AddSlide(registry.Slide{
		ID:      "2026-08-22-external-figure",
		Topic:   "modeling",
		Title:   "External Figure",
		Created: "2026-08-22",
	})
	if err != nil {
		t.Fatalf("adding slide: %v", err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("saving registry: %v", err)
	}

	// Press r to reload.
	b = sendKey(b, "r")
	v := b.View()

	if !containsStr(v, "External Figure") {
		t.Error("expected External Figure in view after reload")
	}
}

func TestBrowser_ReloadMsg(t *testing.T) {
	b, dir := setupTestBrowser(t)

	reg, err := registry.Load(dir)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	err = reg.AddSlide(registry.Slide{
		ID:      "2026-08-22-watched-change",
		Topic:   "modeling",
		Title:   "Watched Change",
		Created: "2026-08-22",
	})
	if err != nil {
		t.Fatalf("adding slide: %v", err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("saving registry: %v", err)
	}

	// The file watcher delivers a ReloadMsg through the program.
	m, _ := b.Update(tui.ReloadMsg{})
	b = m.(*tui.Browser)

	if !containsStr(b.View(), "Watched Change") {
		t.Error("expected Watched Change in view after ReloadMsg")
	}
}

func TestBrowser_RebuildWritesDeckFiles(t *testing.T) {
	b, dir := setupTestBrowser(t)

	b = sendKey(b, "b")
	v := b.View()

	if !containsStr(v, "Built 4 slides across 3 topics") {
		t.Error("expected build notice in status area")
	}

	for _, name := range []string{deck.SlidesFileName, deck.RecentFileName, deck.StylesFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist after rebuild: %v", name, err)
		}
	}
}

func TestBrowser_StatusBarShowsDeckTitle(t *testing.T) {
	b, _ := setupTestBrowser(t)
	v := b.View()

	if !containsStr(v, "Test Deck") {
		t.Error("expected deck title in status bar")
	}
	if !containsStr(v, "4 slides") {
		t.Error("expected slide count in status bar")
	}
}

// addLongContentToSlide rewrites a slide's content with many lines.
func addLongContentToSlide(t *testing.T, dir, slideID string, lineCount int) {
	t.Helper()
	reg, err := registry.Load(dir)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}
	s := reg.SlideByID(slideID)
	if s == nil {
		t.Fatalf("slide %q not found", slideID)
	}
	var lines []string
	for i := 1; i <= lineCount; i++ {
		lines = append(lines, fmt.Sprintf("Content line %d of the walkthrough", i))
	}
	s.Content = strings.Join(lines, "\n")
	if err := reg.Save(); err != nil {
		t.Fatalf("saving registry: %v", err)
	}
}

func TestBrowser_DetailStartsAtTop(t *testing.T) {
	b, dir := setupTestBrowser(t)
	addLongContentToSlide(t, dir, "2026-08-18-class-balance", 50)

	b = sendKey(b, "r")
	b = sendKey(b, "enter")
	v := b.View()

	if !containsStr(v, "Class Balance") {
		t.Error("expected slide title at top of detail view")
	}
	if !containsStr(v, "Content line 1 of") {
		t.Error("expected first content line visible")
	}
}

func TestBrowser_DetailFitsTerminal(t *testing.T) {
	b, dir := setupTestBrowser(t)
	addLongContentToSlide(t, dir, "2026-08-18-class-balance", 50)

	b = sendKey(b, "r")
	b = sendKey(b, "enter")
	v := b.View()

	lines := strings.Split(v, "\n")
	if len(lines) > 40 {
		t.Errorf("detail view has %d lines, exceeds terminal height 40", len(lines))
	}
}

func TestBrowser_DetailScroll(t *testing.T) {
	b, dir := setupTestBrowser(t)
	addLongContentToSlide(t, dir, "2026-08-18-class-balance", 50)

	b = sendKey(b, "r")
	b = sendKey(b, "enter")

	// Scroll down: the title line leaves the viewport.
	b = sendKey(b, "j")
	if containsStr(b.View(), "Class Balance") {
		t.Error("expected title scrolled out of view after j")
	}

	// G jumps to the bottom.
	b = sendKey(b, "G")
	if !containsStr(b.View(), "Content line 50 of") {
		t.Error("expected last content line visible after G")
	}

	// g jumps back to the top.
	b = sendKey(b, "g")
	if !containsStr(b.View(), "Class Balance") {
		t.Error("expected title visible again after g")
	}
}

func TestBrowser_ScrollIndicators(t *testing.T) {
	dir := t.TempDir()
	reg := registry.NewDefault("Tall Deck")
	reg.SetDir(dir)
	for i := 1; i <= 12; i++ {
		err := reg.AddSlide(registry.Slide{
			ID:      fmt.Sprintf("2026-08-%02d-epoch-summary-%d", i, i),
			Topic:   "results",
			Title:   fmt.Sprintf("Epoch Summary %d", i),
			Created: fmt.Sprintf("2026-08-%02d", i),
		})
		if err != nil {
			t.Fatalf("adding slide: %v", err)
		}
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("saving registry: %v", err)
	}

	loaded, err := registry.Load(dir)
	if err != nil {
		t.Fatalf("loading registry: %v", err)
	}

	b := tui.New(loaded)
	// Short terminal: 12 cards cannot all fit.
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 20})

	// Move to the results column.
	b = sendKey(b, "l")
	b = sendKey(b, "l")

	v := b.View()
	if !containsStr(v, "more") {
		t.Error("expected scroll indicator for overflowing column")
	}

	// Scroll to the bottom; the up indicator appears.
	for i := 0; i < 11; i++ {
		b = sendKey(b, "j")
	}
	v = b.View()
	if !containsStr(v, "↑") {
		t.Error("expected up indicator after scrolling down")
	}
	if !containsStr(v, "Epoch Summary 12") {
		t.Error("expected last card visible after scrolling down")
	}
}

func TestBrowser_WatchPaths(t *testing.T) {
	b, dir := setupTestBrowser(t)

	paths := b.WatchPaths()
	if len(paths) == 0 {
		t.Fatal("expected at least one watch path")
	}
	if paths[0] != dir {
		t.Errorf("expected deck dir %q in watch paths, got %q", dir, paths[0])
	}
}

func containsStr(haystack, needle string) bool {
	return len(haystack) > 0 && len(needle) > 0 &&
		haystack != needle && // avoid trivial match
		findSubstring(haystack, needle)
}

func findSubstring(s, sub string) bool {
	for i := 0; i <= len(s)-len(sub); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
