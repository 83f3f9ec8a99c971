package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/registry"
)

// setupDeckForCheck builds a deck whose registry has one of every kind
// of finding: an unknown topic, a duplicated figure, a missing figure
// file, a slide with neither figure nor content, and an unparseable
// created date.
func setupDeckForCheck(t *testing.T) string {
	t.Helper()
	dir := setupDeck(t)

	reg, err := registry.Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	figDir := filepath.Join(dir, "figures", "results")
	if err := os.MkdirAll(figDir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(figDir, "present.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	slides := []registry.Slide{
		{ID: "s1", Topic: "results", Title: "Present", Figure: "figures/results/present.png", Created: "2026-08-01"},
		{ID: "s2", Topic: "appendix", Title: "Unknown Topic", Content: "text", Created: "2026-08-02"},
		{ID: "s3", Topic: "results", Title: "Duplicate", Figure: "figures/results/present.png", Created: "2026-08-03"},
		{ID: "s4", Topic: "modeling", Title: "Missing File", Figure: "figures/modeling/gone.png", Created: "2026-08-04"},
		{ID: "s5", Topic: "modeling", Title: "Empty", Created: "2026-08-05"},
		{ID: "s6", Topic: "results", Title: "Odd Date", Content: "text", Created: "mid-August"},
	}
	for _, s := range slides {
		if err := reg.AddSlide(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Save(); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunCheck_CleanRegistry(t *testing.T) {
	dir := setupDeck(t)

	setDeckDir(t, dir)
	setFlags(t, false, true, false)
	r, w := captureStdout(t)

	err := runCheck(nil, nil)

	got := drainPipe(t, r, w)

	if err != nil {
		t.Fatalf("runCheck error: %v", err)
	}
	if !containsSubstring(got, "Registry OK") {
		t.Errorf("expected OK message, got: %s", got)
	}
}

func TestRunCheck_ProblemsExitNonZero(t *testing.T) {
	dir := setupDeckForCheck(t)

	setDeckDir(t, dir)
	setFlags(t, false, true, false)
	r, w := captureStdout(t)

	err := runCheck(nil, nil)

	got := drainPipe(t, r, w)

	if err == nil {
		t.Fatal("expected error when problems exist")
	}
	var silent *clierr.SilentError
	if !errors.As(err, &silent) {
		t.Fatalf("expected SilentError, got %T", err)
	}
	if silent.Code != 1 {
		t.Errorf("exit code = %d, want 1", silent.Code)
	}

	if !containsSubstring(got, `unknown topic "appendix"`) {
		t.Errorf("expected unknown topic problem, got: %s", got)
	}
	if !containsSubstring(got, "registered by both") {
		t.Errorf("expected duplicate figure problem, got: %s", got)
	}
	if !containsSubstring(got, "figures/modeling/gone.png not found") {
		t.Errorf("expected missing file warning, got: %s", got)
	}
	if !containsSubstring(got, `"s5" has neither figure nor content`) {
		t.Errorf("expected empty slide warning, got: %s", got)
	}
	if !containsSubstring(got, `unparseable created date "mid-August"`) {
		t.Errorf("expected date warning, got: %s", got)
	}
	if !containsSubstring(got, "2 problem(s), 3 warning(s)") {
		t.Errorf("expected problem count, got: %s", got)
	}
}

func TestRunCheck_WarningsAloneExitZero(t *testing.T) {
	dir := setupDeck(t)
	reg, err := registry.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.AddSlide(registry.Slide{
		ID: "s1", Topic: "results", Title: "Empty", Created: "2026-08-01",
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Save(); err != nil {
		t.Fatal(err)
	}

	setDeckDir(t, dir)
	setFlags(t, false, true, false)
	r, w := captureStdout(t)

	checkErr := runCheck(nil, nil)

	got := drainPipe(t, r, w)

	if checkErr != nil {
		t.Fatalf("warnings alone should not fail the command: %v", checkErr)
	}
	if !containsSubstring(got, "0 problem(s), 1 warning(s)") {
		t.Errorf("expected counts line, got: %s", got)
	}
}

func TestRunCheck_JSONOutput(t *testing.T) {
	dir := setupDeckForCheck(t)

	setDeckDir(t, dir)
	setFlags(t, true, false, false)
	r, w := captureStdout(t)

	err := runCheck(nil, nil)

	got := drainPipe(t, r, w)

	var silent *clierr.SilentError
	if !errors.As(err, &silent) {
		t.Fatalf("expected SilentError, got %T", err)
	}

	if !containsSubstring(got, `"problems"`) {
		t.Errorf("expected problems array in JSON, got: %s", got)
	}
	if !containsSubstring(got, `"slides": 6`) {
		t.Errorf("expected slide count in JSON, got: %s", got)
	}
}
