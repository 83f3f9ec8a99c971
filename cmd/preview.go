package cmd

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/deck"
	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/quarto"
	"github.com/avolkov/slidedeck/internal/registry"
	"github.com/avolkov/slidedeck/internal/watcher"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Build the deck and open it in quarto preview",
	Long: `Builds the deck, then runs 'quarto preview' in the deck directory.
While the preview server runs, edits to slides.yaml trigger a rebuild.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntP("recent-count", "n", deck.DefaultRecentCount, "slides shown in the recent view")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	recentCount, _ := cmd.Flags().GetInt("recent-count")
	if recentCount < 0 {
		return clierr.Newf(clierr.InvalidInput, "recent count must not be negative, got %d", recentCount)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	res, err := deck.Build(reg, recentCount)
	if err != nil {
		return err
	}
	printWarnings(res.Warnings)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go watchRegistry(ctx, newPreviewRebuilder(reg.Dir(), recentCount))

	output.Messagef(os.Stdout, "Starting quarto preview in %s (Ctrl+C to stop)", reg.Dir())
	if err := quarto.Preview(ctx, quarto.ExecRunner{}, reg.Dir()); err != nil {
		if errors.Is(err, quarto.ErrUnavailable) {
			return clierr.New(clierr.RendererUnavailable,
				"quarto is not available (install it from https://quarto.org to use preview)")
		}
		return err
	}
	return nil
}

// watchRegistry rebuilds the deck while the preview server runs. The deck
// directory is watched rather than the registry file: atomic saves replace
// the file by rename, which would orphan a file-level watch.
func watchRegistry(ctx context.Context, r *previewRebuilder) {
	w, err := watcher.New([]string{r.dir}, r.rebuild)
	if err != nil {
		// non-fatal: preview works without live rebuild
		return
	}
	defer w.Close()
	w.Run(ctx, nil)
}

// previewRebuilder rebuilds only when the registry content actually
// changed. Builds write into the watched directory, so rebuilding on
// every event would loop forever.
type previewRebuilder struct {
	dir         string
	recentCount int
	lastSum     [sha256.Size]byte
}

func newPreviewRebuilder(dir string, recentCount int) *previewRebuilder {
	r := &previewRebuilder{dir: dir, recentCount: recentCount}
	if data, err := os.ReadFile(filepath.Join(dir, registry.FileName)); err == nil { //nolint:gosec // deck dir resolved by us
		r.lastSum = sha256.Sum256(data)
	}
	return r
}

func (r *previewRebuilder) rebuild() {
	data, err := os.ReadFile(filepath.Join(r.dir, registry.FileName)) //nolint:gosec // deck dir resolved by us
	if err != nil {
		return
	}
	sum := sha256.Sum256(data)
	if sum == r.lastSum {
		return
	}
	r.lastSum = sum

	reg, err := loadRegistryFrom(r.dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: rebuild skipped: %v\n", err)
		return
	}
	res, err := deck.Build(reg, r.recentCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: rebuild failed: %v\n", err)
		return
	}
	printWarnings(res.Warnings)
	fmt.Fprintf(os.Stderr, "Registry changed; rebuilt %d slides\n", res.SlideCount)
}
