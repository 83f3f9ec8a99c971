// Package cmd implements the slidedeck CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/filelock"
	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/registry"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "slidedeck",
	Short: "A YAML-backed slide deck generator for research figures",
	Long: `slidedeck maintains a registry of presentation slides in a single
slides.yaml file and regenerates Quarto markdown documents from it.
Figures live next to the registry; history and comparison features
read straight from git.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to deck directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// SilentError exits with its code and no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("SLIDEDECK_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown errors are reported as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// deckDir resolves the deck directory from --dir or by walking upward
// from the working directory looking for slides.yaml.
func deckDir() (string, error) {
	if flagDir != "" {
		return filepath.Abs(flagDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	return registry.FindDir(cwd)
}

// loadRegistry finds and loads the slide registry.
func loadRegistry() (*registry.Registry, error) {
	dir, err := deckDir()
	if err != nil {
		return nil, err
	}
	return loadRegistryFrom(dir)
}

// loadRegistryFrom loads the registry in dir, mapping the registry
// sentinels to coded CLI errors.
func loadRegistryFrom(dir string) (*registry.Registry, error) {
	reg, err := registry.Load(dir)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, clierr.New(clierr.RegistryNotFound, err.Error())
		}
		if errors.Is(err, registry.ErrInvalid) {
			return nil, clierr.New(clierr.MalformedRegistry, err.Error())
		}
		return nil, err
	}
	return reg, nil
}

// lockDeck takes the registry mutation lock for dir. Mutating commands
// hold it across their load-modify-save cycle.
func lockDeck(dir string) (func() error, error) {
	release, err := filelock.Lock(filepath.Join(dir, registry.LockFileName))
	if err != nil {
		return nil, fmt.Errorf("locking registry: %w", err)
	}
	return release, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes build warnings to stderr.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

// resolveTopic picks the slide topic: an explicit flag wins, otherwise
// the topic is inferred from the figure path. The result must name a
// declared topic.
func resolveTopic(reg *registry.Registry, explicit, inferred string) (string, error) {
	topic := explicit
	if topic == "" {
		topic = inferred
	}
	if topic == "" {
		return "", clierr.New(clierr.AmbiguousTopic,
			"cannot infer topic (use --topic or place the figure under figures/<topic>/)")
	}
	if reg.TopicByID(topic) == nil {
		return "", clierr.Newf(clierr.UnknownTopic, "unknown topic %q", topic).
			WithDetails(map[string]any{"topic": topic, "known": reg.TopicIDs()})
	}
	return topic, nil
}
