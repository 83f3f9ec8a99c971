package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avolkov/slidedeck/internal/clierr"
	"github.com/avolkov/slidedeck/internal/gitver"
	"github.com/avolkov/slidedeck/internal/output"
	"github.com/avolkov/slidedeck/internal/registry"
	"github.com/avolkov/slidedeck/internal/scaffold"
)

const deckDirMode = 0o750

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new slide deck project",
	Long: `Creates slides.yaml with the default topics, one figures/<topic>/
directory per topic, a README, and a .gitignore for generated artifacts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "deck title (default: "+registry.DefaultTitle+")")
	initCmd.Flags().Bool("git", false, "initialize a git repository in the deck directory")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	switch {
	case len(args) > 0:
		dir = args[0]
	case flagDir != "":
		dir = flagDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, registry.FileName)); err == nil {
		return clierr.Newf(clierr.InvalidInput,
			"deck already initialized: %s exists", filepath.Join(dir, registry.FileName))
	}

	if err := os.MkdirAll(absDir, deckDirMode); err != nil {
		return fmt.Errorf("creating deck directory: %w", err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = registry.DefaultTitle
	}

	reg := registry.NewDefault(name)
	reg.SetDir(absDir)
	if err := reg.Save(); err != nil {
		return err
	}

	if err := scaffold.Install(absDir, scaffold.Data{Title: name, Topics: reg.TopicIDs()}); err != nil {
		return err
	}

	if gitInit, _ := cmd.Flags().GetBool("git"); gitInit {
		if err := gitver.NewClient(absDir).Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: git init failed: %v\n", err)
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status": "initialized",
			"dir":    absDir,
			"title":  name,
			"topics": reg.TopicIDs(),
		})
	}

	output.Messagef(os.Stdout, "Initialized deck in %s", absDir)
	output.Messagef(os.Stdout, "  Registry: %s", registry.FileName)
	output.Messagef(os.Stdout, "  Topics: %s", strings.Join(reg.TopicIDs(), ", "))
	output.Messagef(os.Stdout, "\nRegister a figure with 'slidedeck add figures/<topic>/plot.png'.")
	return nil
}
