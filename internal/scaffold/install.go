package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Data carries the values rendered into the project templates.
type Data struct {
	// Title is the deck title shown in the README.
	Title string
	// Topics lists the topic ids that get figure directories.
	Topics []string
}

// Install writes the starter project files into dir: a README, a
// .gitignore for generated artifacts, and one figures/<topic>/ directory
// per topic. The registry file itself is written by the caller.
func Install(dir string, data Data) error {
	if err := writeTemplate(filepath.Join(dir, "README.md"), "templates/README.md.tmpl", data); err != nil {
		return err
	}
	if err := writeStatic(filepath.Join(dir, ".gitignore"), "templates/gitignore"); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, "figures"), dirMode); err != nil {
		return fmt.Errorf("creating figures directory: %w", err)
	}
	for _, topic := range data.Topics {
		keep := filepath.Join(dir, "figures", topic, ".gitkeep")
		if err := os.MkdirAll(filepath.Dir(keep), dirMode); err != nil {
			return fmt.Errorf("creating figures directory: %w", err)
		}
		if err := os.WriteFile(keep, nil, fileMode); err != nil {
			return fmt.Errorf("creating %s: %w", keep, err)
		}
	}

	return nil
}

func writeTemplate(dest, src string, data Data) error {
	tmpl, err := template.ParseFS(templatesFS, src)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", src, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", src, err)
	}

	return os.WriteFile(dest, buf.Bytes(), fileMode)
}

func writeStatic(dest, src string) error {
	content, err := templatesFS.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading embedded %s: %w", src, err)
	}
	return os.WriteFile(dest, content, fileMode)
}
