package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/avolkov/slidedeck/internal/clierr"
)

// tempPrefix is the prefix used for temporary atomic write files.
const tempPrefix = ".slides-"

// Load reads, migrates, and validates the registry in the given deck
// directory.
func Load(dir string) (*Registry, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, FileName)
	data, err := os.ReadFile(path) //nolint:gosec // registry path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalid, FileName, err)
	}

	reg.dir = absDir

	// Migrate legacy fields forward before validating.
	migrate(&reg)

	if err := reg.Validate(); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Save writes the registry to its file atomically: the content goes to a
// temp file in the same directory which is fsynced and renamed over the
// target, so a crash never leaves a partially written registry.
func (r *Registry) Save() error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	return writeFileAtomic(r.Path(), data, fileMode)
}

func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", filename, err)
	}
	return nil
}

// FindDir walks upward from startDir looking for a directory containing
// slides.yaml. Returns the absolute path to the deck directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.RegistryNotFound,
				"no slide registry found (run 'slidedeck init' to create one)")
		}
		dir = parent
	}
}
