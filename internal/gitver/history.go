package gitver

import (
	"errors"
	"path/filepath"
	"strings"
)

// Entry is one commit that touched a file, as reported by git log.
type Entry struct {
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// Abbrev returns the abbreviated commit hash.
func (e Entry) Abbrev() string {
	if len(e.Commit) > 8 {
		return e.Commit[:8]
	}
	return e.Commit
}

// History returns the commits that modified path, newest first, following
// renames. A git failure (untracked file, not a repository) yields an
// empty history; only a missing git binary is an error.
func (c *Client) History(path string) ([]Entry, error) {
	out, err := c.runner.Run("log", "--format=%H|%ai|%s", "--follow", "--", path)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, nil
	}

	var history []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		history = append(history, Entry{Commit: parts[0], Date: parts[1], Message: parts[2]})
	}
	return history, nil
}

// Show returns the contents of path as of the given commit. Relative
// paths are resolved against the client's working directory rather than
// the repository root.
func (c *Client) Show(commit, path string) ([]byte, error) {
	spec := filepath.ToSlash(path)
	if !filepath.IsAbs(path) && !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		spec = "./" + spec
	}
	return c.runner.Run("show", commit+":"+spec)
}
