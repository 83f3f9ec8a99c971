// Package scaffold writes the starter files for a new slide deck project.
package scaffold

import "embed"

//go:embed templates
var templatesFS embed.FS
