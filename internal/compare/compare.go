// Package compare renders every historical version of a figure into a
// single standalone HTML page for visual diffing. Images are inlined as
// base64 so the page has no file dependencies.
package compare

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	mdhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/avolkov/slidedeck/internal/gitver"
	"github.com/avolkov/slidedeck/internal/registry"
)

// DefaultOutput is the comparison page written when no output is given.
const DefaultOutput = "comparison.html"

const outputMode = 0o644

// Version is one historical figure state ready for embedding.
type Version struct {
	Index   int
	Commit  string // abbreviated
	Date    string
	Message string
	MIME    string
	Data    string // base64 payload
}

// Generate extracts every version of figurePath named in history, writes
// the comparison page to outputPath, and returns how many versions were
// embedded. Blobs that fail to extract (renames beyond --follow's reach)
// are skipped rather than failing the page.
func Generate(client *gitver.Client, figurePath string, history []gitver.Entry, slide *registry.Slide, outputPath string) (int, error) {
	tempDir, err := os.MkdirTemp("", "slidedeck-compare-")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	versions := extract(client, figurePath, history, tempDir)
	page := HTML(figurePath, versions, slide)
	if err := os.WriteFile(outputPath, []byte(page), outputMode); err != nil {
		return 0, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return len(versions), nil
}

func extract(client *gitver.Client, figurePath string, history []gitver.Entry, tempDir string) []Version {
	var versions []Version
	for i, entry := range history {
		data, err := client.Show(entry.Commit, figurePath)
		if err != nil {
			continue
		}
		name := fmt.Sprintf("v%d_%s%s", i+1, entry.Abbrev(), filepath.Ext(figurePath))
		if err := os.WriteFile(filepath.Join(tempDir, name), data, outputMode); err != nil {
			continue
		}
		versions = append(versions, Version{
			Index:   i + 1,
			Commit:  entry.Abbrev(),
			Date:    entry.Date,
			Message: entry.Message,
			MIME:    mimeForPath(figurePath),
			Data:    base64.StdEncoding.EncodeToString(data),
		})
	}
	return versions
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// HTML renders the comparison page, newest version first. When the figure
// is registered, the slide's title and caption head the page, the caption
// rendered from markdown.
func HTML(figurePath string, versions []Version, slide *registry.Slide) string {
	var cards strings.Builder
	for _, v := range versions {
		fmt.Fprintf(&cards, `
        <div class="version-card">
            <h3>Version %d</h3>
            <p class="meta">
                <span class="commit">%s</span>
                <span class="date">%s</span>
            </p>
            <p class="message">%s</p>
            <img src="data:%s;base64,%s" alt="Version %d">
        </div>
        `,
			v.Index, html.EscapeString(v.Commit), html.EscapeString(v.Date),
			html.EscapeString(v.Message), v.MIME, v.Data, v.Index)
	}

	var header strings.Builder
	if slide != nil {
		fmt.Fprintf(&header, `    <p class="slide-title">%s</p>
`, html.EscapeString(slide.Title))
		if slide.Caption != "" {
			fmt.Fprintf(&header, `    <div class="slide-caption">
%s    </div>
`, captionHTML(slide.Caption))
		}
	}

	escaped := html.EscapeString(figurePath)
	return `<!DOCTYPE html>
<html>
<head>
    <title>Figure History: ` + escaped + `</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 1400px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        h1 {
            color: #333;
            border-bottom: 2px solid #007acc;
            padding-bottom: 10px;
        }
        .slide-title {
            font-size: 1.2em;
            font-weight: 600;
            color: #333;
        }
        .slide-caption {
            color: #555;
            margin-bottom: 10px;
        }
        .versions {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(400px, 1fr));
            gap: 20px;
        }
        .version-card {
            background: white;
            border-radius: 8px;
            padding: 15px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .version-card h3 {
            margin-top: 0;
            color: #007acc;
        }
        .meta {
            font-size: 0.9em;
            color: #666;
        }
        .commit {
            font-family: monospace;
            background: #f0f0f0;
            padding: 2px 6px;
            border-radius: 3px;
        }
        .date {
            margin-left: 10px;
        }
        .message {
            font-style: italic;
            color: #555;
        }
        .version-card img {
            max-width: 100%;
            border: 1px solid #ddd;
            border-radius: 4px;
        }
    </style>
</head>
<body>
    <h1>Figure History: ` + escaped + `</h1>
` + header.String() + `    <p>` + fmt.Sprint(len(versions)) + ` versions found (newest first)</p>
    <div class="versions">
        ` + cards.String() + `
    </div>
</body>
</html>
`
}

// captionHTML renders the caption markdown to HTML: GFM, auto heading
// ids, raw HTML passed through.
func captionHTML(caption string) string {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(mdhtml.WithUnsafe()),
	)
	var buf bytes.Buffer
	if err := engine.Convert([]byte(caption), &buf); err != nil {
		return "<p>" + html.EscapeString(caption) + "</p>\n"
	}
	return buf.String()
}
