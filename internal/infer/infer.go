// Package infer derives slide fields from figure paths: the topic from the
// directory layout, the title from the filename, and the slide id from the
// title and creation date.
package infer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
)

// TopicFromPath infers the topic from a figure path laid out as
// figures/<topic>/<file>. Returns "" when the path does not follow that
// layout. Deeper nesting keeps the first directory under figures as the
// topic.
func TopicFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	for i, p := range parts {
		if p != "figures" {
			continue
		}
		// The topic segment must be followed by at least a filename.
		if i+1 < len(parts)-1 {
			return parts[i+1]
		}
		return ""
	}
	return ""
}

// TitleFromFilename infers a display title from the filename stem:
// underscores and hyphens become spaces and each word is capitalized.
// "loss_curve_v2.png" becomes "Loss Curve V2".
func TitleFromFilename(path string) string {
	stem := filepath.Base(path)
	if ext := filepath.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")

	words := strings.Fields(stem)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

// SlideID builds a slide id from the creation date and a normalized form
// of the title, e.g. "2026-08-22-loss-curve". Uniqueness against the
// registry is the caller's concern.
func SlideID(title, created string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		normalized = "slide"
	}
	return fmt.Sprintf("%s-%s", created, normalized)
}

// ParseTags splits a comma-separated tag list, trimming whitespace and
// dropping empty entries. Order is preserved.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
