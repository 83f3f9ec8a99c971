package registry

import "strings"

// FilterOptions defines which slides to include.
type FilterOptions struct {
	Topic  string
	Tag    string
	Search string // case-insensitive substring match across title, caption, and tags
}

// Filter returns slides matching all specified criteria (AND logic),
// preserving registry order.
func Filter(slides []Slide, opts FilterOptions) []Slide {
	var result []Slide
	for _, s := range slides {
		if matchesFilter(s, opts) {
			result = append(result, s)
		}
	}
	return result
}

func matchesFilter(s Slide, opts FilterOptions) bool {
	if opts.Topic != "" && s.Topic != opts.Topic {
		return false
	}
	if opts.Tag != "" && !containsStr(s.Tags, opts.Tag) {
		return false
	}
	if opts.Search != "" && !matchesSearch(s, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(s Slide, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Caption), q) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
