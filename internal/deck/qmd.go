package deck

import (
	"sort"
	"strings"

	"github.com/avolkov/slidedeck/internal/registry"
)

// unknownTopicOrder sorts topics referenced by slides but not declared in
// the registry after all ordered topics.
const unknownTopicOrder = 999

// SlidesQMD renders the full deck: slides grouped into topic sections,
// topics ascending by their order field (ties by id), slides within a
// topic in registry file order.
func SlidesQMD(reg *registry.Registry) string {
	title := reg.Title
	if title == "" {
		title = registry.DefaultTitle
	}
	lines := []string{
		"---",
		`title: "` + title + `"`,
		"format:",
		"  revealjs:",
		"    theme: default",
		"    slide-number: true",
		"    fig-cap-location: bottom",
		"    margin: 0.05",
		"    scrollable: true",
		"css: styles.css",
		"---",
		"",
	}

	if len(reg.Slides) == 0 {
		lines = append(lines,
			"# Welcome",
			"",
			"No figures added yet.",
			"",
			"Run `slidedeck add` to add your first figure.",
		)
		return strings.Join(lines, "\n")
	}

	for _, g := range groupByTopic(reg) {
		lines = append(lines,
			"# "+g.name+" {#"+g.anchor+"}",
			"",
		)
		for _, s := range g.slides {
			lines = append(lines,
				"## "+s.Title+" {#"+s.ID+"}",
				"",
			)
			lines = renderSlide(s, lines)
		}
	}

	return strings.Join(lines, "\n")
}

// RecentQMD renders the count most recently created slides, newest first,
// without topic grouping. Slides created on the same date keep later
// registry entries first.
func RecentQMD(reg *registry.Registry, count int) string {
	lines := []string{
		"---",
		`title: "Recent Figures"`,
		"format:",
		"  revealjs:",
		"    theme: default",
		"    slide-number: true",
		"    fig-cap-location: bottom",
		"css: styles.css",
		"---",
		"",
	}

	if len(reg.Slides) == 0 {
		lines = append(lines,
			"# Recent Figures",
			"",
			"No figures added yet.",
			"",
			"Run `slidedeck add` to add your first figure.",
		)
		return strings.Join(lines, "\n")
	}

	for _, s := range recentSlides(reg.Slides, count) {
		lines = append(lines,
			"## "+s.Title,
			"",
		)
		lines = renderSlide(s, lines)
	}

	return strings.Join(lines, "\n")
}

// recentSlides sorts by created date descending and takes the first count.
// Ties on the date are broken by registry position, later entries first.
func recentSlides(slides []registry.Slide, count int) []registry.Slide {
	idx := make([]int, len(slides))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		sa, sb := slides[idx[a]], slides[idx[b]]
		if sa.Created != sb.Created {
			return sa.Created > sb.Created
		}
		return idx[a] > idx[b]
	})

	if count > len(idx) {
		count = len(idx)
	}
	out := make([]registry.Slide, count)
	for i := range count {
		out[i] = slides[idx[i]]
	}
	return out
}

type group struct {
	id     string
	name   string
	anchor string
	slides []registry.Slide
}

// groupByTopic buckets slides by topic id, preserving registry order
// within each bucket, and orders the buckets by the topic order field.
// Topics that appear on slides without being declared get a display name
// derived from the id and sort last.
func groupByTopic(reg *registry.Registry) []group {
	buckets := make(map[string][]registry.Slide)
	var ids []string
	for _, s := range reg.Slides {
		if _, ok := buckets[s.Topic]; !ok {
			ids = append(ids, s.Topic)
		}
		buckets[s.Topic] = append(buckets[s.Topic], s)
	}

	sort.Slice(ids, func(a, b int) bool {
		oa, ob := TopicOrder(reg, ids[a]), TopicOrder(reg, ids[b])
		if oa != ob {
			return oa < ob
		}
		return ids[a] < ids[b]
	})

	groups := make([]group, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, group{
			id:     id,
			name:   TopicName(reg, id),
			anchor: topicAnchor(id),
			slides: buckets[id],
		})
	}
	return groups
}

// topicAnchor derives the section anchor from the topic id, mapping
// underscores to hyphens.
func topicAnchor(id string) string {
	if id == "" {
		return "unassigned"
	}
	return strings.ReplaceAll(id, "_", "-")
}

// TopicOrder returns the declared order for a topic id, or a large
// fallback that sorts undeclared topics after all declared ones.
func TopicOrder(reg *registry.Registry, id string) int {
	if t := reg.TopicByID(id); t != nil {
		return t.Order
	}
	return unknownTopicOrder
}

// TopicName returns the display name for a topic id: the declared name
// when present, a titleized form of the id otherwise.
func TopicName(reg *registry.Registry, id string) string {
	if t := reg.TopicByID(id); t != nil && t.Name != "" {
		return t.Name
	}
	if id == "" {
		return "Unassigned"
	}
	return titleize(id)
}

// titleize turns a topic id like "data_exploration" into "Data Exploration".
func titleize(id string) string {
	id = strings.ReplaceAll(id, "_", " ")
	id = strings.ReplaceAll(id, "-", " ")
	words := strings.Fields(id)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// renderSlide appends the slide body: figure with optional caption block,
// raw markdown content, speaker notes.
func renderSlide(s registry.Slide, lines []string) []string {
	if s.Figure != "" {
		lines = append(lines,
			"![]("+s.Figure+")",
			"",
		)
		if caption := strings.TrimRight(s.Caption, " \t\r\n"); caption != "" {
			lines = append(lines,
				"::: {.caption}",
				caption,
				":::",
				"",
			)
		}
	}

	if content := strings.TrimRight(s.Content, " \t\r\n"); content != "" {
		lines = append(lines,
			content,
			"",
		)
	}

	if s.Notes != "" {
		lines = append(lines,
			"::: {.notes}",
			s.Notes,
			":::",
			"",
		)
	}

	return lines
}
