package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const fileMode = 0o600

// DateLayout is the format of the Slide.Created field.
const DateLayout = "2006-01-02"

// Sentinel errors.
var (
	ErrNotFound = errors.New("no slide registry found (run 'slidedeck init' to create one)")
	ErrInvalid  = errors.New("invalid registry")
)

// Registry is the deck's slide registry: deck metadata plus the ordered
// topic and slide lists. The order of slides in the file is the
// presentation order within each topic; the tool never reorders entries.
type Registry struct {
	Title  string  `yaml:"title,omitempty"`
	Topics []Topic `yaml:"topics"`
	Slides []Slide `yaml:"slides"`

	// dir is the absolute path to the deck directory (not serialized).
	dir string `yaml:"-"`
}

// Topic groups slides into a titled section of the deck.
type Topic struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name,omitempty" json:"name"`
	Order int    `yaml:"order" json:"order"`
}

// Slide is a single registry entry. Figure paths are relative to the deck
// directory.
type Slide struct {
	ID      string   `yaml:"id" json:"id"`
	Topic   string   `yaml:"topic,omitempty" json:"topic,omitempty"`
	Title   string   `yaml:"title" json:"title"`
	Figure  string   `yaml:"figure,omitempty" json:"figure,omitempty"`
	Caption string   `yaml:"caption,omitempty" json:"caption,omitempty"`
	Content string   `yaml:"content,omitempty" json:"content,omitempty"`
	Notes   string   `yaml:"notes,omitempty" json:"notes,omitempty"`
	Created string   `yaml:"created" json:"created"`
	Tags    []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// Description is a legacy alias for Caption, migrated forward on load
	// and dropped on the next save.
	Description string `yaml:"description,omitempty" json:"-"`
}

// CreatedTime parses the slide's created date.
func (s *Slide) CreatedTime() (time.Time, error) {
	return time.Parse(DateLayout, s.Created)
}

// Dir returns the absolute path to the deck directory.
func (r *Registry) Dir() string {
	return r.dir
}

// SetDir sets the deck directory path on the registry.
func (r *Registry) SetDir(dir string) {
	r.dir = dir
}

// Path returns the absolute path to the registry file.
func (r *Registry) Path() string {
	return filepath.Join(r.dir, FileName)
}

// FiguresPath returns the absolute path to the figures directory.
func (r *Registry) FiguresPath() string {
	return filepath.Join(r.dir, FiguresDir)
}

// LockPath returns the lock file guarding mutations of this registry.
func (r *Registry) LockPath() string {
	return filepath.Join(r.dir, LockFileName)
}

// NewDefault creates a Registry with the default topic set and no slides.
func NewDefault(title string) *Registry {
	return &Registry{
		Title:  title,
		Topics: append([]Topic{}, DefaultTopics...),
		Slides: []Slide{},
	}
}

// TopicByID returns the topic with the given id, or nil.
func (r *Registry) TopicByID(id string) *Topic {
	for i := range r.Topics {
		if r.Topics[i].ID == id {
			return &r.Topics[i]
		}
	}
	return nil
}

// TopicIDs returns the declared topic ids in file order.
func (r *Registry) TopicIDs() []string {
	ids := make([]string, len(r.Topics))
	for i, t := range r.Topics {
		ids[i] = t.ID
	}
	return ids
}

// SlideByID returns the slide with the given id, or nil.
func (r *Registry) SlideByID(id string) *Slide {
	for i := range r.Slides {
		if r.Slides[i].ID == id {
			return &r.Slides[i]
		}
	}
	return nil
}

// SlideByFigure returns the first slide whose figure matches the given
// path (slash-normalized), or nil.
func (r *Registry) SlideByFigure(path string) *Slide {
	want := filepath.ToSlash(filepath.Clean(path))
	for i := range r.Slides {
		if r.Slides[i].Figure == "" {
			continue
		}
		if filepath.ToSlash(filepath.Clean(r.Slides[i].Figure)) == want {
			return &r.Slides[i]
		}
	}
	return nil
}

// UniqueID returns base if no slide uses it, otherwise base with the first
// free numeric suffix appended (-2, -3, ...).
func (r *Registry) UniqueID(base string) string {
	if r.SlideByID(base) == nil {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if r.SlideByID(candidate) == nil {
			return candidate
		}
	}
}

// AddSlide appends a slide to the registry. The slide id must be unique.
func (r *Registry) AddSlide(s Slide) error {
	if s.ID == "" {
		return fmt.Errorf("%w: slide id is required", ErrInvalid)
	}
	if r.SlideByID(s.ID) != nil {
		return fmt.Errorf("%w: duplicate slide id %q", ErrInvalid, s.ID)
	}
	r.Slides = append(r.Slides, s)
	return nil
}

// CountByTopic returns the number of slides per topic id. Slides without a
// topic count under the empty key.
func (r *Registry) CountByTopic() map[string]int {
	counts := make(map[string]int, len(r.Topics))
	for _, s := range r.Slides {
		counts[s.Topic]++
	}
	return counts
}
