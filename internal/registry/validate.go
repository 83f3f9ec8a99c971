package registry

import "fmt"

// Validate checks the registry for structural errors. Slides referencing
// undeclared topics or carrying unparseable created dates are not errors
// here: build still works with them and `slidedeck check` reports them.
func (r *Registry) Validate() error {
	if err := r.validateTopics(); err != nil {
		return err
	}
	return r.validateSlides()
}

func (r *Registry) validateTopics() error {
	seen := make(map[string]bool, len(r.Topics))
	for _, t := range r.Topics {
		if t.ID == "" {
			return fmt.Errorf("%w: topic id is required", ErrInvalid)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate topic id %q", ErrInvalid, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func (r *Registry) validateSlides() error {
	seen := make(map[string]bool, len(r.Slides))
	for i, s := range r.Slides {
		if s.ID == "" {
			return fmt.Errorf("%w: slide %d is missing an id", ErrInvalid, i+1)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate slide id %q", ErrInvalid, s.ID)
		}
		seen[s.ID] = true
		if s.Title == "" {
			return fmt.Errorf("%w: slide %q is missing a title", ErrInvalid, s.ID)
		}
		if s.Created == "" {
			return fmt.Errorf("%w: slide %q is missing a created date", ErrInvalid, s.ID)
		}
	}
	return nil
}
