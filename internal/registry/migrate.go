package registry

// migrate upgrades legacy registry fields in place. Early registries used
// a description field where caption lives now; the value moves forward on
// load and the legacy field disappears on the next save.
func migrate(r *Registry) {
	for i := range r.Slides {
		s := &r.Slides[i]
		if s.Caption == "" && s.Description != "" {
			s.Caption = s.Description
		}
		s.Description = ""
	}
}
