// Package registry handles the slide registry file.
package registry

// DefaultTitle is the deck title used when the registry does not set one.
var DefaultTitle = "Research Figures"

// DefaultTopics are the topics seeded into a new deck.
var DefaultTopics = []Topic{
	{ID: "data_exploration", Name: "Data Exploration", Order: 1},
	{ID: "modeling", Name: "Modeling", Order: 2},
	{ID: "results", Name: "Results", Order: 3},
}

const (
	// FileName is the name of the registry file within the deck directory.
	FileName = "slides.yaml"

	// FiguresDir is the directory figures live in, one subdirectory per topic.
	FiguresDir = "figures"

	// LockFileName guards registry read-modify-write cycles across processes.
	LockFileName = ".slides.lock"
)
