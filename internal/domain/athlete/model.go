package athlete

import (
	"net/url"
	"strings"
)

const placeholderHeadshotBase = "https://source.boringavatars.com/beam/96/"

// Athlete is a canonical roster entry for one season. Values are replaced
// wholesale on reload, never patched.
type Athlete struct {
	ID              string
	Name            string
	Position        string
	JerseyNumber    string
	Hometown        string
	HeadshotURL     string
	ExperienceClass string
	ProfileURL      string
}

// PlaceholderHeadshot returns a stable avatar URL derived from the name.
func PlaceholderHeadshot(name string) string {
	return placeholderHeadshotBase + url.PathEscape(strings.TrimSpace(name))
}

// Key identifies an athlete across sources: the upstream id when known,
// otherwise the case-folded name.
func (a Athlete) Key() string {
	if id := strings.TrimSpace(a.ID); id != "" {
		return "id:" + id
	}
	return "name:" + strings.ToLower(strings.TrimSpace(a.Name))
}

// MergeProfile fills position and class from another source for the same
// athlete. Values already present are kept.
func (a Athlete) MergeProfile(other Athlete) Athlete {
	if a.Position == "" {
		a.Position = other.Position
	}
	if a.ExperienceClass == "" {
		a.ExperienceClass = other.ExperienceClass
	}
	if a.JerseyNumber == "" {
		a.JerseyNumber = other.JerseyNumber
	}
	if a.Hometown == "" {
		a.Hometown = other.Hometown
	}
	return a
}

// Index maps athletes by id and by lowercased name for cross-source lookups.
type Index struct {
	byID   map[string]Athlete
	byName map[string]Athlete
}

func NewIndex(items []Athlete) Index {
	idx := Index{
		byID:   make(map[string]Athlete, len(items)),
		byName: make(map[string]Athlete, len(items)),
	}
	for _, item := range items {
		if id := strings.TrimSpace(item.ID); id != "" {
			idx.byID[id] = item
		}
		if name := strings.ToLower(strings.TrimSpace(item.Name)); name != "" {
			idx.byName[name] = item
		}
	}
	return idx
}

func (i Index) Lookup(id, name string) (Athlete, bool) {
	if a, ok := i.byID[strings.TrimSpace(id)]; ok && id != "" {
		return a, true
	}
	a, ok := i.byName[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}
