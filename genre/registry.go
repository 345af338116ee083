// ABOUTME: Genre registry mapping case-insensitive genre names to folders
// ABOUTME: Resolves requested names up front and reports folder existence for listings

// Package genre resolves genre names to their configured folders.
package genre

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"playlist-maker/config"
)

// Entry is one configured genre
type Entry struct {
	Name   string // Upper-cased name
	Folder string // Absolute folder path
}

// UnknownGenreError is returned when requested genres are not configured
type UnknownGenreError struct {
	Names     []string // Offending names, upper-cased and sorted
	Available []string // Configured names, sorted
}

func (e *UnknownGenreError) Error() string {
	return fmt.Sprintf("unknown genre(s): %s (available: %s)",
		strings.Join(e.Names, ", "), strings.Join(e.Available, ", "))
}

// Registry holds the configured genres sorted by name
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// Normalize returns the lookup form of a genre name
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NewRegistry builds a registry from a loaded configuration.
// When a name appears twice the later mapping wins.
func NewRegistry(cfg config.Config) *Registry {
	folders := make(map[string]string, len(cfg.Genres))
	for _, g := range cfg.Genres {
		name := Normalize(g.Name)
		if name == "" {
			continue
		}

		folders[name] = g.Folder
	}

	entries := make([]Entry, 0, len(folders))
	for name, folder := range folders {
		entries = append(entries, Entry{Name: name, Folder: folder})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		byName[e.Name] = i
	}

	return &Registry{entries: entries, byName: byName}
}

// All returns every configured genre in alphabetical order
func (r *Registry) All() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}

// Names returns the configured genre names in alphabetical order
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}

	return names
}

// Lookup finds a genre by name, case-insensitively
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.byName[Normalize(name)]
	if !ok {
		return Entry{}, false
	}

	return r.entries[i], true
}

// Resolve returns the entries for names in alphabetical order.
// An empty request, or one made only of blank names, returns every genre.
// Duplicate names collapse.
// If any name is unknown nothing is returned and the error lists all of them.
func (r *Registry) Resolve(names []string) ([]Entry, error) {
	if len(names) == 0 {
		return r.All(), nil
	}

	wanted := make(map[string]bool, len(names))

	var unknown []string

	for _, name := range names {
		key := Normalize(name)
		if key == "" || wanted[key] {
			continue
		}

		wanted[key] = true

		if _, ok := r.byName[key]; !ok {
			unknown = append(unknown, key)
		}
	}

	if len(wanted) == 0 {
		return r.All(), nil
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownGenreError{Names: unknown, Available: r.Names()}
	}

	out := make([]Entry, 0, len(wanted))
	for _, e := range r.entries {
		if wanted[e.Name] {
			out = append(out, e)
		}
	}

	return out, nil
}

// CheckExistence reports whether the entry's folder exists, is a directory
// and can be opened for reading
func CheckExistence(e Entry) bool {
	info, err := os.Stat(e.Folder)
	if err != nil || !info.IsDir() {
		return false
	}

	f, err := os.Open(e.Folder)
	if err != nil {
		return false
	}

	_ = f.Close()

	return true
}
