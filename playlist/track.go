// ABOUTME: Defines the AudioFile and Selection types shared by the playlist engine
// ABOUTME: An AudioFile is an absolute path tagged with the genre it was discovered under

package playlist

import (
	"fmt"
	"path/filepath"
)

// AudioFile is a discovered audio file. The same Path may appear under two
// genres when their folders overlap.
type AudioFile struct {
	Genre string // Upper-cased genre name the file was discovered under
	Path  string // Absolute path to the file on disk
}

// Name returns the base filename including extension
func (f AudioFile) Name() string {
	return filepath.Base(f.Path)
}

// String returns a formatted string representation of the file
func (f AudioFile) String() string {
	return fmt.Sprintf("%s: %s", f.Genre, f.Path)
}

// Selection is the ordered set of files chosen for one playlist.
// Playlist lines and export collision resolution both follow this order.
type Selection []AudioFile

// Paths returns the absolute paths in selection order
func (s Selection) Paths() []string {
	paths := make([]string, len(s))
	for i, f := range s {
		paths[i] = f.Path
	}

	return paths
}

// CountByGenre returns how many selected files came from each genre
func (s Selection) CountByGenre() map[string]int {
	counts := make(map[string]int)
	for _, f := range s {
		counts[f.Genre]++
	}

	return counts
}
