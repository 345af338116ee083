// ABOUTME: Recursive audio file discovery for genre folders
// ABOUTME: Walks with an explicit stack, follows directory symlinks once, skips unreadable subtrees

// Package discover finds audio files under a genre folder.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"playlist-maker/logging"
	"playlist-maker/playlist"
)

// AudioExtensions maps lower-cased file extensions to whether they are audio
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".aac":  true,
	".ogg":  true,
	".m4a":  true,
	".wma":  true,
}

// errNotDir is recorded when a configured folder points at a file
var errNotDir = errors.New("not a directory")

// IsAudioFile reports whether path has a supported audio extension.
// A dotfile such as ".mp3" has no extension, only a name.
func IsAudioFile(path string) bool {
	base := filepath.Base(path)

	ext := filepath.Ext(base)
	if ext == base {
		return false
	}

	return AudioExtensions[strings.ToLower(ext)]
}

// Skipped is a path that could not be read during discovery
type Skipped struct {
	Path string
	Err  error
}

// Result is the outcome of discovering one genre folder
type Result struct {
	Genre   string
	Folder  string
	Files   []playlist.AudioFile // Sorted by path
	Skipped []Skipped            // Unreadable directories, in visit order
	Missing bool                 // Folder does not exist
}

// Discoverer walks genre folders
type Discoverer struct {
	// Warnf receives one message per skipped path. Nil uses logging.Warn.
	Warnf func(format string, args ...interface{})
}

// New returns a Discoverer that reports skipped paths through logging.Warn
func New() *Discoverer {
	return &Discoverer{}
}

func (d *Discoverer) warnf(format string, args ...interface{}) {
	if d != nil && d.Warnf != nil {
		d.Warnf(format, args...)
		return
	}

	logging.Warn(format, args...)
}

// Discover returns every audio file below folder tagged with genre.
// A missing folder yields an empty Result with Missing set; it is never an error.
func (d *Discoverer) Discover(genre, folder string) Result {
	res := Result{Genre: genre, Folder: folder}

	root, err := filepath.Abs(folder)
	if err != nil {
		res.skip(folder, err)
		d.warnf("Skipping %s: %v", folder, err)

		return res
	}

	res.Folder = root

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Missing = true
		return res
	case err != nil:
		res.skip(root, err)
		d.warnf("Skipping %s: %v", root, err)

		return res
	case !info.IsDir():
		res.skip(root, errNotDir)
		d.warnf("Skipping %s: %v", root, errNotDir)

		return res
	}

	visited := make(map[string]bool)
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			res.skip(dir, err)
			d.warnf("Skipping %s: %v", dir, err)

			continue
		}

		if visited[real] {
			logging.Debug("Already visited %s (via %s)", real, dir)
			continue
		}

		visited[real] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			// ReadDir returns whatever it read before failing; keep those
			res.skip(dir, err)
			d.warnf("Skipping %s: %v", dir, err)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			switch typ := entry.Type(); {
			case typ.IsDir():
				stack = append(stack, path)
			case typ&fs.ModeSymlink != 0:
				target, err := os.Stat(path)
				if err != nil {
					logging.Debug("Ignoring broken symlink %s: %v", path, err)
					continue
				}

				if target.IsDir() {
					stack = append(stack, path)
				} else if target.Mode().IsRegular() && IsAudioFile(path) {
					res.Files = append(res.Files, playlist.AudioFile{Genre: genre, Path: path})
				}
			case typ.IsRegular() && IsAudioFile(path):
				res.Files = append(res.Files, playlist.AudioFile{Genre: genre, Path: path})
			}
		}
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].Path < res.Files[j].Path
	})

	return res
}

func (r *Result) skip(path string, err error) {
	r.Skipped = append(r.Skipped, Skipped{Path: path, Err: err})
}

// String summarizes the result for console output
func (r Result) String() string {
	if r.Missing {
		return fmt.Sprintf("%s: folder not found (%s)", r.Genre, r.Folder)
	}

	return fmt.Sprintf("%s: %d files found", r.Genre, len(r.Files))
}
