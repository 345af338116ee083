// ABOUTME: Tests for genre resolution, existence checks and concurrent counting
// ABOUTME: Uses temp directories as genre folders

package genre

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-maker/config"
	"playlist-maker/discover"
	"playlist-maker/playlist"
)

func testConfig() config.Config {
	return config.Config{
		Genres: []config.GenreMapping{
			{Name: "ROCK", Folder: "/music/rock"},
			{Name: "jazz", Folder: "/music/jazz"},
			{Name: "Blues", Folder: "/music/blues"},
		},
	}
}

func TestNewRegistrySortsAndNormalizes(t *testing.T) {
	r := NewRegistry(testConfig())

	assert.Equal(t, []string{"BLUES", "JAZZ", "ROCK"}, r.Names())
	assert.Equal(t, Entry{Name: "JAZZ", Folder: "/music/jazz"}, r.All()[1])
}

func TestNewRegistryLaterMappingWins(t *testing.T) {
	cfg := config.Config{Genres: []config.GenreMapping{
		{Name: "ROCK", Folder: "/old"},
		{Name: "rock", Folder: "/new"},
		{Name: "  ", Folder: "/ignored"},
	}}

	r := NewRegistry(cfg)

	require.Equal(t, []string{"ROCK"}, r.Names())
	e, ok := r.Lookup("Rock")
	require.True(t, ok)
	assert.Equal(t, "/new", e.Folder)
}

func TestLookupCaseInsensitive(t *testing.T) {
	r := NewRegistry(testConfig())

	for _, name := range []string{"rock", "ROCK", " Rock "} {
		e, ok := r.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, "ROCK", e.Name)
	}

	_, ok := r.Lookup("polka")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	r := NewRegistry(testConfig())

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty means all", nil, []string{"BLUES", "JAZZ", "ROCK"}},
		{"single", []string{"jazz"}, []string{"JAZZ"}},
		{"alphabetical", []string{"rock", "blues"}, []string{"BLUES", "ROCK"}},
		{"duplicates collapse", []string{"rock", "ROCK", "Rock"}, []string{"ROCK"}},
		{"blank means all", []string{""}, []string{"BLUES", "JAZZ", "ROCK"}},
		{"only whitespace means all", []string{" ", "\t"}, []string{"BLUES", "JAZZ", "ROCK"}},
		{"blank ignored beside a name", []string{"", "jazz"}, []string{"JAZZ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := r.Resolve(tt.input)
			require.NoError(t, err)

			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.Name
			}

			assert.Equal(t, tt.want, names)
		})
	}
}

func TestResolveUnknownGenre(t *testing.T) {
	r := NewRegistry(config.Config{Genres: []config.GenreMapping{
		{Name: "ROCK", Folder: "/music/rock"},
		{Name: "JAZZ", Folder: "/music/jazz"},
	}})

	entries, err := r.Resolve([]string{"polka"})
	assert.Nil(t, entries)

	var unknown *UnknownGenreError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"POLKA"}, unknown.Names)
	assert.Equal(t, []string{"JAZZ", "ROCK"}, unknown.Available)
	assert.Equal(t, "unknown genre(s): POLKA (available: JAZZ, ROCK)", err.Error())
}

func TestResolveReportsEveryUnknownName(t *testing.T) {
	r := NewRegistry(testConfig())

	_, err := r.Resolve([]string{"rock", "zydeco", "polka"})

	var unknown *UnknownGenreError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"POLKA", "ZYDECO"}, unknown.Names)
}

func TestCheckExistence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.True(t, CheckExistence(Entry{Name: "ROCK", Folder: dir}))
	assert.False(t, CheckExistence(Entry{Name: "ROCK", Folder: filepath.Join(dir, "missing")}))
	assert.False(t, CheckExistence(Entry{Name: "ROCK", Folder: file}))
}

func TestCountFiles(t *testing.T) {
	entries := []Entry{
		{Name: "BLUES", Folder: "/b"},
		{Name: "JAZZ", Folder: "/j"},
		{Name: "ROCK", Folder: "/r"},
	}

	var calls atomic.Int32

	fake := func(genre, folder string) discover.Result {
		calls.Add(1)

		switch genre {
		case "JAZZ":
			return discover.Result{Genre: genre, Folder: folder, Missing: true}
		case "ROCK":
			return discover.Result{
				Genre:   genre,
				Folder:  folder,
				Files:   []playlist.AudioFile{{Genre: genre, Path: "/r/a.mp3"}, {Genre: genre, Path: "/r/b.mp3"}},
				Skipped: []discover.Skipped{{Path: "/r/locked"}},
			}
		default:
			return discover.Result{Genre: genre, Folder: folder, Files: []playlist.AudioFile{{Genre: genre, Path: "/b/x.mp3"}}}
		}
	}

	counts := CountFiles(entries, fake, 2)

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, counts, 3)
	assert.Equal(t, Count{Entry: entries[0], Files: 1}, counts[0])
	assert.Equal(t, Count{Entry: entries[1], Missing: true}, counts[1])
	assert.Equal(t, Count{Entry: entries[2], Files: 2, Skipped: 1}, counts[2])
}

func TestCountFilesEmpty(t *testing.T) {
	counts := CountFiles(nil, func(string, string) discover.Result {
		t.Fatal("should not be called")
		return discover.Result{}
	}, 0)

	assert.Empty(t, counts)
}

func TestCountFilesWithRealDiscovery(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp3", "b.flac", "cover.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	d := &discover.Discoverer{Warnf: func(string, ...interface{}) {}}
	counts := CountFiles([]Entry{{Name: "ROCK", Folder: dir}}, d.Discover, 0)

	require.Len(t, counts, 1)
	assert.Equal(t, 2, counts[0].Files)
}
