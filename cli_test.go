// ABOUTME: End-to-end tests for the generation run against temp genre folders
// ABOUTME: Covers standard and portable playlists, shortfalls, missing folders and pre-flight errors

package main

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-maker/config"
	"playlist-maker/discover"
	"playlist-maker/export"
	"playlist-maker/genre"
	"playlist-maker/playlist"
	"playlist-maker/sampler"
)

// library is a temp music tree plus a config pointing at it
type library struct {
	root       string
	configPath string
	folders    map[string]string
}

// newLibrary creates genre folders with the given files and writes a TOML config.
// A genre with nil files is configured but its folder is never created.
func newLibrary(t *testing.T, genres map[string][]string) *library {
	t.Helper()

	root := t.TempDir()
	lib := &library{root: root, folders: make(map[string]string)}

	names := make([]string, 0, len(genres))
	for name := range genres {
		names = append(names, name)
	}

	sort.Strings(names)

	var b strings.Builder
	b.WriteString("[genres]\n")

	for _, name := range names {
		folder := filepath.Join(root, strings.ToLower(name))
		lib.folders[name] = folder
		fmt.Fprintf(&b, "%s = %q\n", name, folder)

		if genres[name] == nil {
			continue
		}

		require.NoError(t, os.MkdirAll(folder, 0o755))

		for _, f := range genres[name] {
			path := filepath.Join(folder, f)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(name+"/"+f), 0o644))
		}
	}

	lib.configPath = filepath.Join(root, "playlist-maker.toml")
	require.NoError(t, os.WriteFile(lib.configPath, []byte(b.String()), 0o644))

	return lib
}

func songs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("track%02d.mp3", i)
	}

	return out
}

// newTestRunner returns a runner writing to a buffer with a seeded sampler
func newTestRunner(t *testing.T) (*runner, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	return &runner{
		out:        &out,
		sampler:    sampler.NewWithSource(rand.New(rand.NewPCG(1, 2))),
		discoverer: &discover.Discoverer{Warnf: func(string, ...interface{}) {}},
	}, &out
}

func readPlaylist(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	require.True(t, strings.HasPrefix(text, playlist.Header+"\n"), "missing header")
	assert.NotContains(t, text, "\n\n", "no blank lines")

	entries, err := playlist.ReadPlaylist(path)
	require.NoError(t, err)

	return entries
}

func TestGenerateStandardPlaylist(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": songs(5), "JAZZ": songs(3)})
	output := filepath.Join(t.TempDir(), "mix.m3u")

	r, out := newTestRunner(t)
	err := r.generate(RunOptions{
		Genres:     []string{"rock", "jazz"},
		Count:      6,
		Output:     output,
		ConfigPath: lib.configPath,
	})
	require.NoError(t, err)

	entries := readPlaylist(t, output)
	require.Len(t, entries, 6)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.True(t, filepath.IsAbs(e), e)
		assert.True(t, strings.HasPrefix(e, lib.folders["ROCK"]) || strings.HasPrefix(e, lib.folders["JAZZ"]), e)
		assert.False(t, seen[e], "duplicate %s", e)
		seen[e] = true
	}

	text := out.String()
	assert.Contains(t, text, "Scanning folders...")
	assert.Contains(t, text, "  JAZZ: 3 files found")
	assert.Contains(t, text, "  ROCK: 5 files found")
	assert.Contains(t, text, "Selected 6 songs.")
	assert.Contains(t, text, "Playlist written to "+output+" (6 entries)")
	assert.NotContains(t, text, "Only")
}

func TestGenerateShortfall(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": songs(5), "JAZZ": songs(3)})
	output := filepath.Join(t.TempDir(), "mix.m3u")

	r, out := newTestRunner(t)
	require.NoError(t, r.generate(RunOptions{
		Count:      20,
		Output:     output,
		ConfigPath: lib.configPath,
	}))

	assert.Len(t, readPlaylist(t, output), 8)
	assert.Contains(t, out.String(), "Only 8 files available (requested 20).")
	assert.Contains(t, out.String(), "Selected 8 songs.")
}

func TestGenerateMissingFolderCountsAsEmpty(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": songs(4), "JAZZ": nil})
	output := filepath.Join(t.TempDir(), "mix.m3u")

	r, out := newTestRunner(t)
	require.NoError(t, r.generate(RunOptions{
		Genres:     []string{"ROCK", "JAZZ"},
		Count:      3,
		Output:     output,
		ConfigPath: lib.configPath,
	}))

	assert.Len(t, readPlaylist(t, output), 3)
	assert.Contains(t, out.String(), "JAZZ: folder not found")
	assert.Contains(t, out.String(), "ROCK: 4 files found")
}

func TestGenerateUnknownGenreIsPreflight(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": songs(2), "JAZZ": songs(2)})
	output := filepath.Join(t.TempDir(), "mix.m3u")

	r, out := newTestRunner(t)
	err := r.generate(RunOptions{
		Genres:     []string{"rock", "polka"},
		Count:      2,
		Output:     output,
		ConfigPath: lib.configPath,
	})

	var unknown *genre.UnknownGenreError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"POLKA"}, unknown.Names)
	assert.Contains(t, err.Error(), "POLKA")

	assert.NotContains(t, out.String(), "Scanning folders")
	assert.NoFileExists(t, output)
	assert.Equal(t, 1, exitCode(err))
}

func TestGenerateInvalidCountBeforeConfig(t *testing.T) {
	r, out := newTestRunner(t)

	for _, count := range []int{0, -3} {
		err := r.generate(RunOptions{
			Count:      count,
			ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		})
		require.ErrorIs(t, err, sampler.ErrInvalidCount)
	}

	assert.Empty(t, out.String())
}

func TestGenerateMissingConfig(t *testing.T) {
	r, _ := newTestRunner(t)

	err := r.generate(RunOptions{Count: 2, ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	require.ErrorIs(t, err, config.ErrNoConfig)
}

func TestGenerateEmptyPool(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": {"cover.jpg", "notes.txt"}, "JAZZ": nil})
	output := filepath.Join(t.TempDir(), "mix.m3u")

	r, _ := newTestRunner(t)
	err := r.generate(RunOptions{Count: 2, Output: output, ConfigPath: lib.configPath})

	require.ErrorIs(t, err, ErrNoAudioFiles)
	assert.NoFileExists(t, output)
}

func TestGenerateDefaultOutputFromConfig(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": songs(2)})

	outDir := t.TempDir()
	cfgText := fmt.Sprintf("output = %q\n\n[genres]\nROCK = %q\n", filepath.Join(outDir, "from-config.m3u"), lib.folders["ROCK"])
	require.NoError(t, os.WriteFile(lib.configPath, []byte(cfgText), 0o644))

	r, _ := newTestRunner(t)
	require.NoError(t, r.generate(RunOptions{Count: 1, ConfigPath: lib.configPath}))

	assert.FileExists(t, filepath.Join(outDir, "from-config.m3u"))
}

func TestGeneratePortableExport(t *testing.T) {
	lib := newLibrary(t, map[string][]string{
		"ROCK": {"intro.mp3"},
		"JAZZ": {"intro.mp3"},
	})
	dest := filepath.Join(t.TempDir(), "usb", "mix")

	r, out := newTestRunner(t)
	require.NoError(t, r.generate(RunOptions{
		Count:      2,
		Output:     "road-trip.m3u",
		CopyTo:     dest,
		ConfigPath: lib.configPath,
	}))

	playlistPath := filepath.Join(dest, "road-trip.m3u")
	entries := readPlaylist(t, playlistPath)
	assert.ElementsMatch(t, []string{"intro.mp3", "intro_2.mp3"}, entries)

	// Each exported name must hold exactly one of the sources
	var contents []string
	for _, name := range entries {
		assert.NotContains(t, name, string(filepath.Separator))

		data, err := os.ReadFile(filepath.Join(dest, name))
		require.NoError(t, err)
		contents = append(contents, string(data))
	}

	assert.ElementsMatch(t, []string{"ROCK/intro.mp3", "JAZZ/intro.mp3"}, contents)

	text := out.String()
	assert.Contains(t, text, "[1/2] Copying")
	assert.Contains(t, text, "[2/2] Copying")
	assert.Contains(t, text, "Portable playlist written to "+playlistPath+" (2 entries)")
	assert.Contains(t, text, "2 files copied to "+dest)
}

func TestGeneratePortableRerunKeepsEarlierCopies(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": {"intro.mp3"}})
	dest := t.TempDir()

	r, _ := newTestRunner(t)
	opts := RunOptions{Count: 1, CopyTo: dest, ConfigPath: lib.configPath}

	require.NoError(t, r.generate(opts))
	require.NoError(t, r.generate(opts))

	assert.FileExists(t, filepath.Join(dest, "intro.mp3"))
	assert.FileExists(t, filepath.Join(dest, "intro_2.mp3"))
	assert.Equal(t, []string{"intro_2.mp3"}, readPlaylist(t, filepath.Join(dest, config.DefaultOutput)))
}

func TestGeneratePortableDirectoryError(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": songs(2)})

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	r, out := newTestRunner(t)
	err := r.generate(RunOptions{Count: 1, CopyTo: filepath.Join(blocker, "dest"), ConfigPath: lib.configPath})

	var dirErr *export.DirectoryCreateError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, filepath.Join(blocker, "dest"), dirErr.Dir)
	assert.True(t, export.IsCopyError(err))
	assert.NotContains(t, out.String(), "Copying")
	assert.Equal(t, 1, exitCode(err))
}

func TestGenerateWritesMetricsFile(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": songs(5), "JAZZ": nil})
	metricsPath := filepath.Join(t.TempDir(), "playlist.prom")

	r, _ := newTestRunner(t)
	require.NoError(t, r.generate(RunOptions{
		Count:       2,
		Output:      filepath.Join(t.TempDir(), "mix.m3u"),
		ConfigPath:  lib.configPath,
		MetricsFile: metricsPath,
	}))

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `playlist_maker_discovered_files{genre="ROCK"} 5`)
	assert.Contains(t, text, "playlist_maker_missing_folders_total 1")
	assert.Contains(t, text, "playlist_maker_requested_count 2")
	assert.Contains(t, text, "playlist_maker_last_success_timestamp_seconds")
}

func TestGenerateWritesMetricsFileOnFailure(t *testing.T) {
	lib := newLibrary(t, map[string][]string{"ROCK": nil})
	metricsPath := filepath.Join(t.TempDir(), "playlist.prom")

	r, _ := newTestRunner(t)
	err := r.generate(RunOptions{Count: 2, ConfigPath: lib.configPath, MetricsFile: metricsPath})
	require.ErrorIs(t, err, ErrNoAudioFiles)

	data, readErr := os.ReadFile(metricsPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "playlist_maker_last_success_timestamp_seconds 0")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(ErrNoAudioFiles))
	assert.Equal(t, 1, exitCode(&export.FileCopyError{Source: "/a", Dest: "a", Err: os.ErrNotExist}))
}
