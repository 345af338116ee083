// ABOUTME: CLI generation run: discover, sample, optionally export, write the playlist
// ABOUTME: Prints progress lines to stdout and records run metrics on request

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"playlist-maker/export"
	"playlist-maker/genre"
	"playlist-maker/logging"
	"playlist-maker/metrics"
	"playlist-maker/playlist"
	"playlist-maker/sampler"
)

// RunCLI executes one generation run against stdout
func RunCLI(opts RunOptions) error {
	return newRunner().generate(opts)
}

// generate runs a generation and writes the metrics file if one was asked for
func (r *runner) generate(opts RunOptions) error {
	start := time.Now()
	rec := metrics.NewRecorder()

	err := r.generateWith(opts, rec)

	if opts.MetricsFile != "" {
		rec.Finish(start, err == nil)

		if werr := rec.WriteTextfile(opts.MetricsFile); werr != nil {
			logging.Warn("Failed to write metrics file %s: %v", opts.MetricsFile, werr)
		} else {
			logging.Debug("Metrics written to %s", opts.MetricsFile)
		}
	}

	return err
}

func (r *runner) generateWith(opts RunOptions, rec *metrics.Recorder) error {
	// Everything that can be rejected up front is checked before touching folders
	if err := sampler.ValidateCount(opts.Count); err != nil {
		return err
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	entries, err := genre.NewRegistry(cfg).Resolve(opts.Genres)
	if err != nil {
		return err
	}

	pool := r.discoverPool(entries, rec)
	if len(pool) == 0 {
		return ErrNoAudioFiles
	}

	res, err := r.sampler.Sample(pool, opts.Count)
	if err != nil {
		return err
	}

	if note := res.Note(); note != "" {
		r.printf("%s\n", note)
	}

	r.printf("Selected %d songs.\n", len(res.Selection))
	rec.ObserveSelection(opts.Count, res.Selection.CountByGenre())

	output := opts.Output
	if output == "" {
		output = cfg.OutputName()
	}

	if opts.CopyTo != "" {
		return r.writePortable(res.Selection, output, opts.CopyTo, rec)
	}

	return r.writeStandard(res.Selection, output)
}

// discoverPool scans each genre in order and returns the combined pool
func (r *runner) discoverPool(entries []genre.Entry, rec *metrics.Recorder) []playlist.AudioFile {
	r.printf("Scanning folders...\n")

	var pool []playlist.AudioFile

	for _, e := range entries {
		res := r.discoverer.Discover(e.Name, e.Folder)
		if res.Missing {
			logging.Warn("Folder for genre %s not found: %s", e.Name, e.Folder)
		}

		r.printf("  %s\n", res)
		rec.ObserveDiscovery(e.Name, len(res.Files), len(res.Skipped), res.Missing)

		pool = append(pool, res.Files...)
	}

	return pool
}

// writeStandard writes a playlist of absolute source paths
func (r *runner) writeStandard(sel playlist.Selection, output string) error {
	entries, err := playlist.Entries(sel, playlist.Standard, nil)
	if err != nil {
		return err
	}

	if err := playlist.WriteFile(output, entries); err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}

	r.printf("Playlist written to %s (%d entries)\n", output, len(entries))

	return nil
}

// writePortable copies the selection flat into destDir and writes a
// playlist of bare filenames next to the copies
func (r *runner) writePortable(sel playlist.Selection, output, destDir string, rec *metrics.Recorder) error {
	dest, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve export directory: %w", err)
	}

	// Names already in the directory are reserved, so it has to exist before it is listed
	if err := export.CreateDir(dest); err != nil {
		return err
	}

	reserved, err := export.ExistingNames(dest)
	if err != nil {
		return err
	}

	mapping := export.ResolveNames(sel, reserved...)

	r.printf("Copying %d files to %s...\n", mapping.Len(), dest)

	progress := r.newCopyProgress(mapping.Len())
	if err := export.New(observers{progress, rec}).Export(mapping, dest); err != nil {
		progress.abort()
		return err
	}

	progress.done()

	entries, err := playlist.Entries(sel, playlist.Portable, mapping)
	if err != nil {
		return err
	}

	playlistPath := filepath.Join(dest, filepath.Base(output))
	if err := playlist.WriteFile(playlistPath, entries); err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}

	r.printf("Portable playlist written to %s (%d entries)\n", playlistPath, len(entries))
	r.printf("  %d files copied to %s\n", mapping.Len(), dest)

	return nil
}

// observers fans export callbacks out to several observers
type observers []export.Observer

func (o observers) CopyStarted(index, total int, a export.Assignment) {
	for _, obs := range o {
		obs.CopyStarted(index, total, a)
	}
}

func (o observers) CopyFinished(index, total int, a export.Assignment, bytes int64) {
	for _, obs := range o {
		obs.CopyFinished(index, total, a, bytes)
	}
}

// copyProgress shows export progress: a bar on terminals, one line per file otherwise
type copyProgress struct {
	r   *runner
	bar *progressbar.ProgressBar
}

func (r *runner) newCopyProgress(total int) *copyProgress {
	p := &copyProgress{r: r}

	if r.terminal && total > 0 {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription("Copying"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}

	return p
}

func (p *copyProgress) CopyStarted(index, total int, a export.Assignment) {
	if p.bar != nil {
		p.bar.Describe(a.Name)
		return
	}

	p.r.printf("  [%d/%d] Copying %s -> %s\n", index, total, a.File.Path, a.Name)
}

func (p *copyProgress) CopyFinished(_, _ int, _ export.Assignment, _ int64) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *copyProgress) done() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// abort leaves the bar where it stopped and moves to a fresh line
func (p *copyProgress) abort() {
	if p.bar != nil {
		p.r.printf("\n")
	}
}

// exitCode maps a run error to the process exit status
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var unknown *genre.UnknownGenreError
	switch {
	case errors.As(err, &unknown):
		logging.Error("%v", err)
	case export.IsCopyError(err):
		logging.Error("Export failed: %v", err)
	case errors.Is(err, os.ErrPermission):
		logging.Error("Permission denied: %v", err)
	default:
		logging.Error("%v", err)
	}

	return 1
}
