// ABOUTME: Diagnostic listing of configured genres and whether their folders exist
// ABOUTME: Optionally counts audio files per genre concurrently

package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"playlist-maker/genre"
)

var (
	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	notFoundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// RunList prints the configured genres to stdout
func RunList(opts RunOptions) error {
	return newRunner().list(opts)
}

func (r *runner) list(opts RunOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	entries := genre.NewRegistry(cfg).All()

	var counts []genre.Count
	if opts.Counts {
		counts = genre.CountFiles(entries, r.discoverer.Discover, 0)
	}

	r.printf("%s\n", r.style(listHeaderStyle, "Configured genres:"))

	for i, e := range entries {
		status := r.style(okStyle, "[OK]")
		if !genre.CheckExistence(e) {
			status = r.style(notFoundStyle, "[NOT FOUND]")
		}

		line := fmt.Sprintf("  %s: %s %s", e.Name, e.Folder, status)
		if counts != nil && !counts[i].Missing {
			line += " " + r.style(countStyle, fmt.Sprintf("(%d files)", counts[i].Files))
		}

		r.printf("%s\n", line)
	}

	return nil
}

// style renders s with st on terminals and leaves it plain otherwise
func (r *runner) style(st lipgloss.Style, s string) string {
	if !r.terminal {
		return s
	}

	return st.Render(s)
}
