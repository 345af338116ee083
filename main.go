// ABOUTME: Entry point for playlist-maker application
// ABOUTME: Handles command-line parsing and routing to list, interactive or generation mode

// Package main provides the entry point for playlist-maker, which builds random
// M3U playlists from genre folders and can export a portable copy.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"playlist-maker/config"
	"playlist-maker/discover"
	"playlist-maker/genre"
	"playlist-maker/logging"
	"playlist-maker/tui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	return exitCode(cmd.Execute())
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "playlist-maker",
		Short: "Build a random M3U playlist from genre folders",
		Example: `  playlist-maker -g rock -g jazz -n 30
  playlist-maker -g rock,blues -n 50 -c /media/usb/mix
  playlist-maker --list --counts`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return execute(opts)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.Genres, "genres", "g", nil, "genres to include, repeatable or comma-separated (default: all)")
	f.IntVarP(&opts.Count, "count", "n", 0, "number of songs to pick")
	f.StringVarP(&opts.Output, "output", "o", "", "playlist filename (default from config or "+config.DefaultOutput+")")
	f.StringVarP(&opts.CopyTo, "copy-to", "c", "", "copy the songs flat into this directory and write a portable playlist there")
	f.BoolVarP(&opts.List, "list", "l", false, "list configured genres and exit")
	f.BoolVar(&opts.Counts, "counts", false, "with --list, count audio files per genre")
	f.StringVar(&opts.ConfigPath, "config", "", "config file (.toml, anything else is read as .env)")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	f.BoolVarP(&opts.Interactive, "interactive", "i", false, "pick genres and count in a terminal UI")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug output")
	f.BoolVar(&opts.Debug, "debug", false, "enable debug logging to "+debugLogFile)

	cmd.AddCommand(newInitConfigCmd())

	return cmd
}

// newInitConfigCmd converts a .env genre file into TOML
func newInitConfigCmd() *cobra.Command {
	var (
		fromEnv string
		out     string
		force   bool
	)

	cmd := &cobra.Command{
		Use:          "init-config",
		Short:        "Write a TOML config from an existing .env genre file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, fromEnv, out, force)
		},
	}

	cmd.Flags().StringVar(&fromEnv, "from-env", ".env", "dotenv file with GENRE=folder lines")
	cmd.Flags().StringVar(&out, "out", "playlist-maker.toml", "TOML file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file")

	return cmd
}

func initConfig(cmd *cobra.Command, fromEnv, out string, force bool) error {
	if !force {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", out)
		}
	}

	cfg, err := config.LoadConfig(fromEnv)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", fromEnv, err)
	}

	if err := config.SaveConfig(out, cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d genres to %s\n", len(cfg.Genres), out)

	return nil
}

// execute routes the root command to the selected mode
func execute(opts RunOptions) error {
	if opts.Verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	if opts.Debug {
		if err := SetupDebugLog(debugLogFile); err != nil {
			return err
		}

		defer func() { _ = logging.CloseDebugFile() }()
	}

	if opts.List {
		return RunList(opts)
	}

	if opts.Interactive {
		res, err := runPicker(opts)
		if err != nil {
			return err
		}

		if res.Cancelled {
			fmt.Println("Cancelled, no playlist written.")
			return nil
		}

		opts.Genres = res.Genres
		opts.Count = res.Count
	}

	return RunCLI(opts)
}

// runPicker opens the interactive genre picker
func runPicker(opts RunOptions) (tui.Result, error) {
	d := discover.New()

	// The picker's own counting would otherwise print skip warnings over the UI
	d.Warnf = func(format string, args ...interface{}) {
		logging.Debug(format, args...)
	}

	deps := tui.Dependencies{
		LoadGenres: func(path string) ([]genre.Entry, error) {
			cfg, err := loadConfig(path)
			if err != nil {
				return nil, err
			}

			return genre.NewRegistry(cfg).All(), nil
		},
		CountFiles: func(entries []genre.Entry) []genre.Count {
			return genre.CountFiles(entries, d.Discover, 0)
		},
		Exists: genre.CheckExistence,
		Debugf: logging.Debug,
	}

	return tui.Run(tui.Options{
		ConfigPath: configPathFor(opts),
		Genres:     opts.Genres,
		Count:      opts.Count,
	}, deps)
}
