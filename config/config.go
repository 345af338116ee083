// ABOUTME: Configuration management for genre-to-folder mappings
// ABOUTME: Loads TOML or .env files, resolves relative folders, and saves TOML

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultOutput is the playlist filename used when neither flag nor config sets one
const DefaultOutput = "playlist.m3u"

const (
	localTOMLName = "playlist-maker.toml"
	localEnvName  = ".env"
)

var (
	// ErrNoConfig is returned when no configuration file can be found
	ErrNoConfig = errors.New("no configuration file found")
	// ErrNoGenres is returned when a configuration defines no genre mappings
	ErrNoGenres = errors.New("no genre mappings found")
)

// GenreMapping maps one genre name to its folder
type GenreMapping struct {
	Name   string // Upper-cased genre name
	Folder string // Absolute folder path
}

// Config holds the loaded configuration
type Config struct {
	Path   string         // File the configuration was loaded from (empty if built in code)
	Output string         // Default playlist filename
	Genres []GenreMapping // In definition order, names unique
}

// fileConfig is the on-disk TOML layout
type fileConfig struct {
	Output string            `toml:"output,omitempty"`
	Genres map[string]string `toml:"genres"`
}

// OutputName returns the configured playlist filename or the default
func (c Config) OutputName() string {
	if c.Output != "" {
		return c.Output
	}

	return DefaultOutput
}

// GetConfigPath returns the default config file path.
// Tries ./playlist-maker.toml, then ./.env, then ~/.config/playlist-maker/config.toml
func GetConfigPath() string {
	for _, candidate := range []string{localTOMLName, localEnvName} {
		if _, err := os.Stat(candidate); err == nil {
			return "./" + candidate
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./" + localTOMLName
	}

	return filepath.Join(home, ".config", "playlist-maker", "config.toml")
}

// IsTOML reports whether path should be parsed as TOML rather than dotenv
func IsTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig loads configuration from a TOML or .env file.
// Relative folders resolve against the directory holding the file.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w at %s", ErrNoConfig, path)
		}

		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var (
		cfg Config
		err error
	)

	if IsTOML(path) {
		cfg, err = loadTOML(path)
	} else {
		cfg, err = loadEnv(path)
	}

	if err != nil {
		return Config{}, err
	}

	if len(cfg.Genres) == 0 {
		return Config{}, fmt.Errorf("%w in %s", ErrNoGenres, path)
	}

	cfg.Path = path

	return cfg, nil
}

// loadTOML parses a TOML config keeping [genres] keys in document order
func loadTOML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw fileConfig

	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	var pairs [][2]string

	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "genres" {
			continue
		}

		pairs = append(pairs, [2]string{key[1], raw.Genres[key[1]]})
	}

	genres, err := normalize(pairs, filepath.Dir(path))
	if err != nil {
		return Config{}, err
	}

	return Config{Output: raw.Output, Genres: genres}, nil
}

// loadEnv parses a dotenv file of GENRE=folder lines in file order,
// so a later line overrides an earlier one for the same genre.
func loadEnv(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read env file: %w", err)
	}

	var pairs [][2]string

	for i, line := range strings.Split(string(data), "\n") {
		values, err := godotenv.Unmarshal(strings.TrimRight(line, "\r"))
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse env file line %d: %w", i+1, err)
		}

		for k, v := range values {
			pairs = append(pairs, [2]string{k, v})
		}
	}

	genres, err := normalize(pairs, filepath.Dir(path))
	if err != nil {
		return Config{}, err
	}

	return Config{Genres: genres}, nil
}

// normalize upper-cases names, drops empty values and resolves folders.
// A name defined twice keeps its first position and its last folder.
func normalize(pairs [][2]string, baseDir string) ([]GenreMapping, error) {
	var genres []GenreMapping

	index := make(map[string]int)

	for _, pair := range pairs {
		name := strings.ToUpper(strings.TrimSpace(pair[0]))
		value := strings.TrimSpace(pair[1])

		if name == "" || value == "" {
			continue
		}

		folder, err := ResolveFolder(value, baseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve folder for %s: %w", name, err)
		}

		if i, ok := index[name]; ok {
			genres[i].Folder = folder
			continue
		}

		index[name] = len(genres)
		genres = append(genres, GenreMapping{Name: name, Folder: folder})
	}

	return genres, nil
}

// ResolveFolder expands a leading ~ and makes folder absolute relative to baseDir
func ResolveFolder(folder, baseDir string) (string, error) {
	if folder == "~" || strings.HasPrefix(folder, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}

		folder = filepath.Join(home, strings.TrimPrefix(folder, "~"))
	}

	if !filepath.IsAbs(folder) {
		folder = filepath.Join(baseDir, folder)
	}

	return filepath.Abs(folder)
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := fileConfig{
		Output: cfg.Output,
		Genres: make(map[string]string, len(cfg.Genres)),
	}

	for _, g := range cfg.Genres {
		raw.Genres[g.Name] = g.Folder
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(raw); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
