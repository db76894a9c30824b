package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the name of the per-project and per-user configuration file.
const DefaultConfigFile = ".leadscan"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads the site settings stored at path.
// Unknown keys are rejected so a misspelled setting does not go unnoticed.
// Host keys under sites are lower-cased.
func LoadConfigFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // the path comes from the user or the search list
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	defer f.Close()

	var cf File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	sites := make(map[string]SiteConfig, len(cf.Sites))
	for host, site := range cf.Sites {
		sites[strings.ToLower(host)] = site
	}
	cf.Sites = sites
	return &cf, nil
}

// SearchPaths lists the locations checked for a configuration file when
// none is given, in order: the working directory, the XDG config
// directory, then the home directory.
func SearchPaths() []string {
	paths := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	paths = append(paths, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return paths
}

// FindConfigFile returns configPath when it exists, or the first existing
// entry of SearchPaths when configPath is empty. It returns "" when
// nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}
	for _, p := range SearchPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// Discover locates and loads the configuration file.
// An explicit configPath must exist. Without one, a missing file yields an
// empty File so every site runs on the global settings.
// The returned path is "" when no file was loaded.
func Discover(configPath string) (*File, string, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return &File{Sites: make(map[string]SiteConfig)}, "", nil
	}
	cf, err := LoadConfigFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return cf, path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
