package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const appName = "mx"

// Dirs holds the local paths mx uses: config, logs and the download cache
type Dirs struct {
	StatePath  string
	CachePath  string
	ConfigPath string
}

// New resolves XDG-compliant paths
func New() (*Dirs, error) {
	statePath, stateErr := getStateRoot()
	configPath, configErr := getConfigPath()
	if stateErr != nil {
		return nil, fmt.Errorf("failed to determine state root: %w", stateErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return &Dirs{
		StatePath:  statePath,
		CachePath:  filepath.Join(statePath, "cache"),
		ConfigPath: configPath,
	}, nil
}

// getStateRoot follows the XDG Base Directory specification on Unix and uses AppData on Windows
func getStateRoot() (string, error) {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "state", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the state directories if they don't exist
func (d *Dirs) Initialize() error {
	for _, dir := range []string{d.StatePath, d.CachePath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPath returns the default diagnostic log file
func (d *Dirs) LogPath() string {
	return filepath.Join(d.StatePath, "mx.log")
}

// GetCachePath returns the cache location for an item's content.
// The id prefix keeps items with the same file name apart.
func (d *Dirs) GetCachePath(id int64, fileName string) string {
	name := filepath.Base(fileName)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "content"
	}
	return filepath.Join(d.CachePath, strconv.FormatInt(id, 10)+"-"+name)
}

// CleanCache removes all files in the cache directory
func (d *Dirs) CleanCache() error {
	entries, err := os.ReadDir(d.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(d.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}

// CleanItem removes the cached files of one item and reports how many were removed
func (d *Dirs) CleanItem(id int64) (int, error) {
	entries, err := os.ReadDir(d.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	prefix := strconv.FormatInt(id, 10) + "-"
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		path := filepath.Join(d.CachePath, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}
