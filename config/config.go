// Package config persists the application settings as a JSON file under
// the user's home directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go-gamelist-sync/constants"
	"go-gamelist-sync/types"
)

// Manager handles loading and saving the settings file.
type Manager struct {
	Config     *types.AppConfig
	ConfigPath string
	Mu         sync.RWMutex // Thread-safety for UI reads/writes
}

// NewManager initializes the manager and determines the file path.
func NewManager() *Manager {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to executable dir if home is not available
		exePath, err := os.Executable()
		if err != nil {
			exePath = "."
		}
		return &Manager{
			ConfigPath: filepath.Join(filepath.Dir(exePath), "config.json"),
			Config:     &types.AppConfig{},
		}
	}

	return &Manager{
		ConfigPath: filepath.Join(home, constants.AppDir, constants.ConfigDir, "config.json"),
		Config:     &types.AppConfig{},
	}
}

// Load reads the config from disk, creating a default file when none
// exists yet.
func (m *Manager) Load() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if _, err := os.Stat(m.ConfigPath); os.IsNotExist(err) {
		return m.createDefault()
	}

	data, err := os.ReadFile(m.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, m.Config); err != nil {
		return fmt.Errorf("failed to parse config json: %w", err)
	}

	return nil
}

// GetConfig returns a copy of the current config (thread-safe).
func (m *Manager) GetConfig() types.AppConfig {
	m.Mu.RLock()
	defer m.Mu.RUnlock()

	cfg := *m.Config
	cfg.Sources = append([]types.Source(nil), m.Config.Sources...)
	return cfg
}

// Save writes the given config to disk and makes it current.
func (m *Manager) Save(newConfig types.AppConfig) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	*m.Config = newConfig

	dir := filepath.Dir(m.ConfigPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.Config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(m.ConfigPath, data, 0o644)
}

// DefaultStagingPath returns the cross-platform default staging directory
// for in-flight transfers.
func DefaultStagingPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, constants.AppDir, constants.StagingDir), nil
}

// DefaultCoversCachePath returns the directory where fetched box art is
// cached on disk.
func DefaultCoversCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, constants.AppDir, constants.CacheDir, constants.CoversDir), nil
}

// createDefault generates a starter config file if none exists.
func (m *Manager) createDefault() error {
	stagingPath, _ := DefaultStagingPath()
	if stagingPath == "" {
		stagingPath = filepath.Join(".", constants.StagingDir)
	}

	m.Config = &types.AppConfig{
		Sources:     []types.Source{},
		Language:    constants.DefaultLanguage,
		StagingPath: stagingPath,
	}

	dir := filepath.Dir(m.ConfigPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.Config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(m.ConfigPath, data, 0o644)
}
