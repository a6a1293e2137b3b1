// Package configsrv holds the configuration-facing service logic bound to
// the UI: merge-saving settings and managing the source registry.
package configsrv

import (
	"fmt"

	"go-gamelist-sync/types"
)

// ConfigManager defines the interface for managing the app configuration.
type ConfigManager interface {
	ConfigGetConfig() types.AppConfig
	ConfigSave(cfg types.AppConfig) error
}

// UIProvider defines the UI interactions needed for configuration.
type UIProvider interface {
	OpenDirectoryDialog(title string) (string, error)
}

// Service handles configuration-related logic.
type Service struct {
	cm ConfigManager
	ui UIProvider
}

// New creates a new Config service.
func New(cm ConfigManager, ui UIProvider) *Service {
	return &Service{
		cm: cm,
		ui: ui,
	}
}

// GetConfig returns the current configuration.
func (s *Service) GetConfig() types.AppConfig {
	return s.cm.ConfigGetConfig()
}

// SaveConfig merges and saves the configuration. Blank incoming fields
// keep their current values so a partial settings form never wipes
// credentials. The returned flag reports whether the scraper account
// changed, so the caller can rebuild its client.
func (s *Service) SaveConfig(cfg types.AppConfig) (string, bool) {
	current := s.cm.ConfigGetConfig()
	oldID, oldPW := current.ScreenScraperID, current.ScreenScraperPW

	updateIfNotEmpty(&current.ScreenScraperID, cfg.ScreenScraperID)
	updateIfNotEmpty(&current.ScreenScraperPW, cfg.ScreenScraperPW)
	updateIfNotEmpty(&current.Language, cfg.Language)
	updateIfNotEmpty(&current.StagingPath, cfg.StagingPath)

	if cfg.Sources != nil {
		current.Sources = cfg.Sources
	}

	if err := s.cm.ConfigSave(current); err != nil {
		return fmt.Sprintf("Error saving config: %s", err.Error()), false
	}

	accountChanged := current.ScreenScraperID != oldID || current.ScreenScraperPW != oldPW
	return "Configuration saved successfully!", accountChanged
}

func updateIfNotEmpty(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// AddSource registers a share endpoint, replacing an existing entry with
// the same display name.
func (s *Service) AddSource(src types.Source) error {
	cfg := s.cm.ConfigGetConfig()

	replaced := false
	for i, existing := range cfg.Sources {
		if existing.Name == src.Name {
			cfg.Sources[i] = src
			replaced = true
			break
		}
	}
	if !replaced {
		cfg.Sources = append(cfg.Sources, src)
	}

	if err := s.cm.ConfigSave(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// RemoveSource drops a share endpoint by display name. Removing an
// unknown name is a no-op.
func (s *Service) RemoveSource(name string) error {
	cfg := s.cm.ConfigGetConfig()

	kept := cfg.Sources[:0]
	for _, src := range cfg.Sources {
		if src.Name != name {
			kept = append(kept, src)
		}
	}
	if len(kept) == len(cfg.Sources) {
		return nil
	}
	cfg.Sources = kept

	if err := s.cm.ConfigSave(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// SelectStagingPath handles the selection of the staging directory.
func (s *Service) SelectStagingPath() (string, error) {
	selectedDir, err := s.ui.OpenDirectoryDialog("Select Staging Directory")
	if err != nil {
		return "", err
	}

	if selectedDir != "" {
		cfg := s.cm.ConfigGetConfig()
		cfg.StagingPath = selectedDir
		if err = s.cm.ConfigSave(cfg); err != nil {
			return "", fmt.Errorf("failed to save config: %w", err)
		}
	}

	return selectedDir, nil
}
