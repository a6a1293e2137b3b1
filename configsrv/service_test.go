package configsrv

import (
	"errors"
	"testing"

	"go-gamelist-sync/types"
)

// MockConfigManager implements ConfigManager interface
type MockConfigManager struct {
	Config     types.AppConfig
	SaveCalled bool
	SaveError  error
}

func (m *MockConfigManager) ConfigGetConfig() types.AppConfig {
	return m.Config
}

func (m *MockConfigManager) ConfigSave(cfg types.AppConfig) error {
	m.SaveCalled = true
	m.Config = cfg
	return m.SaveError
}

// MockUIProvider implements UIProvider interface
type MockUIProvider struct {
	SelectedDir string
	Error       error
}

func (m *MockUIProvider) OpenDirectoryDialog(title string) (string, error) {
	return m.SelectedDir, m.Error
}

func TestNew(t *testing.T) {
	cm := &MockConfigManager{}
	ui := &MockUIProvider{}
	s := New(cm, ui)

	if s.cm != cm {
		t.Errorf("Expected cm to be set")
	}
	if s.ui != ui {
		t.Errorf("Expected ui to be set")
	}
}

func TestGetConfig(t *testing.T) {
	expected := types.AppConfig{Language: "fr"}
	cm := &MockConfigManager{Config: expected}
	s := New(cm, nil)

	if actual := s.GetConfig(); actual.Language != expected.Language {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

func TestSaveConfigMergesAndFlagsAccountChange(t *testing.T) {
	cm := &MockConfigManager{
		Config: types.AppConfig{
			ScreenScraperID: "old-user",
			ScreenScraperPW: "old-pw",
			Language:        "en",
			StagingPath:     "/old/staging",
		},
	}
	s := New(cm, nil)

	msg, accountChanged := s.SaveConfig(types.AppConfig{
		ScreenScraperID: "new-user",
		Language:        "fr",
	})

	if !accountChanged {
		t.Errorf("Expected accountChanged to be true")
	}
	if msg != "Configuration saved successfully!" {
		t.Errorf("Unexpected message: %s", msg)
	}
	if cm.Config.ScreenScraperID != "new-user" {
		t.Errorf("Expected scraper login to be updated")
	}
	if cm.Config.ScreenScraperPW != "old-pw" {
		t.Errorf("Blank password must keep the current value")
	}
	if cm.Config.Language != "fr" {
		t.Errorf("Expected language to be updated")
	}
	if cm.Config.StagingPath != "/old/staging" {
		t.Errorf("Blank staging path must keep the current value")
	}
}

func TestSaveConfigNoAccountChange(t *testing.T) {
	cm := &MockConfigManager{
		Config: types.AppConfig{ScreenScraperID: "user", ScreenScraperPW: "pw"},
	}
	s := New(cm, nil)

	_, accountChanged := s.SaveConfig(types.AppConfig{Language: "de"})
	if accountChanged {
		t.Errorf("Expected accountChanged to be false")
	}
}

func TestSaveConfig_Error(t *testing.T) {
	cm := &MockConfigManager{
		SaveError: errors.New("save failed"),
	}
	s := New(cm, nil)

	msg, accountChanged := s.SaveConfig(types.AppConfig{})

	if accountChanged {
		t.Errorf("Expected accountChanged to be false")
	}
	if msg != "Error saving config: save failed" {
		t.Errorf("Unexpected error message: %s", msg)
	}
}

func TestAddSource(t *testing.T) {
	cm := &MockConfigManager{}
	s := New(cm, nil)

	src := types.Source{Name: "NAS", Host: "10.0.0.5", Share: "roms"}
	if err := s.AddSource(src); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}
	if len(cm.Config.Sources) != 1 || cm.Config.Sources[0].Host != "10.0.0.5" {
		t.Errorf("Expected source registered, got %+v", cm.Config.Sources)
	}

	// Same name replaces instead of duplicating.
	src.Host = "10.0.0.9"
	if err := s.AddSource(src); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}
	if len(cm.Config.Sources) != 1 || cm.Config.Sources[0].Host != "10.0.0.9" {
		t.Errorf("Expected source replaced, got %+v", cm.Config.Sources)
	}
}

func TestRemoveSource(t *testing.T) {
	cm := &MockConfigManager{
		Config: types.AppConfig{
			Sources: []types.Source{{Name: "NAS"}, {Name: "Recalbox"}},
		},
	}
	s := New(cm, nil)

	if err := s.RemoveSource("NAS"); err != nil {
		t.Fatalf("RemoveSource failed: %v", err)
	}
	if len(cm.Config.Sources) != 1 || cm.Config.Sources[0].Name != "Recalbox" {
		t.Errorf("Expected NAS removed, got %+v", cm.Config.Sources)
	}

	// Unknown names are a no-op, not an error.
	cm.SaveCalled = false
	if err := s.RemoveSource("unknown"); err != nil {
		t.Fatalf("RemoveSource failed: %v", err)
	}
	if cm.SaveCalled {
		t.Error("Removing an unknown source must not rewrite the config")
	}
}

func TestSelectStagingPath(t *testing.T) {
	cm := &MockConfigManager{}
	ui := &MockUIProvider{SelectedDir: "/path/to/staging"}
	s := New(cm, ui)

	selected, err := s.SelectStagingPath()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if selected != "/path/to/staging" {
		t.Errorf("Expected %s, got %s", "/path/to/staging", selected)
	}
	if cm.Config.StagingPath != "/path/to/staging" {
		t.Errorf("Expected config to be updated")
	}
}

func TestSelectStagingPathCancelled(t *testing.T) {
	cm := &MockConfigManager{}
	ui := &MockUIProvider{SelectedDir: ""}
	s := New(cm, ui)

	if _, err := s.SelectStagingPath(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if cm.SaveCalled {
		t.Error("A cancelled dialog must not rewrite the config")
	}
}
