package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"game_data_path": "./data/gamedata.yaml"}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ServerAddress != ":8080" {
		t.Errorf("address = %q, want default :8080", cfg.ServerAddress)
	}
	if cfg.Battle.MaxTurns != 50 || cfg.Battle.ActionTimeoutSeconds != 60 {
		t.Errorf("battle defaults = %+v", cfg.Battle)
	}
	if cfg.TimeoutScanSeconds != 5 {
		t.Errorf("scan interval = %d, want 5", cfg.TimeoutScanSeconds)
	}
}

func TestLoadFileRequiresGameData(t *testing.T) {
	path := writeConfig(t, `{"server_address": ":9000"}`)
	if _, err := LoadFile(path); err == nil {
		t.Errorf("config without game_data_path accepted")
	}
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	path := writeConfig(t, `{"game_data_path": "x", "battle": {"max_turns": -1}}`)
	if _, err := LoadFile(path); err == nil {
		t.Errorf("negative max_turns accepted")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Errorf("missing file accepted")
	}
}
