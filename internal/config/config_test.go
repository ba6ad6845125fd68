package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadNormalizesLanguages(t *testing.T) {
	path := writeConfig(t, `
[paths]
packs_dir = "/tmp/polyvox-test/packs"
output_dir = "/tmp/polyvox-test/output"

[merge]
default_language = "English"
subtitle_language = "fr-fr"

[speakers]
Judy = "Spanish"
takemura = "jpn"
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Merge.DefaultLanguage != "en" {
		t.Fatalf("default_language = %q", cfg.Merge.DefaultLanguage)
	}
	if cfg.Merge.SubtitleLanguage != "fr" {
		t.Fatalf("subtitle_language = %q", cfg.Merge.SubtitleLanguage)
	}
	if cfg.Speakers["judy"] != "es" {
		t.Fatalf("speakers.judy = %q", cfg.Speakers["judy"])
	}
	if cfg.Speakers["takemura"] != "jp" {
		t.Fatalf("speakers.takemura = %q", cfg.Speakers["takemura"])
	}
}

func TestLoadRejectsUnknownLanguage(t *testing.T) {
	path := writeConfig(t, `
[paths]
packs_dir = "/tmp/a"
output_dir = "/tmp/b"

[speakers]
judy = "klingon"
`)

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected unknown language to be rejected")
	}
}

func TestLoadRejectsBadVariant(t *testing.T) {
	path := writeConfig(t, `
[paths]
packs_dir = "/tmp/a"
output_dir = "/tmp/b"

[merge]
voice_variant = "remix"
`)

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected bad voice_variant to be rejected")
	}
}

func TestLoadRejectsSharedOutputDir(t *testing.T) {
	path := writeConfig(t, `
[paths]
packs_dir = "/tmp/same"
output_dir = "/tmp/same"
`)

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected shared packs/output dir to be rejected")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := Load(missing)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if cfg.Merge.DefaultLanguage != "en" || cfg.Merge.VoiceVariant != VariantDefault {
		t.Fatalf("defaults not applied: %+v", cfg.Merge)
	}
}

func TestHistoryPathDefaultsToLogDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.LogDir = "/tmp/logs"
	if got := cfg.HistoryPath(); got != filepath.Join("/tmp/logs", "history.db") {
		t.Fatalf("HistoryPath = %q", got)
	}
	cfg.History.Path = "/elsewhere/h.db"
	if got := cfg.HistoryPath(); got != "/elsewhere/h.db" {
		t.Fatalf("HistoryPath override = %q", got)
	}
}
