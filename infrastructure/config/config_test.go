package config

import (
	"os"
	"path/filepath"
	"testing"

	"popcheck/models"
)

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popcheck.yaml")
	body := `
addr: ":9090"
sqlite_path: "state.db"
sources:
  display: "https://sheets.example/display"
  standee: "https://sheets.example/standee"
report_url: "https://log.example/submit"
history_url: "https://log.example/history"
branches:
  - "สาขาบางกอก"
  - "Head Office"
fetch_timeout_seconds: 10
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("POPCHECK_ADDR", ":7070")
	t.Setenv("POPCHECK_SOURCE_PREMIUM", "https://sheets.example/premium")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("env override lost, addr=%q", cfg.Addr)
	}
	if cfg.SQLitePath != "state.db" {
		t.Fatalf("file value lost, sqlite_path=%q", cfg.SQLitePath)
	}
	urls := cfg.SourceURLs()
	if len(urls) != 3 {
		t.Fatalf("expected 3 source urls, got %d", len(urls))
	}
	if urls[models.CategoryPremium] != "https://sheets.example/premium" {
		t.Fatalf("premium source mismatch: %q", urls[models.CategoryPremium])
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.SQLitePath != "popcheck.db" || cfg.FetchTimeout != 30 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation failure without sources")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestBranchesEnvSplitsAndTrims(t *testing.T) {
	t.Setenv("POPCHECK_BRANCHES", " สาขาเชียงใหม่ ,BranchA, ,BranchB ")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"สาขาเชียงใหม่", "BranchA", "BranchB"}
	if len(cfg.Branches) != len(want) {
		t.Fatalf("expected %d branches, got %v", len(want), cfg.Branches)
	}
	for i, b := range want {
		if cfg.Branches[i] != b {
			t.Fatalf("branch %d: want %q got %q", i, b, cfg.Branches[i])
		}
	}
}
