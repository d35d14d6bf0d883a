package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Name    string        `split_words:"true" default:"crew"`
	Timeout time.Duration `split_words:"true" default:"5s"`
	Limit   int           `split_words:"true"`
}

// These tests mutate process-wide state and must not run in parallel.

func TestNewReadsExplicitEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_NAME=flight\nCFGTEST_LIMIT=7\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		SetEnvFile("")
		os.Unsetenv("CFGTEST_NAME")
		os.Unsetenv("CFGTEST_LIMIT")
	})

	SetEnvFile(path)
	conf, err := New[sampleConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "flight" || conf.Limit != 7 {
		t.Fatalf("unexpected config: %+v", conf)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("default timeout not applied: %v", conf.Timeout)
	}
}

func TestNewPrefersProcessEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGPROC_NAME=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGPROC_NAME", "from-env")
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(path)
	conf, err := New[sampleConfig]("CFGPROC")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "from-env" {
		t.Fatalf("expected environment to win, got %q", conf.Name)
	}
}

func TestNewMissingExplicitFileFails(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if _, err := New[sampleConfig]("CFGMISSING"); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
