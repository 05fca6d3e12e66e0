package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.ConcurrencyLimit != 500 {
		t.Errorf("ConcurrencyLimit = %d, want 500", s.ConcurrencyLimit)
	}
	if s.RequestTimeout() != 10*time.Second {
		t.Errorf("RequestTimeout() = %v, want 10s", s.RequestTimeout())
	}
	if s.FailureLogPath != "poster_download_failures.jsonl" {
		t.Errorf("FailureLogPath = %q", s.FailureLogPath)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *s != *DefaultSettings() {
		t.Errorf("Load of missing file = %+v, want defaults", s)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "concurrency_limit: 50\nrequest_timeout_seconds: 3\noutput_image_dir: posters\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.ConcurrencyLimit != 50 || s.RequestTimeoutSeconds != 3 || s.OutputImageDir != "posters" {
		t.Errorf("settings = %+v", s)
	}
	// Unset fields keep their defaults.
	if s.SuccessMappingPath != "poster_image_scores.csv" {
		t.Errorf("SuccessMappingPath = %q", s.SuccessMappingPath)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"concurrency_limit": 0, "max_filename_length": 20}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.ConcurrencyLimit != 1 {
		t.Errorf("ConcurrencyLimit = %d, want 1 after validation", s.ConcurrencyLimit)
	}
	if s.MaxFileNameLength != 20 {
		t.Errorf("MaxFileNameLength = %d, want 20", s.MaxFileNameLength)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"settings.json", "settings.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			s := DefaultSettings()
			s.ConcurrencyLimit = 42
			s.ConvertCoverArtToJPG = true
			if err := s.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if *got != *s {
				t.Errorf("round trip = %+v, want %+v", got, s)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	s := DefaultSettings()
	s.RequestTimeoutSeconds = 4
	s.RequestsPerSecond = 2.5

	co := s.ToClientOptions()
	if co.ConnectTimeout != 4*time.Second || co.ReadTimeout != 4*time.Second {
		t.Errorf("client timeouts = %v/%v", co.ConnectTimeout, co.ReadTimeout)
	}
	if co.MaxConns != 500 || co.RequestsPerSecond != 2.5 {
		t.Errorf("client options = %+v", co)
	}

	so := s.ToSourceOptions()
	if so.URLColumn != "Poster" || so.ScoreColumn != "IMDB Score" {
		t.Errorf("source options = %+v", so)
	}

	if s.ToImageOptions().Enabled() {
		t.Error("image processing should be off by default")
	}
}
