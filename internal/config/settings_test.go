package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", s.MaxRetries)
	}
	if got := s.RetryDelayDuration(); got != 2*time.Second {
		t.Errorf("RetryDelayDuration() = %v, want 2s", got)
	}
	if s.URLMatching != MatchStrict {
		t.Errorf("URLMatching = %q, want %q", s.URLMatching, MatchStrict)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default settings should be valid: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.APIBaseURL != DefaultSettings().APIBaseURL {
		t.Errorf("APIBaseURL = %q, want default", s.APIBaseURL)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spddl.yaml")
	content := "max_retries: 5\nretry_delay: 0.5\nurl_matching: substring\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", s.MaxRetries)
	}
	if got := s.RetryDelayDuration(); got != 500*time.Millisecond {
		t.Errorf("RetryDelayDuration() = %v, want 500ms", got)
	}
	if s.URLMatching != MatchSubstring {
		t.Errorf("URLMatching = %q, want substring", s.URLMatching)
	}
	if !s.EmbedCoverArt {
		t.Error("EmbedCoverArt default should be kept")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_retries: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spddl.yaml")

	s := DefaultSettings()
	s.OutputDir = "/music"
	s.Headers["X-Test"] = "1"
	s.CreatePlaylist = true

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.OutputDir != "/music" {
		t.Errorf("OutputDir = %q, want /music", loaded.OutputDir)
	}
	if loaded.Headers["X-Test"] != "1" {
		t.Errorf("Headers[X-Test] = %q, want 1", loaded.Headers["X-Test"])
	}
	if !loaded.CreatePlaylist {
		t.Error("CreatePlaylist should be true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Settings)
		wantErr string
	}{
		{name: "valid", modify: func(*Settings) {}},
		{name: "zero retries", modify: func(s *Settings) { s.MaxRetries = 0 }, wantErr: "max_retries"},
		{name: "negative delay", modify: func(s *Settings) { s.RetryDelay = -1 }, wantErr: "retry_delay"},
		{name: "relative base url", modify: func(s *Settings) { s.APIBaseURL = "/api" }, wantErr: "api_base_url"},
		{name: "unknown matching", modify: func(s *Settings) { s.URLMatching = "fuzzy" }, wantErr: "url_matching"},
		{name: "spotify without credentials", modify: func(s *Settings) { s.Source = SourceSpotify }, wantErr: "spotify_client_id"},
		{name: "unknown playlist format", modify: func(s *Settings) { s.PlaylistFormat = "wpl" }, wantErr: "playlist_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			err := s.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBaseDir(t *testing.T) {
	s := DefaultSettings()
	s.OutputDir = "/tmp/x"
	dir, err := s.BaseDir()
	if err != nil || dir != "/tmp/x" {
		t.Errorf("BaseDir() = %q, %v", dir, err)
	}

	s.OutputDir = ""
	cwd, _ := os.Getwd()
	dir, err = s.BaseDir()
	if err != nil || dir != cwd {
		t.Errorf("BaseDir() = %q, %v, want cwd %q", dir, err, cwd)
	}
}
