package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPassesValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadFallsBackToDefaultWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.Port != 8080 || cfg.Game.DefaultBlinds != "1/3" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadAppliesDefaultsToOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.hcl")
	doc := `
network {
  port = 9000
}
persistence {}
game {
  rake_percent = 0.03
}
maintenance {}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.Port != 9000 {
		t.Errorf("got port %d, want 9000", cfg.Network.Port)
	}
	if cfg.Network.Address != "0.0.0.0" {
		t.Errorf("expected address to fall back to the default, got %q", cfg.Network.Address)
	}
	if cfg.Game.RakePercent != 0.03 {
		t.Errorf("got rake percent %v, want 0.03", cfg.Game.RakePercent)
	}
	if cfg.Game.ActionTimeoutMs != 20000 {
		t.Errorf("expected action timeout to fall back to the default, got %d", cfg.Game.ActionTimeoutMs)
	}
}

func TestValidateRejectsPersistenceEnabledWithoutURL(t *testing.T) {
	cfg := Default()
	cfg.Persistence.Enable = true
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when persistence is enabled with no URL")
	}
}

func TestValidateRejectsBadBlinds(t *testing.T) {
	cfg := Default()
	cfg.Game.DefaultBlinds = "not-a-blind-pair"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a malformed default_blinds value")
	}
}

func TestValidateRejectsHTTPAuthModeWithoutURL(t *testing.T) {
	cfg := Default()
	cfg.Auth.Mode = "http"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when auth.mode is http with no url")
	}
	cfg.Auth.URL = "https://auth.example.test/validate"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsUnknownAuthMode(t *testing.T) {
	cfg := Default()
	cfg.Auth.Mode = "nonsense"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unknown auth mode")
	}
}

func TestParseBlinds(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		small   int
		big     int
		wantErr bool
	}{
		{name: "typical pair", in: "1/3", small: 1, big: 3},
		{name: "padded", in: " 5 / 10 ", small: 5, big: 10},
		{name: "missing slash", in: "1-3", wantErr: true},
		{name: "big not greater than small", in: "5/5", wantErr: true},
		{name: "non-numeric", in: "a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			small, big, err := ParseBlinds(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBlinds: %v", err)
			}
			if small != tt.small || big != tt.big {
				t.Errorf("got %d/%d, want %d/%d", small, big, tt.small, tt.big)
			}
		})
	}
}

func TestDurationConversions(t *testing.T) {
	cfg := Default()
	if cfg.ActionTimeout().Seconds() != 20 {
		t.Errorf("ActionTimeout = %v, want 20s", cfg.ActionTimeout())
	}
	if cfg.PostHandDelay().Seconds() != 2 {
		t.Errorf("PostHandDelay = %v, want 2s", cfg.PostHandDelay())
	}
	if cfg.PingInterval().Seconds() != 54 {
		t.Errorf("PingInterval = %v, want 54s", cfg.PingInterval())
	}
}
