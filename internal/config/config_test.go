package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brt/internal/connectivity"
	apperrors "brt/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", path, err)
		}
		opts := cfg.ObserverOptions()
		if opts.StartupState != connectivity.Online || opts.FailurePolicy != connectivity.FailPropagate {
			t.Errorf("Load(%q) options = %+v, want optimistic defaults", path, opts)
		}
		if !cfg.ProbeEnabled || len(cfg.ProbeTargets) == 0 {
			t.Errorf("Load(%q) probing defaults = %v %v", path, cfg.ProbeEnabled, cfg.ProbeTargets)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
startup_state: unknown
failure_policy: offline
probe_targets: ["10.0.0.1:443", "example.com"]
probe_interval: 5
probe_timeout: 250
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	opts := cfg.ObserverOptions()
	if opts.StartupState != connectivity.Unknown || opts.FailurePolicy != connectivity.FailOffline {
		t.Fatalf("options = %+v", opts)
	}
	pc := cfg.ProbeConfig()
	if pc.Interval != 5*time.Second || pc.Timeout != 250*time.Millisecond || pc.Workers != 4 {
		t.Fatalf("probe config = %+v", pc)
	}
	if len(pc.Targets) != 2 || pc.Targets[1] != "example.com" {
		t.Fatalf("targets = %v", pc.Targets)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "probe_interval: [",
		"bad state":    "startup_state: offline\n",
		"bad policy":   "failure_policy: retry\n",
		"zero workers": "probe_workers: 0\n",
		"bad level":    "log_level: loud\n",
	}
	for name, content := range tests {
		if _, err := Load(writeFile(t, content)); err == nil {
			t.Errorf("%s: Load() should fail", name)
		}
	}
}

func TestLoadInvalidLogLevelNamesFileAndKey(t *testing.T) {
	path := writeFile(t, "log_level: loud\n")
	_, err := Load(path)
	if !errors.Is(err, apperrors.ErrInvalidSetting) {
		t.Fatalf("Load() error = %v, want ErrInvalidSetting", err)
	}
	var serr *apperrors.SettingError
	if !errors.As(err, &serr) || serr.Key != KeyLogLevel {
		t.Fatalf("Load() error = %v, want a log_level SettingError", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error %q does not name %s", err, path)
	}

	cfg, err := Load(writeFile(t, "log_level: DEBUG\n"))
	if err != nil {
		t.Fatalf("Load() with upper-case level failed: %v", err)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestApplySettings(t *testing.T) {
	cfg, err := DefaultConfig().Apply(map[string]string{
		KeyProbeEnabled:  "false",
		KeyProbeTargets:  " 192.168.1.1 , ,9.9.9.9:53",
		KeyProbeInterval: "120",
		KeyStartupState:  "UNKNOWN",
		"legacy_key":     "ignored",
	})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if cfg.ProbeEnabled {
		t.Error("probe_enabled not applied")
	}
	if got := cfg.Value(KeyProbeTargets); got != "192.168.1.1,9.9.9.9:53" {
		t.Errorf("targets = %q", got)
	}
	if cfg.ProbeInterval != 120 {
		t.Errorf("interval = %d", cfg.ProbeInterval)
	}
	if cfg.ObserverOptions().StartupState != connectivity.Unknown {
		t.Errorf("startup state = %q", cfg.StartupState)
	}

	if _, err := DefaultConfig().Apply(map[string]string{KeyProbeTimeout: "fast"}); !errors.Is(err, apperrors.ErrInvalidSetting) {
		t.Fatalf("Apply() with bad timeout error = %v, want ErrInvalidSetting", err)
	}
}

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		key, value string
		want       error
	}{
		{KeyFailurePolicy, "unknown", nil},
		{KeyFailurePolicy, "explode", apperrors.ErrInvalidSetting},
		{KeyProbeWorkers, "65", apperrors.ErrInvalidSetting},
		{KeyProbeWorkers, "64", nil},
		{KeyProbeTargets, "", nil},
		{KeyProbeTargets, "a b", apperrors.ErrInvalidSetting},
		{KeyReferenceFile, "/etc/brt/ref.yaml", nil},
		{"colour", "blue", apperrors.ErrUnknownSetting},
	}
	for _, tt := range tests {
		err := ValidateSetting(tt.key, tt.value)
		if tt.want == nil {
			if err != nil {
				t.Errorf("ValidateSetting(%s, %q) = %v, want nil", tt.key, tt.value, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("ValidateSetting(%s, %q) = %v, want %v", tt.key, tt.value, err, tt.want)
		}
		var serr *apperrors.SettingError
		if !errors.As(err, &serr) || serr.Key != tt.key {
			t.Errorf("ValidateSetting(%s) error is not a SettingError: %v", tt.key, err)
		}
	}
}

func TestDefinitionsCoverConfig(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys() {
		if _, ok := Lookup(key); !ok {
			t.Fatalf("Lookup(%s) failed", key)
		}
		if err := ValidateSetting(key, cfg.Value(key)); err != nil {
			t.Errorf("default for %s is invalid: %v", key, err)
		}
	}
}
