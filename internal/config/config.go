package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"brt/internal/connectivity"
	"brt/internal/logging"
	apperrors "brt/pkg/errors"
)

// Config holds operator configuration. Values come from built-in defaults,
// then the YAML file, then the settings table.
type Config struct {
	StartupState  string   `yaml:"startup_state"`
	FailurePolicy string   `yaml:"failure_policy"`
	ProbeEnabled  bool     `yaml:"probe_enabled"`
	ProbeTargets  []string `yaml:"probe_targets"`
	ProbeInterval int      `yaml:"probe_interval"` // seconds
	ProbeTimeout  int      `yaml:"probe_timeout"`  // milliseconds
	ProbeWorkers  int      `yaml:"probe_workers"`
	ReferenceFile string   `yaml:"reference_file"`
	LogLevel      string   `yaml:"log_level"`
	LogFile       string   `yaml:"log_file"`
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() Config {
	return Config{
		StartupState:  "online",
		FailurePolicy: string(connectivity.FailPropagate),
		ProbeEnabled:  true,
		ProbeTargets:  []string{"1.1.1.1", "8.8.8.8"},
		ProbeInterval: 30,
		ProbeTimeout:  3000,
		ProbeWorkers:  4,
		LogLevel:      "info",
	}
}

// Load reads configuration from a YAML file. Missing files fall back to defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field through the same rules as settings, plus the
// file-only log level.
func (c Config) Validate() error {
	for _, def := range Definitions {
		if err := ValidateSetting(def.Key, c.Value(def.Key)); err != nil {
			return err
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &apperrors.SettingError{
			Key:   KeyLogLevel,
			Value: c.LogLevel,
			Err:   fmt.Errorf("%w: %v", apperrors.ErrInvalidSetting, err),
		}
	}
	return nil
}

// Apply overlays persisted settings. Unknown keys are ignored so that an
// older binary can open a newer database.
func (c Config) Apply(settings map[string]string) (Config, error) {
	for key, value := range settings {
		if _, ok := Lookup(key); !ok {
			continue
		}
		if err := c.set(key, value); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (c *Config) set(key, value string) error {
	if err := ValidateSetting(key, value); err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	switch key {
	case KeyStartupState:
		c.StartupState = strings.ToLower(value)
	case KeyFailurePolicy:
		c.FailurePolicy = strings.ToLower(value)
	case KeyProbeEnabled:
		c.ProbeEnabled, _ = strconv.ParseBool(value)
	case KeyProbeTargets:
		c.ProbeTargets = splitTargets(value)
	case KeyProbeInterval:
		c.ProbeInterval, _ = strconv.Atoi(value)
	case KeyProbeTimeout:
		c.ProbeTimeout, _ = strconv.Atoi(value)
	case KeyProbeWorkers:
		c.ProbeWorkers, _ = strconv.Atoi(value)
	case KeyReferenceFile:
		c.ReferenceFile = value
	}
	return nil
}

// Value renders the field behind a settings key.
func (c Config) Value(key string) string {
	switch key {
	case KeyStartupState:
		return c.StartupState
	case KeyFailurePolicy:
		return c.FailurePolicy
	case KeyProbeEnabled:
		return strconv.FormatBool(c.ProbeEnabled)
	case KeyProbeTargets:
		return strings.Join(c.ProbeTargets, ",")
	case KeyProbeInterval:
		return strconv.Itoa(c.ProbeInterval)
	case KeyProbeTimeout:
		return strconv.Itoa(c.ProbeTimeout)
	case KeyProbeWorkers:
		return strconv.Itoa(c.ProbeWorkers)
	case KeyReferenceFile:
		return c.ReferenceFile
	}
	return ""
}

// ObserverOptions returns the connectivity options described by c.
func (c Config) ObserverOptions() connectivity.Options {
	state, _ := connectivity.ParseState(c.StartupState)
	policy, _ := connectivity.ParseFailurePolicy(c.FailurePolicy)
	return connectivity.Options{StartupState: state, FailurePolicy: policy}
}

// ProbeConfig returns the prober configuration described by c.
func (c Config) ProbeConfig() connectivity.ProbeConfig {
	return connectivity.ProbeConfig{
		Targets:  c.ProbeTargets,
		Interval: time.Duration(c.ProbeInterval) * time.Second,
		Timeout:  time.Duration(c.ProbeTimeout) * time.Millisecond,
		Workers:  int64(c.ProbeWorkers),
	}
}

func splitTargets(v string) []string {
	var out []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ValidateSetting checks a single key/value pair.
func ValidateSetting(key, value string) error {
	def, ok := Lookup(key)
	if !ok {
		return &apperrors.SettingError{Key: key, Err: apperrors.ErrUnknownSetting}
	}

	invalid := func(reason string) error {
		return &apperrors.SettingError{Key: key, Value: value, Err: fmt.Errorf("%w: %s", apperrors.ErrInvalidSetting, reason)}
	}

	value = strings.TrimSpace(value)
	switch def.Kind {
	case KindChoice:
		for _, c := range def.Choices {
			if strings.EqualFold(c, value) {
				return nil
			}
		}
		return invalid("must be one of " + strings.Join(def.Choices, ", "))
	case KindNumber:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid("not a number")
		}
		if n < def.Min || (def.Max > 0 && n > def.Max) {
			return invalid(fmt.Sprintf("must be between %d and %d", def.Min, def.Max))
		}
	case KindList:
		for _, t := range splitTargets(value) {
			if strings.ContainsAny(t, " \t") {
				return invalid(fmt.Sprintf("target %q contains whitespace", t))
			}
		}
	}
	return nil
}
