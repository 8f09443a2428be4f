// Package reference holds the static crisis-response material shown in the
// Crisis Steps and Roles tabs.
package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "brt/pkg/errors"
)

//go:embed default.yaml
var defaultYAML []byte

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Step is one entry of the crisis checklist.
type Step struct {
	Title string `yaml:"title"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

// Role is a key person and what they are responsible for.
type Role struct {
	Name             string   `yaml:"name"`
	Holder           string   `yaml:"holder"`
	Responsibilities []string `yaml:"responsibilities"`
}

// Material is the full set of reference content.
type Material struct {
	Steps        []Step `yaml:"steps"`
	RolesSummary string `yaml:"roles_summary"`
	Roles        []Role `yaml:"roles"`
}

// Default returns the built-in material.
func Default() *Material {
	m, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("reference: embedded material is invalid: %v", err))
	}
	return m
}

// Load reads material from path. An empty path, or a missing file, yields
// the built-in material.
func Load(path string) (*Material, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	return Parse(content)
}

// Parse decodes and validates YAML material.
func Parse(content []byte) (*Material, error) {
	m := &Material{}
	if err := yaml.Unmarshal(content, m); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrReferenceInvalid, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Material) validate() error {
	if len(m.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", apperrors.ErrReferenceInvalid)
	}
	for i, s := range m.Steps {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: step %d has no title", apperrors.ErrReferenceInvalid, i+1)
		}
		if s.Color != "" && !hexColor.MatchString(s.Color) {
			return fmt.Errorf("%w: step %q color %q is not #rrggbb", apperrors.ErrReferenceInvalid, s.Title, s.Color)
		}
	}
	for i, r := range m.Roles {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: role %d has no name", apperrors.ErrReferenceInvalid, i+1)
		}
	}
	return nil
}

// Glyph returns a single-cell symbol for a step icon name.
func Glyph(icon string) string {
	switch icon {
	case "clipboard-text", "clipboard-list":
		return "▤"
	case "account-check", "account-group":
		return "☺"
	case "bell":
		return "♪"
	case "bell-ring":
		return "♫"
	case "information":
		return "ℹ"
	case "map":
		return "◈"
	case "file-document":
		return "▦"
	default:
		return "•"
	}
}
