package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "brt/pkg/errors"
)

func TestDefaultMaterial(t *testing.T) {
	m := Default()

	want := []string{
		"What to Do", "BRT Central", "Agenda", "3IA Theory",
		"Stakeholder Map", "Notification Salewe", "Sit Rep",
	}
	if len(m.Steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(m.Steps), len(want))
	}
	for i, title := range want {
		if m.Steps[i].Title != title {
			t.Errorf("step %d = %q, want %q", i, m.Steps[i].Title, title)
		}
	}
	if m.RolesSummary != "List of key people and responsibilities" {
		t.Errorf("roles summary = %q", m.RolesSummary)
	}
	if len(m.Roles) != 0 {
		t.Errorf("default roles = %d, want none", len(m.Roles))
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(m.Steps) != len(Default().Steps) {
		t.Fatalf("missing file did not fall back to defaults")
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.yaml")
	content := []byte(`
steps:
  - title: Call the duty manager
    icon: bell
    color: "#ff0000"
roles_summary: Who does what
roles:
  - name: Incident lead
    holder: J. Smith
    responsibilities: [Chairs the BRT, Signs off the sit rep]
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(m.Steps) != 1 || m.Steps[0].Title != "Call the duty manager" {
		t.Fatalf("steps = %+v", m.Steps)
	}
	if len(m.Roles) != 1 || len(m.Roles[0].Responsibilities) != 2 {
		t.Fatalf("roles = %+v", m.Roles)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"no steps":    "roles_summary: x\n",
		"blank title": "steps:\n  - title: ' '\n",
		"bad color":   "steps:\n  - title: A\n    color: blue\n",
		"nameless":    "steps:\n  - title: A\nroles:\n  - holder: B\n",
		"not yaml":    "steps: [\n",
	}
	for name, content := range tests {
		if _, err := Parse([]byte(content)); !errors.Is(err, apperrors.ErrReferenceInvalid) {
			t.Errorf("%s: Parse() error = %v, want ErrReferenceInvalid", name, err)
		}
	}
}

func TestGlyph(t *testing.T) {
	for _, s := range Default().Steps {
		if Glyph(s.Icon) == "•" {
			t.Errorf("icon %q has no glyph", s.Icon)
		}
	}
	if Glyph("nope") != "•" {
		t.Errorf("unknown icon should fall back to bullet")
	}
}
