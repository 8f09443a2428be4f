package connectivity

import (
	"errors"
	"testing"

	apperrors "brt/pkg/errors"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		in      string
		want    State
		wantErr bool
	}{
		{in: "", want: Online},
		{in: "online", want: Online},
		{in: " Offline ", want: Offline},
		{in: "UNKNOWN", want: Unknown},
		{in: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseState(tt.in)
		if tt.wantErr {
			if !errors.Is(err, apperrors.ErrInvalidSetting) {
				t.Errorf("ParseState(%q) error = %v, want ErrInvalidSetting", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseState(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParseFailurePolicy(t *testing.T) {
	for in, want := range map[string]FailurePolicy{
		"":          FailPropagate,
		"propagate": FailPropagate,
		"Offline":   FailOffline,
		"unknown":   FailUnknown,
	} {
		got, err := ParseFailurePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseFailurePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFailurePolicy("retry"); !errors.Is(err, apperrors.ErrInvalidSetting) {
		t.Errorf("ParseFailurePolicy(retry) error = %v, want ErrInvalidSetting", err)
	}
}

func TestStateLabel(t *testing.T) {
	if Online.Label() != "Online" || Offline.Label() != "Offline" || Unknown.Label() != "Unknown" {
		t.Fatalf("labels = %s/%s/%s", Online.Label(), Offline.Label(), Unknown.Label())
	}
}
