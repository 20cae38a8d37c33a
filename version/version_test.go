package version

import (
	"strings"
	"testing"

	"github.com/teranos/typeinfer/errors"
)

func TestCheckConstraint(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		constraint string
		wantErr    bool
	}{
		{"empty constraint", "0.4.1", "", false},
		{"dev build", "dev", ">= 9.0", false},
		{"satisfied", "0.4.1", ">= 0.4", false},
		{"unsatisfied", "0.3.0", ">= 0.4", true},
		{"bad constraint", "0.4.1", ">>> 1", true},
		{"bad version", "not-a-version", ">= 0.1", true},
		{"dev build with bad constraint", "dev", ">>> 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConstraint(tt.version, tt.constraint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckConstraint(%q, %q) error = %v, wantErr %v", tt.version, tt.constraint, err, tt.wantErr)
			}
			if err != nil && !errors.IsInvalidConfigError(err) {
				t.Errorf("expected invalid config error, got %v", err)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{CommitHash: "abcdef123456", BuildTime: "now", Version: "dev"}
	if !strings.HasPrefix(info.String(), "typeinfer dev") {
		t.Errorf("String() = %q", info.String())
	}
	if info.Short() != "abcdef1" {
		t.Errorf("Short() = %q, want abcdef1", info.Short())
	}

	info.Version = "0.4.1"
	if !strings.Contains(info.String(), "typeinfer 0.4.1") {
		t.Errorf("String() = %q", info.String())
	}
}
