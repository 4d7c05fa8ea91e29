package app

import (
	"testing"
)

func TestScanCommand(t *testing.T) {
	if scanCmd.Use != "scan" {
		t.Errorf("expected Use to be 'scan', got '%s'", scanCmd.Use)
	}

	if scanCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if scanCmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	if scanCmd.Example == "" {
		t.Error("expected Example to be set")
	}

	if scanCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestScanCommandFlagParsing(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedForce bool
		expectedQuiet bool
	}{
		{
			name: "default flags",
			args: []string{},
		},
		{
			name:          "force",
			args:          []string{"--force"},
			expectedForce: true,
		},
		{
			name:          "quiet shorthand",
			args:          []string{"-q"},
			expectedQuiet: true,
		},
		{
			name:          "both flags",
			args:          []string{"--force", "--quiet"},
			expectedForce: true,
			expectedQuiet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanForce = false
			scanQuiet = false
			defer func() {
				scanForce = false
				scanQuiet = false
			}()

			if err := scanCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			if scanForce != tt.expectedForce {
				t.Errorf("expected force to be %v, got %v", tt.expectedForce, scanForce)
			}
			if scanQuiet != tt.expectedQuiet {
				t.Errorf("expected quiet to be %v, got %v", tt.expectedQuiet, scanQuiet)
			}
		})
	}
}
