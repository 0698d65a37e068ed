package sale_test

import (
	"testing"

	"github.com/xraph/mintgate/sale"
)

func TestStateValid(t *testing.T) {
	tests := []struct {
		state sale.State
		valid bool
	}{
		{sale.StateActive, true},
		{sale.StateInactive, true},
		{sale.State(""), false},
		{sale.State("paused"), false},
		{sale.State("ACTIVE"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.Valid(); got != tt.valid {
				t.Errorf("Valid(%q): got %v, want %v", tt.state, got, tt.valid)
			}
		})
	}
}

func TestStateActive(t *testing.T) {
	if !sale.StateActive.Active() {
		t.Error("StateActive should permit minting")
	}
	if sale.StateInactive.Active() {
		t.Error("StateInactive should block minting")
	}
}

func TestFromActive(t *testing.T) {
	if got := sale.FromActive(true); got != sale.StateActive {
		t.Errorf("FromActive(true): got %q, want %q", got, sale.StateActive)
	}
	if got := sale.FromActive(false); got != sale.StateInactive {
		t.Errorf("FromActive(false): got %q, want %q", got, sale.StateInactive)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    sale.State
		wantErr bool
	}{
		{"active", sale.StateActive, false},
		{"inactive", sale.StateInactive, false},
		{"", "", true},
		{"closed", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := sale.Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
