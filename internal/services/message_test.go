package services

import "testing"

func TestGuardiansRequired(t *testing.T) {
	tests := []struct {
		schoolLevel string
		want        bool
	}{
		{"youth", true},
		{"middle_school", true},
		{"high_school", true},
		{"college", false},
		{"adult", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := guardiansRequired(tt.schoolLevel); got != tt.want {
			t.Errorf("guardiansRequired(%q) = %v, want %v", tt.schoolLevel, got, tt.want)
		}
	}
}
