package models

import "testing"

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"single value", "QB", []string{"QB"}},
		{"multiple values", "QB,RB,WR", []string{"QB", "RB", "WR"}},
		{"trims whitespace", " QB , RB ", []string{"QB", "RB"}},
		{"drops empty parts", "QB,,RB,", []string{"QB", "RB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitCSV(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitCSV(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitCSV(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScopingPlayerIDList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []uint
	}{
		{"empty column", "", nil},
		{"single ID", "7", []uint{7}},
		{"multiple IDs", "7,12,30", []uint{7, 12, 30}},
		{"skips garbage", "7,abc,12", []uint{7, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scoping{ScopedPlayerIDs: tt.input}.PlayerIDList()
			if len(got) != len(tt.want) {
				t.Fatalf("PlayerIDList() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("PlayerIDList()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestJoinIDsRoundTrip(t *testing.T) {
	ids := []uint{3, 14, 159}
	sc := Scoping{ScopedPlayerIDs: JoinIDs(ids)}

	got := sc.PlayerIDList()
	if len(got) != len(ids) {
		t.Fatalf("round trip lost IDs: %v", got)
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("round trip [%d] = %d, want %d", i, got[i], ids[i])
		}
	}
}

func TestJoinCSV(t *testing.T) {
	if got := JoinCSV(nil); got != "" {
		t.Errorf("JoinCSV(nil) = %q, want empty", got)
	}
	if got := JoinCSV([]string{"QB", "RB"}); got != "QB,RB" {
		t.Errorf("JoinCSV() = %q, want QB,RB", got)
	}
}
