package credentials

import "testing"

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	duplicates := 0

	for i := 0; i < 100; i++ {
		code, err := GenerateJoinCode()
		if err != nil {
			t.Fatalf("GenerateJoinCode() error = %v", err)
		}
		if !IsJoinCode(code) {
			t.Errorf("code %q does not match the join code format", code)
		}
		if seen[code] {
			duplicates++
		}
		seen[code] = true
	}

	// 24*24*10000 combinations; a handful of collisions in 100 draws would mean a broken source
	if duplicates > 1 {
		t.Errorf("too many duplicate codes: %d", duplicates)
	}
}

func TestIsJoinCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "swift-kettlebell-0421", want: true},
		{code: "swift-kettlebell-421", want: false},
		{code: "Swift-kettlebell-0421", want: false},
		{code: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsJoinCode(tt.code); got != tt.want {
				t.Errorf("IsJoinCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
