package auth

import "testing"

func TestKeySetMatch(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		candidate string
		want      bool
	}{
		{
			name:      "matching key",
			keys:      []string{"sk-one", "sk-two", "sk-three"},
			candidate: "sk-two",
			want:      true,
		},
		{
			name:      "first key in the set",
			keys:      []string{"sk-one", "sk-two", "sk-three"},
			candidate: "sk-one",
			want:      true,
		},
		{
			name:      "last key in the set",
			keys:      []string{"sk-one", "sk-two", "sk-three"},
			candidate: "sk-three",
			want:      true,
		},
		{
			name:      "unknown key",
			keys:      []string{"sk-one"},
			candidate: "sk-other",
			want:      false,
		},
		{
			name:      "prefix of a configured key",
			keys:      []string{"sk-one-long"},
			candidate: "sk-one",
			want:      false,
		},
		{
			name:      "empty candidate against configured keys",
			keys:      []string{"sk-one"},
			candidate: "",
			want:      false,
		},
		{
			name:      "duplicates are harmless",
			keys:      []string{"sk-one", "sk-one"},
			candidate: "sk-one",
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := NewKeySet(tt.keys)
			if got := ks.Match(tt.candidate); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestKeySetEnabled(t *testing.T) {
	if NewKeySet(nil).Enabled() {
		t.Error("nil key list should disable the set")
	}
	if NewKeySet([]string{"", ""}).Enabled() {
		t.Error("blank keys should not enable the set")
	}
	if !NewKeySet([]string{"sk-one"}).Enabled() {
		t.Error("a configured key should enable the set")
	}
}
