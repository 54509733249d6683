package security

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{name: "negative length", length: -1, alphabet: "abc", wantErr: true},
		{name: "empty alphabet", length: 1, alphabet: "", wantErr: true},
		{name: "zero length", length: 0, alphabet: "abc"},
		{name: "single alphabet character", length: 8, alphabet: "X"},
		{name: "token alphabet", length: 64, alphabet: TokenAlphabet},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d, %q) expected error, got nil", test.length, test.alphabet)
				}
				return
			}
			if err != nil {
				t.Fatalf("RandomString(%d, %q) returned error: %v", test.length, test.alphabet, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d, %q) len = %d, want %d", test.length, test.alphabet, len(got), test.length)
			}
			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString(%d, %q) produced char %q outside alphabet", test.length, test.alphabet, char)
				}
			}
		})
	}
}

func TestNewTokenIDIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 32)
	for range 32 {
		id, err := NewTokenID()
		if err != nil {
			t.Fatalf("NewTokenID returned error: %v", err)
		}
		if len(id) != tokenIDLength {
			t.Fatalf("expected token id length %d, got %d", tokenIDLength, len(id))
		}
		if _, duplicate := seen[id]; duplicate {
			t.Fatalf("NewTokenID produced duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}
