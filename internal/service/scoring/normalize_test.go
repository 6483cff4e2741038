package scoring

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "the quick brown fox", []string{"the", "quick", "brown", "fox"}},
		{"case and punctuation", "Hello, World!", []string{"hello", "world"}},
		{"apostrophe kept", "Don't stop.", []string{"don't", "stop"}},
		{"brackets stripped", "[one] {two} (three)", []string{"one", "two", "three"}},
		{"extra spaces", "  a   b  ", []string{"a", "b"}},
		{"punctuation only", "... !!! ???", nil},
		{"empty", "", nil},
		{"symbols inside words", "e-mail co|op", []string{"email", "coop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeText(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	inputs := []string{
		"The quick brown fox!",
		"Don't panic; it's fine.",
		"  MIXED   Case,   extra   spaces.  ",
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		twice := NormalizeText(strings.Join(once, " "))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("normalizing twice changed the result: %v != %v", once, twice)
		}
	}
}
