package slug

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Cordless Drill", "cordless-drill"},
		{"diacritics", "Scie Électrique Générale", "scie-electrique-generale"},
		{"punctuation", "Heavy-Duty Jack (2.5t)!", "heavy-duty-jack-2-5t"},
		{"collapsedSeparators", "terms   of -- service", "terms-of-service"},
		{"underscoresAndSlashes", "ladder_set/extension", "ladder-set-extension"},
		{"leadingTrailingJunk", "  --Pressure Washer--  ", "pressure-washer"},
		{"alreadyClean", "mini-excavator-3t", "mini-excavator-3t"},
		{"digitsOnly", "2024", "2024"},
		{"nothingNormalizable", "!!! ***", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeCapsLength(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Normalize(long)
	if len(got) != MaxLength {
		t.Fatalf("expected slug of length %d, got %d", MaxLength, len(got))
	}
}

func TestNormalizeNeverEndsWithHyphenAfterTrim(t *testing.T) {
	long := strings.Repeat("ab ", 100)
	got := Normalize(long)
	if strings.HasSuffix(got, "-") {
		t.Fatalf("trimmed slug ends with hyphen: %q", got)
	}
	if len(got) > MaxLength {
		t.Fatalf("slug exceeds max length: %d", len(got))
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"Cordless Drill", "Scie Électrique", "mini-excavator-3t"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
