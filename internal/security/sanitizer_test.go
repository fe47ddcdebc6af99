package security

import (
	"strings"
	"testing"
)

func TestSanitizeQuizText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Plain text",
			input: "Capital de Italia",
			want:  "Capital de Italia",
		},
		{
			name:  "Surrounding whitespace",
			input: "  Roma \n",
			want:  "Roma",
		},
		{
			name:  "HTML tags stripped",
			input: "<b>Roma</b><script>alert(1)</script>",
			want:  "Roma",
		},
		{
			name:  "Comparison symbols kept",
			input: "3 < 5 & 5 > 3",
			want:  "3 < 5 & 5 > 3",
		},
		{
			name:  "Terminal escapes removed",
			input: "\x1b[2JRoma\x00",
			want:  "[2JRoma",
		},
		{
			name:  "Accents kept",
			input: "París",
			want:  "París",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeQuizText(tt.input); got != tt.want {
				t.Errorf("SanitizeQuizText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeString_Length(t *testing.T) {
	long := strings.Repeat("á", maxQuizTextLen+50)

	got := SanitizeString(long)
	if n := len([]rune(got)); n != maxQuizTextLen {
		t.Errorf("len(SanitizeString()) = %d runes, want %d", n, maxQuizTextLen)
	}
}
