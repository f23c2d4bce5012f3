package command

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParsePrefixed(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantArg  string
		wantOK   bool
	}{
		{"simple", "nestle play despacito", "play", "despacito", true},
		{"keyword only", "nestle skip", "skip", "", true},
		{"prefix case insensitive", "NESTLE Play despacito", "play", "despacito", true},
		{"thai keyword", "nestle เล่น despacito", "เล่น", "despacito", true},
		{"multi word arg", "nestle play never gonna give you up", "play", "never gonna give you up", true},
		{"extra whitespace", "  nestle   play   x  ", "play", "x", true},
		{"not addressed", "hello world", "", "", false},
		{"bare prefix", "nestle", "", "", false},
		{"empty", "", "", "", false},
		{"prefix mid-sentence", "i said nestle play", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, arg, ok := ParsePrefixed("nestle", tt.content)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, strings.Repeat("x", 10), Truncate(strings.Repeat("x", 50), 10))
	assert.Equal(t, "", Truncate("", 5))
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// Thai runes are 3 bytes each; every cut point must stay valid UTF-8.
	long := strings.Repeat("เพลย์ลิสต์", 20)
	for n := 0; n <= 32; n++ {
		got := Truncate(long, n)
		assert.True(t, utf8.ValidString(got), "cut at %d produced invalid UTF-8: %q", n, got)
		assert.LessOrEqual(t, len(got), n)
		assert.True(t, strings.HasPrefix(long, got))
	}
}
