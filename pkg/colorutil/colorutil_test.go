package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHex(t *testing.T) {
	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 255}

	tests := []struct {
		name string
		in   string
		want color.RGBA
	}{
		{"six digit", "#3366cc", color.RGBA{R: 0x33, G: 0x66, B: 0xcc, A: 255}},
		{"no hash", "ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"three digit", "#f80", color.RGBA{R: 255, G: 136, B: 0, A: 255}},
		{"whitespace trimmed", "  #00ff00 ", color.RGBA{G: 255, A: 255}},
		{"garbage falls back", "#zzxxyy", fallback},
		{"wrong length falls back", "#1234", fallback},
		{"empty falls back", "", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHex(tt.in, fallback))
		})
	}
}

func TestFormatHexRoundTrip(t *testing.T) {
	c := color.RGBA{R: 0x12, G: 0xab, B: 0xef, A: 255}
	assert.Equal(t, "#12abef", FormatHex(c))
	assert.Equal(t, c, ParseHex(FormatHex(c), Black))
}

func TestDarkenLighten(t *testing.T) {
	c := color.RGBA{R: 200, G: 100, B: 50, A: 255}

	d := Darken(c, 0.5)
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 25, A: 255}, d)

	l := Lighten(c, 1.0)
	assert.Equal(t, White, l)

	assert.Equal(t, c, Darken(c, 0))
	assert.Equal(t, c, Lighten(c, 0))
}

func TestWithAlpha(t *testing.T) {
	got := WithAlpha(Green, 64)
	assert.Equal(t, color.RGBA{G: 255, A: 64}, got)
}
