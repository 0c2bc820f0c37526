package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := Random()
		require.Len(t, c, 7)
		_, ok := ParseHex(c)
		require.True(t, ok, "random color %q should parse", c)
	}
}

func TestParseHex(t *testing.T) {
	rgb, ok := ParseHex("#FF8000")
	require.True(t, ok)
	assert.Equal(t, RGB{R: 255, G: 128, B: 0}, rgb)

	rgb, ok = ParseHex("0a0b0c")
	require.True(t, ok)
	assert.Equal(t, RGB{R: 10, G: 11, B: 12}, rgb)

	for _, bad := range []string{"", "#fff", "#12345", "#gggggg", "rgb(1,2,3)"} {
		_, ok := ParseHex(bad)
		assert.False(t, ok, bad)
	}
}

func TestContrast(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"white background", "#ffffff", Black},
		{"black background", "#000000", White},
		{"yellow is bright", "#ffff00", Black},
		{"navy is dark", "#000080", White},
		{"invalid falls back to black", "nope", Black},
		{"empty falls back to black", "", Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contrast(tt.in, DefaultThreshold))
		})
	}
}

func TestContrast_Threshold(t *testing.T) {
	// #808080 has a YIQ of exactly 128.
	assert.Equal(t, Black, Contrast("#808080", 128))
	assert.Equal(t, White, Contrast("#808080", 129))
}
