package color

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
)

const (
	White = "#fff"
	Black = "#000"

	// DefaultThreshold is the YIQ brightness at or above which dark text is picked.
	DefaultThreshold = 128
)

var hexPattern = regexp.MustCompile(`(?i)^#?([a-f\d]{2})([a-f\d]{2})([a-f\d]{2})$`)

// RGB is a color split into 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Random returns a random color as a 6-digit hex string, e.g. "#3fa0c2".
func Random() string {
	return fmt.Sprintf("#%06x", rand.IntN(1<<24))
}

// ParseHex parses "#rrggbb" or "rrggbb". Shorthand forms are not accepted.
func ParseHex(s string) (RGB, bool) {
	m := hexPattern.FindStringSubmatch(s)
	if m == nil {
		return RGB{}, false
	}
	var c [3]uint8
	for i := range c {
		v, err := strconv.ParseUint(m[i+1], 16, 8)
		if err != nil {
			return RGB{}, false
		}
		c[i] = uint8(v)
	}
	return RGB{R: c[0], G: c[1], B: c[2]}, true
}

// YIQ returns the perceived brightness of c in the range [0, 255].
func (c RGB) YIQ() float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
}

// Contrast picks black or white text for the given background. Anything
// that does not parse as a 6-digit hex color gets black.
func Contrast(background string, threshold float64) string {
	rgb, ok := ParseHex(background)
	if !ok {
		return Black
	}
	if rgb.YIQ() >= threshold {
		return Black
	}
	return White
}
