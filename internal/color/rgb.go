// Package color handles the #RRGGBB color values Twitch attaches to users.
package color

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a value cannot be parsed as a hex color.
var ErrInvalidColor = errors.New("invalid color")

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// White is used for users that never picked a chat color.
var White = RGB{R: 0xff, G: 0xff, B: 0xff}

// Parse parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("%w: empty value", ErrInvalidColor)
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustParse is like Parse but panics on invalid input. Only for constants.
func MustParse(s string) RGB {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats the color as lower-case "#rrggbb".
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
