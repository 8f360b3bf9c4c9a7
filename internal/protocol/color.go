package protocol

import (
	"fmt"
	"strings"
)

// Color is one of the sixteen named terminal colors carried on the wire.
// Names are matched case-insensitively and stored lowercase.
type Color string

const (
	ColorBlack        Color = "black"
	ColorRed          Color = "red"
	ColorGreen        Color = "green"
	ColorYellow       Color = "yellow"
	ColorBlue         Color = "blue"
	ColorMagenta      Color = "magenta"
	ColorCyan         Color = "cyan"
	ColorGray         Color = "gray"
	ColorDarkGray     Color = "darkgray"
	ColorLightRed     Color = "lightred"
	ColorLightGreen   Color = "lightgreen"
	ColorLightYellow  Color = "lightyellow"
	ColorLightBlue    Color = "lightblue"
	ColorLightMagenta Color = "lightmagenta"
	ColorLightCyan    Color = "lightcyan"
	ColorWhite        Color = "white"
)

// 256-color palette index for each color. The light variants are the bright
// half of the classic 16-color palette.
var colorCodes = map[Color]int{
	ColorBlack:        0,
	ColorRed:          1,
	ColorGreen:        2,
	ColorYellow:       3,
	ColorBlue:         4,
	ColorMagenta:      5,
	ColorCyan:         6,
	ColorGray:         7,
	ColorDarkGray:     8,
	ColorLightRed:     9,
	ColorLightGreen:   10,
	ColorLightYellow:  11,
	ColorLightBlue:    12,
	ColorLightMagenta: 13,
	ColorLightCyan:    14,
	ColorWhite:        15,
}

var colorNames = []Color{
	ColorBlack, ColorRed, ColorGreen, ColorYellow,
	ColorBlue, ColorMagenta, ColorCyan, ColorGray,
	ColorDarkGray, ColorLightRed, ColorLightGreen, ColorLightYellow,
	ColorLightBlue, ColorLightMagenta, ColorLightCyan, ColorWhite,
}

// UnknownColorError reports a color name outside the recognized set. It is
// non-fatal; callers keep their previous color.
type UnknownColorError struct {
	Name string
}

func (e *UnknownColorError) Error() string {
	return fmt.Sprintf("unknown color %q", e.Name)
}

// ParseColor resolves a color name, case-insensitively.
func ParseColor(name string) (Color, error) {
	c := Color(strings.ToLower(name))
	if _, ok := colorCodes[c]; !ok {
		return "", &UnknownColorError{Name: name}
	}
	return c, nil
}

// ColorNames lists the recognized color names in a stable order.
func ColorNames() []string {
	names := make([]string, len(colorNames))
	for i, c := range colorNames {
		names[i] = string(c)
	}
	return names
}

// Paint wraps text in the SGR escape sequence for the color. Unrecognized
// colors leave the text unstyled.
func (c Color) Paint(text string) string {
	code, ok := colorCodes[c]
	if !ok {
		return text
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, text)
}
