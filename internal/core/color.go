package core

// Color is the foreground color of a screen cell.
// Values map to ANSI 256-color codes in the platform layer.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDimGray
	ColorGold
	ColorSilver
	ColorBronze
)

// Traffic returns green, yellow or red depending on which band v falls in.
// Values below good are green, below warn yellow, anything else red.
func Traffic(v, good, warn float64) Color {
	switch {
	case v < good:
		return ColorBrightGreen
	case v < warn:
		return ColorBrightYellow
	default:
		return ColorBrightRed
	}
}
