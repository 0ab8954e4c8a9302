package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// variantColors is the block palette, one entry per piece shape (I J L O S T Z).
var variantColors = [...]Color{
	ColorBrightCyan,
	ColorBlue,
	ColorOrange,
	ColorBrightYellow,
	ColorBrightGreen,
	ColorMagenta,
	ColorBrightRed,
}

// PaletteSize is the number of block variants with a distinct color.
const PaletteSize = len(variantColors)

// VariantColor maps a block variant to its color. Variants wrap around the palette.
func VariantColor(variant int) Color {
	if variant < 0 {
		variant = -variant
	}
	return variantColors[variant%PaletteSize]
}
