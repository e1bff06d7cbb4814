package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for 24-bit terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// ColourPreview returns a solid block of the colour, width cells wide.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bg + strings.Repeat(" ", width) + ansiReset
}

// ColourPreviewWithText returns a block of the colour with centred text in
// black or white, whichever contrasts more.
func ColourPreviewWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	fg := RGB{R: 255, G: 255, B: 255}
	if ContrastRatio(c, RGB{}) > ContrastRatio(c, fg) {
		fg = RGB{}
	}

	displayText := text
	if len(text) > width {
		displayText = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	fgSeq := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, fg.R, fg.G, fg.B, ansiSuffix)
	return bg + fgSeq + displayText + ansiReset
}

// FormatColourWithLabel formats a colour as its preview block, hex code and
// a label.
func FormatColourWithLabel(rgb RGB, label string, width int) string {
	return fmt.Sprintf("%s %s  %s", ColourPreview(rgb, width), rgb.Hex(), label)
}

// SwatchRow renders hex colours as a row of labelled blocks. Invalid entries
// are rendered as plain text.
func SwatchRow(hexes []string, width int) string {
	cells := make([]string, 0, len(hexes))
	for _, h := range hexes {
		rgb, err := ParseHex(h)
		if err != nil {
			cells = append(cells, h)
			continue
		}
		cells = append(cells, ColourPreviewWithText(rgb, rgb.Hex(), width))
	}
	return strings.Join(cells, " ")
}
