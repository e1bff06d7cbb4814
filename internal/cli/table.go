package cli

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiSequence matches SGR escape sequences such as colour swatches.
var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Table is a plain-text table with dynamic column widths. Cells may contain
// ANSI colour sequences; they do not count towards the column width.
type Table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int // Maximum width per column index (0 = no limit)
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		rows:      make([][]string, 0),
		padding:   2,
		maxWidths: make(map[int]int),
	}
}

// SetColumnMaxWidth wraps text in a column to at most maxWidth characters.
func (t *Table) SetColumnMaxWidth(colIndex int, maxWidth int) {
	t.maxWidths[colIndex] = maxWidth
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	normalised := make([]string, len(t.headers))
	copy(normalised, row)
	t.rows = append(t.rows, normalised)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	wrappedRows := make([][][]string, len(t.rows))
	for rowIdx, row := range t.rows {
		wrappedRows[rowIdx] = make([][]string, len(row))
		for colIdx, cell := range row {
			wrappedRows[rowIdx][colIdx] = wrapText(cell, t.maxWidths[colIdx])
		}
	}

	colWidths := make([]int, len(t.headers))
	for i, h := range t.headers {
		colWidths[i] = visibleWidth(h)
	}
	for _, wrappedRow := range wrappedRows {
		for i, wrappedCell := range wrappedRow {
			for _, line := range wrappedCell {
				colWidths[i] = max(colWidths[i], visibleWidth(line))
			}
		}
	}

	gap := strings.Repeat(" ", t.padding)
	var result strings.Builder
	writeLine := func(parts []string) {
		for i := range parts {
			parts[i] = padRight(parts[i], colWidths[i])
		}
		result.WriteString(strings.Join(parts, gap))
		result.WriteString("\n")
	}

	writeLine(append([]string(nil), t.headers...))

	sepParts := make([]string, len(t.headers))
	for i, w := range colWidths {
		sepParts[i] = strings.Repeat("-", w)
	}
	writeLine(sepParts)

	for _, wrappedRow := range wrappedRows {
		maxLines := 1
		for _, wrappedCell := range wrappedRow {
			maxLines = max(maxLines, len(wrappedCell))
		}

		for lineIdx := range maxLines {
			rowParts := make([]string, len(t.headers))
			for colIdx := range t.headers {
				if lineIdx < len(wrappedRow[colIdx]) {
					rowParts[colIdx] = wrappedRow[colIdx][lineIdx]
				}
			}
			writeLine(rowParts)
		}
	}

	return result.String()
}

// visibleWidth returns the number of runes in s, ignoring ANSI sequences.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiSequence.ReplaceAllString(s, ""))
}

// padRight pads s with spaces on the right to reach the desired visible width.
func padRight(s string, width int) string {
	w := visibleWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// wrapText wraps text to fit within width, breaking at word boundaries.
// Text containing ANSI sequences is never wrapped.
func wrapText(text string, width int) []string {
	if width <= 0 || visibleWidth(text) <= width || ansiSequence.MatchString(text) {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	currentLine := ""
	for _, word := range words {
		// Split words that are longer than the column on their own.
		if len(word) > width {
			if currentLine != "" {
				lines = append(lines, currentLine)
				currentLine = ""
			}
			for len(word) > width {
				lines = append(lines, word[:width])
				word = word[width:]
			}
			currentLine = word
			continue
		}

		testLine := currentLine
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		if len(testLine) <= width {
			currentLine = testLine
		} else {
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
