package output

import (
	"fmt"
	"strings"
)

// Alignment controls how a cell is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// TableColumn describes one column of a table.
type TableColumn struct {
	Header string
	Align  Alignment
}

// TableData is a table ready for rendering. Rows longer than the
// column list are truncated to it.
type TableData struct {
	Columns []TableColumn
	Rows    [][]string
}

// Table renders data with two spaces between columns, a bold header
// row, and a dashed separator.
func (f *Formatter) Table(data TableData) error {
	if len(data.Columns) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	widths := columnWidths(data)

	cells := make([]string, len(data.Columns))
	dashes := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		cells[i] = pad(col.Header, widths[i], col.Align)
		dashes[i] = strings.Repeat("-", widths[i])
	}
	if _, err := fmt.Fprintln(f.out, f.apply(styleBold, strings.Join(cells, "  "))); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f.out, strings.Join(dashes, "  ")); err != nil {
		return err
	}

	for _, row := range data.Rows {
		cells = cells[:0]
		for i, cell := range row {
			if i >= len(data.Columns) {
				break
			}
			cells = append(cells, pad(cell, widths[i], data.Columns[i].Align))
		}
		if _, err := fmt.Fprintln(f.out, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

// columnWidths sizes each column to its widest header or cell.
func columnWidths(data TableData) []int {
	widths := make([]int, len(data.Columns))
	for i, col := range data.Columns {
		widths[i] = len(col.Header)
	}
	for _, row := range data.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

func pad(text string, width int, align Alignment) string {
	gap := width - len(text)
	if gap <= 0 {
		return text
	}
	if align == AlignRight {
		return strings.Repeat(" ", gap) + text
	}
	return text + strings.Repeat(" ", gap)
}
