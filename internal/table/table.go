// Package table renders a generic row collection against a column
// specification, handling width resolution, cell wrapping, per-row page
// breaks, and header repetition.
package table

import (
	"fmt"
	"strings"

	"github.com/docuflow/reportkit/internal/fonts"
	"github.com/docuflow/reportkit/internal/layout"
)

// Align selects horizontal cell alignment
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column. Exactly one of Width (fixed mode) or
// MinWidth (flexible mode) drives width resolution.
type Column struct {
	// Key is unique within a table and names the column in diagnostics
	Key string
	// Header is the label drawn in the header row
	Header string
	// Value extracts the cell text from an opaque row. A Value that
	// panics is a caller contract violation and is not recovered.
	Value func(row any) string

	// Flex marks the column as flexible: its width is computed from the
	// space remaining after fixed columns, bounded below by MinWidth
	Flex     bool
	Width    float64
	MinWidth float64

	Align Align
	// MaxLines caps wrapped lines for this column; zero means one line.
	// The table-wide MaxCellLines is an upper bound.
	MaxLines int
	// Face overrides the body face for this column; empty means regular
	Face fonts.Face
}

// Spec describes a complete table. Rows are immutable snapshots consumed
// only through the column extractors; the engine never mutates caller data.
type Spec struct {
	Columns []Column
	Rows    []any

	// RepeatHeader redraws the header row at the top of every page the
	// table spans
	RepeatHeader bool

	FontSize       float64
	HeaderFontSize float64
	LineHeight     float64
	// MaxCellLines caps wrapped lines for every cell in the table
	MaxCellLines int

	// Placeholder is rendered as a single body row when Rows is empty so
	// a table section always occupies a header plus one row
	Placeholder string
}

// Cell padding, in points
const (
	cellPadV = 3.0
	cellPadH = 6.0
)

// Defaults applied by normalize
const (
	defaultFontSize       = 9.0
	defaultHeaderFontSize = 8.0
	defaultMaxCellLines   = 3
	defaultPlaceholder    = "No data available"
)

func normalize(spec Spec) Spec {
	if spec.FontSize <= 0 {
		spec.FontSize = defaultFontSize
	}
	if spec.HeaderFontSize <= 0 {
		spec.HeaderFontSize = defaultHeaderFontSize
	}
	if spec.LineHeight <= 0 {
		spec.LineHeight = spec.FontSize * 1.45
	}
	if spec.MaxCellLines <= 0 {
		spec.MaxCellLines = defaultMaxCellLines
	}
	if spec.Placeholder == "" {
		spec.Placeholder = defaultPlaceholder
	}
	cols := make([]Column, len(spec.Columns))
	copy(cols, spec.Columns)
	for i := range cols {
		if cols[i].MaxLines <= 0 {
			cols[i].MaxLines = 1
		}
		if cols[i].MaxLines > spec.MaxCellLines {
			cols[i].MaxLines = spec.MaxCellLines
		}
		if cols[i].Face == "" {
			cols[i].Face = fonts.Regular
		}
	}
	spec.Columns = cols
	return spec
}

// ResolveWidths computes the per-column widths for the whole table in a
// single deterministic pass. Fixed columns keep their declared width; the
// remaining width is distributed across flexible columns in proportion to
// their minimums, floored at each minimum. A flexible column without a
// minimum takes whatever remains after the others are satisfied, so the
// minimum-bearing columns are scaled up only when no such column exists.
// A flexible column is never narrower than its declared minimum even when
// that makes the row exceed printableWidth: overflow is accepted over
// illegible columns.
func ResolveWidths(cols []Column, printableWidth float64) []float64 {
	widths := make([]float64, len(cols))

	fixedTotal := 0.0
	minSum := 0.0
	openIdx := -1 // the at-most-one flexible column without a minimum
	for i, col := range cols {
		if !col.Flex {
			widths[i] = col.Width
			fixedTotal += col.Width
			continue
		}
		if col.MinWidth > 0 {
			minSum += col.MinWidth
		} else {
			openIdx = i
		}
	}

	flex := printableWidth - fixedTotal
	if flex < 0 {
		flex = 0
	}

	scaleUp := openIdx < 0 && minSum > 0 && flex > minSum
	allocated := 0.0
	for i, col := range cols {
		if !col.Flex || col.MinWidth <= 0 {
			continue
		}
		w := col.MinWidth
		if scaleUp {
			w = flex * col.MinWidth / minSum
		}
		widths[i] = w
		allocated += w
	}

	if openIdx >= 0 {
		rest := flex - allocated
		if rest < 0 {
			rest = 0
		}
		widths[openIdx] = rest
	}
	return widths
}

// Render draws the table at the context cursor, paginating row by row.
// An empty column set is a caller contract violation.
func Render(c *layout.Context, spec Spec) error {
	if len(spec.Columns) == 0 {
		return fmt.Errorf("table has no columns")
	}
	spec = normalize(spec)

	geo := c.Geometry()
	widths := ResolveWidths(spec.Columns, geo.PrintableWidth())
	tableWidth := 0.0
	for _, w := range widths {
		tableWidth += w
	}
	if c.Debug {
		fmt.Printf("table: %d columns, %d rows, width %.1fpt of %.1fpt printable\n",
			len(spec.Columns), len(spec.Rows), tableWidth, geo.PrintableWidth())
	}

	headerH := spec.LineHeight + 2*cellPadV
	rowMinH := spec.LineHeight + 2*cellPadV

	// The header never sits alone at the bottom of a page
	c.EnsureSpace(headerH + rowMinH)
	drawHeader(c, spec, widths, tableWidth, headerH)

	if len(spec.Rows) == 0 {
		drawPlaceholder(c, spec, tableWidth, rowMinH)
		return nil
	}

	for _, row := range spec.Rows {
		cells := make([][]string, len(spec.Columns))
		lineCount := 1
		for i, col := range spec.Columns {
			avail := widths[i] - 2*cellPadH
			cells[i] = c.Fonts().Wrap(col.Face, spec.FontSize, avail, col.MaxLines, col.Value(row))
			if n := len(cells[i]); n > lineCount {
				lineCount = n
			}
		}
		rowH := float64(lineCount)*spec.LineHeight + 2*cellPadV

		if c.EnsureSpace(rowH) && spec.RepeatHeader {
			drawHeader(c, spec, widths, tableWidth, headerH)
		}

		top := c.TopY()
		x := geo.MarginLeft
		c.SetTextRGB(c.Theme().Text)
		for i, col := range spec.Columns {
			c.ApplyFont(col.Face, spec.FontSize)
			for li, line := range cells[i] {
				lineY := top + cellPadV + float64(li)*spec.LineHeight + spec.FontSize
				tx := x + cellPadH
				if col.Align == AlignRight {
					w := c.Fonts().TextWidth(col.Face, spec.FontSize, line)
					tx = x + widths[i] - cellPadH - w
				}
				c.Text(tx, lineY, line)
			}
			x += widths[i]
		}

		c.SetDrawRGB(c.Theme().Rule)
		c.Doc().SetLineWidth(0.3)
		c.Doc().Line(geo.MarginLeft, top+rowH, geo.MarginLeft+tableWidth, top+rowH)

		c.Advance(rowH)
	}
	return nil
}

// drawHeader draws the header row at the cursor and advances past it
func drawHeader(c *layout.Context, spec Spec, widths []float64, tableWidth, headerH float64) {
	geo := c.Geometry()
	top := c.TopY()

	c.ApplyFont(fonts.Bold, spec.HeaderFontSize)
	c.SetTextRGB(c.Theme().Muted)
	x := geo.MarginLeft
	for i, col := range spec.Columns {
		label := strings.ToUpper(col.Header)
		tx := x + cellPadH
		if col.Align == AlignRight {
			w := c.Fonts().TextWidth(fonts.Bold, spec.HeaderFontSize, label)
			tx = x + widths[i] - cellPadH - w
		}
		c.Text(tx, top+cellPadV+spec.HeaderFontSize, label)
		x += widths[i]
	}

	c.SetDrawRGB(c.Theme().Text)
	c.Doc().SetLineWidth(0.8)
	c.Doc().Line(geo.MarginLeft, top+headerH, geo.MarginLeft+tableWidth, top+headerH)

	c.Advance(headerH)
}

// drawPlaceholder emits the single body row used for empty row collections
func drawPlaceholder(c *layout.Context, spec Spec, tableWidth, rowH float64) {
	c.EnsureSpace(rowH)
	top := c.TopY()

	c.ApplyFont(fonts.Regular, spec.FontSize)
	c.SetTextRGB(c.Theme().Muted)
	c.Text(c.Geometry().MarginLeft+cellPadH, top+cellPadV+spec.FontSize, spec.Placeholder)

	c.SetDrawRGB(c.Theme().Rule)
	c.Doc().SetLineWidth(0.3)
	c.Doc().Line(c.Geometry().MarginLeft, top+rowH, c.Geometry().MarginLeft+tableWidth, top+rowH)

	c.Advance(rowH)
}
