package layout

import (
	"math"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/docuflow/reportkit/internal/fonts"
)

// Logo display width bounds, in points. Requested widths are clamped so a
// broken intended-width value cannot blow up the header.
const (
	logoMinWidth     = 48.0
	logoMaxWidth     = 160.0
	logoDefaultWidth = 96.0
)

// HeaderBlock describes the report header drawn at the top of the first page
type HeaderBlock struct {
	Eyebrow  string
	Title    string
	Subtitle string
	// Meta lines are drawn right-aligned opposite the title block
	Meta []string
	// LogoWidth is the intended display width of the registered logo, in
	// points; zero selects the default
	LogoWidth float64
}

// DrawReportHeader draws the title block, right-aligned metadata, and the
// registered logo if one is present, followed by a rule.
func DrawReportHeader(c *Context, h HeaderBlock) {
	th := c.theme
	geo := c.geo

	textH := th.TitleSize + 6
	if h.Eyebrow != "" {
		textH += th.SmallSize + 4
	}
	if h.Subtitle != "" {
		textH += th.BodySize + 4
	}

	logoW, logoH := 0.0, 0.0
	if c.logo != nil && c.logo.Width > 0 {
		logoW = h.LogoWidth
		if logoW <= 0 {
			logoW = logoDefaultWidth
		}
		logoW = math.Min(math.Max(logoW, logoMinWidth), logoMaxWidth)
		logoH = logoW * float64(c.logo.Height) / float64(c.logo.Width)
	}

	metaH := float64(len(h.Meta)) * (th.SmallSize + 3)
	rightH := metaH
	if th.LogoRight && logoH > 0 {
		rightH += logoH + 6
	}

	blockH := math.Max(textH, rightH)
	if !th.LogoRight {
		blockH = math.Max(blockH, logoH)
	}
	c.EnsureSpace(blockH + 18)

	top := c.TopY()
	left := geo.MarginLeft
	right := geo.Width - geo.MarginRight

	if c.logo != nil && logoW > 0 {
		logoX := left
		if th.LogoRight {
			logoX = right - logoW
		} else {
			// Offset the title block so it never overlaps the mark
			left += logoW + 14
		}
		c.drawRegisteredLogo(logoX, top, logoW, logoH)
	}

	y := top
	if h.Eyebrow != "" {
		c.ApplyFont(fonts.Bold, th.SmallSize)
		c.SetTextRGB(th.Muted)
		c.Text(left, y+th.SmallSize, strings.ToUpper(h.Eyebrow))
		y += th.SmallSize + 4
	}
	c.ApplyFont(fonts.Bold, th.TitleSize)
	c.SetTextRGB(th.Text)
	c.Text(left, y+th.TitleSize, h.Title)
	y += th.TitleSize + 6
	if h.Subtitle != "" {
		c.ApplyFont(fonts.Regular, th.BodySize)
		c.SetTextRGB(th.Muted)
		c.Text(left, y+th.BodySize, h.Subtitle)
	}

	metaY := top
	if th.LogoRight && logoH > 0 {
		metaY += logoH + 6
	}
	c.ApplyFont(fonts.Regular, th.SmallSize)
	c.SetTextRGB(th.Muted)
	for _, m := range h.Meta {
		w := c.fonts.TextWidth(fonts.Regular, th.SmallSize, m)
		c.Text(right-w, metaY+th.SmallSize, m)
		metaY += th.SmallSize + 3
	}

	ruleY := top + blockH + 8
	c.SetDrawRGB(th.Rule)
	c.doc.SetLineWidth(0.8)
	c.doc.Line(geo.MarginLeft, ruleY, right, ruleY)

	c.Advance(blockH + 18)
}

// DrawSectionHeading draws a bold heading with a thin rule underneath
func DrawSectionHeading(c *Context, label string) {
	th := c.theme
	height := th.HeadingSize + 14
	// Reserve the trailing gap too, so the advance below cannot push the
	// cursor past the bottom margin
	c.EnsureSpace(height + 4)

	top := c.TopY()
	right := c.geo.Width - c.geo.MarginRight
	c.ApplyFont(fonts.Bold, th.HeadingSize)
	c.SetTextRGB(th.Text)
	c.Text(c.geo.MarginLeft, top+4+th.HeadingSize, label)
	c.SetDrawRGB(th.Rule)
	c.doc.SetLineWidth(0.5)
	c.doc.Line(c.geo.MarginLeft, top+height-2, right, top+height-2)

	c.Advance(height + 4)
}

// keyColumnWidth is the fixed label column of a key-value row
const keyColumnWidth = 150.0

// DrawKeyValueRow draws one label/value pair on a single line
func DrawKeyValueRow(c *Context, key, value string) {
	th := c.theme
	height := th.LineHeight
	c.EnsureSpace(height)

	base := c.TopY() + th.BodySize
	c.ApplyFont(fonts.Bold, th.BodySize)
	c.SetTextRGB(th.Muted)
	c.Text(c.geo.MarginLeft, base, key)
	c.ApplyFont(fonts.Regular, th.BodySize)
	c.SetTextRGB(th.Text)
	c.Text(c.geo.MarginLeft+keyColumnWidth, base, value)

	c.Advance(height)
}

// DrawParagraph wraps text across the printable width and draws it
func DrawParagraph(c *Context, text string) {
	th := c.theme
	lines := c.fonts.Wrap(fonts.Regular, th.BodySize, c.geo.PrintableWidth(), 0, text)
	height := float64(len(lines))*th.LineHeight + 4
	c.EnsureSpace(height)

	c.ApplyFont(fonts.Regular, th.BodySize)
	c.SetTextRGB(th.Text)
	y := c.TopY()
	for _, line := range lines {
		c.Text(c.geo.MarginLeft, y+th.BodySize, line)
		y += th.LineHeight
	}

	c.Advance(height)
}

// MetricCard is one KPI tile in a card row
type MetricCard struct {
	Label   string
	Value   string
	Caption string
}

const (
	cardHeight = 58.0
	cardGap    = 10.0
)

// DrawMetricCards lays out cards horizontally, perRow to a row, dividing the
// printable width evenly. This is the only primitive that advances the
// cursor after placing content side by side.
func DrawMetricCards(c *Context, cards []MetricCard, perRow int) {
	if len(cards) == 0 || perRow <= 0 {
		return
	}
	th := c.theme
	cardW := (c.geo.PrintableWidth() - cardGap*float64(perRow-1)) / float64(perRow)

	for start := 0; start < len(cards); start += perRow {
		row := cards[start:min(start+perRow, len(cards))]
		c.EnsureSpace(cardHeight + cardGap)
		top := c.TopY()

		for i, card := range row {
			x := c.geo.MarginLeft + float64(i)*(cardW+cardGap)
			c.SetDrawRGB(th.Rule)
			c.doc.SetLineWidth(0.8)
			c.doc.RoundedRect(x, top, cardW, cardHeight, 4, "1234", "D")

			c.ApplyFont(fonts.Bold, th.SmallSize)
			c.SetTextRGB(th.Muted)
			c.Text(x+10, top+10+th.SmallSize, strings.ToUpper(card.Label))

			c.ApplyFont(fonts.Bold, 18)
			c.SetTextRGB(th.Accent)
			c.Text(x+10, top+34, card.Value)

			if card.Caption != "" {
				c.ApplyFont(fonts.Regular, th.SmallSize)
				c.SetTextRGB(th.Muted)
				c.Text(x+10, top+48, card.Caption)
			}
		}

		c.Advance(cardHeight + cardGap)
	}
}

// drawRegisteredLogo places the registered logo image at a fixed box
func (c *Context) drawRegisteredLogo(x, y, w, h float64) {
	c.doc.ImageOptions(logoImageName, x, y, w, h, false,
		fpdf.ImageOptions{ImageType: c.logo.Format}, 0, "")
}
