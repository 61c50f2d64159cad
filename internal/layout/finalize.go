package layout

import (
	"bytes"
	"fmt"
	"time"

	"github.com/docuflow/reportkit/internal/fonts"
)

// footerOffset is the distance between the footer baseline and the bottom
// trim of the page
const footerOffset = 18.0

// pinnedTimestamp is the creation/modification instant written in
// deterministic builds so output can be byte-compared
var pinnedTimestamp = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// FinalizeFooters stamps every emitted page with "{label} — Page {i} of {N}"
// right-aligned at the footer offset, and optionally a small branding mark
// on the left. It must run exactly once, after all content drawing; pages
// are immutable once stamped.
func (c *Context) FinalizeFooters(label string, branding bool) {
	total := c.doc.PageCount()
	th := c.theme
	baseY := c.geo.Height - footerOffset
	right := c.geo.Width - c.geo.MarginRight

	for i := 1; i <= total; i++ {
		c.doc.SetPage(i)
		c.ApplyFont(fonts.Regular, th.SmallSize)
		c.SetTextRGB(th.Muted)

		text := fmt.Sprintf("%s — Page %d of %d", label, i, total)
		w := c.fonts.TextWidth(fonts.Regular, th.SmallSize, text)
		c.Text(right-w, baseY, text)

		if branding {
			c.Text(c.geo.MarginLeft, baseY, "Powered by reportkit")
		}
	}
	// Leave the document on the last page in case Output diagnostics need it
	c.doc.SetPage(total)
}

// SaveOptions controls document metadata written at serialization time
type SaveOptions struct {
	Title string
	// Deterministic pins the creation and modification timestamps so two
	// builds with identical input produce identical bytes
	Deterministic bool
}

// Save sets document metadata, serializes the report, and consumes the
// context. The context must not be drawn to afterwards.
func (c *Context) Save(opts SaveOptions) ([]byte, error) {
	c.doc.SetTitle(opts.Title, true)
	c.doc.SetCreator("reportkit", true)
	c.doc.SetProducer("reportkit", true)

	stamp := time.Now()
	if opts.Deterministic {
		stamp = pinnedTimestamp
	}
	c.doc.SetCreationDate(stamp)
	c.doc.SetModificationDate(stamp)

	var buf bytes.Buffer
	if err := c.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	return buf.Bytes(), nil
}
