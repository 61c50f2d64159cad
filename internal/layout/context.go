package layout

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"github.com/docuflow/reportkit/internal/fonts"
	"github.com/docuflow/reportkit/internal/imaging"
)

// Geometry describes the page size and margins, in points
type Geometry struct {
	Width  float64
	Height float64

	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
}

// Validate rejects degenerate geometry before any content is drawn
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid page size %.2f x %.2f", g.Width, g.Height)
	}
	if g.MarginLeft >= g.Width/2 || g.MarginRight >= g.Width/2 {
		return fmt.Errorf("horizontal margins exceed half the page width")
	}
	if g.MarginTop >= g.Height/2 || g.MarginBottom >= g.Height/2 {
		return fmt.Errorf("vertical margins exceed half the page height")
	}
	return nil
}

// PrintableWidth returns the width available between the side margins
func (g Geometry) PrintableWidth() float64 {
	return g.Width - g.MarginLeft - g.MarginRight
}

// UsableHeight returns the content height available between the margins
func (g Geometry) UsableHeight() float64 {
	return g.Height - g.MarginTop - g.MarginBottom
}

// Theme holds the color and type-scale tokens for one report. It is
// immutable for the lifetime of a build.
type Theme struct {
	TitleSize   float64
	HeadingSize float64
	BodySize    float64
	SmallSize   float64
	LineHeight  float64

	Text   [3]int
	Muted  [3]int
	Rule   [3]int
	Accent [3]int

	// LogoRight anchors the header logo at the top-right instead of top-left
	LogoRight bool
}

// Context is the single mutable handle for one report build. It owns the
// output document, the cursor, and the page geometry; every drawing
// operation goes through it. A Context must not be shared between builds.
type Context struct {
	doc   *fpdf.Fpdf
	geo   Geometry
	theme Theme
	fonts *fonts.FontSet

	// cursor position in page-local coordinates; y counts the distance
	// from the bottom edge of the page and only ever decreases within a
	// page
	x float64
	y float64

	logo *imaging.Logo

	// Debug enables verbose layout tracing to stdout
	Debug bool
}

// NewContext creates a context with one initial page and the cursor at the
// top margin
func NewContext(theme Theme, geo Geometry, fs *fonts.FontSet) (*Context, error) {
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("invalid page geometry: %w", err)
	}
	if fs == nil {
		var err error
		fs, err = fonts.NewSet()
		if err != nil {
			return nil, err
		}
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: geo.Width, Ht: geo.Height},
	})
	// Pagination decisions belong to EnsureSpace, never to the document
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(geo.MarginLeft, geo.MarginTop, geo.MarginRight)
	doc.AddPage()
	if doc.Err() {
		return nil, fmt.Errorf("failed to initialize document: %s", doc.Error())
	}

	return &Context{
		doc:   doc,
		geo:   geo,
		theme: theme,
		fonts: fs,
		x:     geo.MarginLeft,
		y:     geo.Height - geo.MarginTop,
	}, nil
}

// Doc exposes the underlying document to drawing code
func (c *Context) Doc() *fpdf.Fpdf { return c.doc }

// Fonts returns the measurement provider for this build
func (c *Context) Fonts() *fonts.FontSet { return c.fonts }

// Geometry returns the page geometry
func (c *Context) Geometry() Geometry { return c.geo }

// Theme returns the theme tokens
func (c *Context) Theme() Theme { return c.theme }

// PageCount returns the number of pages emitted so far
func (c *Context) PageCount() int { return c.doc.PageCount() }

// CursorY returns the remaining distance between the cursor and the bottom
// edge of the current page
func (c *Context) CursorY() float64 { return c.y }

// TopY converts the cursor into the document's top-left coordinate space
func (c *Context) TopY() float64 { return c.geo.Height - c.y }

// EnsureSpace is the single pagination decision point. If height does not
// fit above the bottom margin it starts a new page, resets the cursor to the
// top margin, and reports true so the caller can redraw repeating headers.
func (c *Context) EnsureSpace(height float64) bool {
	if c.y-height < c.geo.MarginBottom {
		c.doc.AddPage()
		c.x = c.geo.MarginLeft
		c.y = c.geo.Height - c.geo.MarginTop
		if c.Debug {
			fmt.Printf("page break: need %.1fpt, starting page %d\n", height, c.doc.PageCount())
		}
		return true
	}
	return false
}

// Advance moves the cursor down by dy. Callers with a known height must
// call EnsureSpace first; Advance itself never paginates.
func (c *Context) Advance(dy float64) {
	c.y -= dy
}

// SetLogo registers a decoded logo with the document. A nil logo is allowed
// and leaves the header without a brand mark.
func (c *Context) SetLogo(logo *imaging.Logo) {
	if logo == nil {
		return
	}
	c.doc.RegisterImageOptionsReader(logoImageName,
		fpdf.ImageOptions{ImageType: logo.Format}, bytes.NewReader(logo.Data))
	if c.doc.Err() {
		// Registration failure downgrades to a missing logo; the build
		// must not abort over brand art.
		c.doc.ClearError()
		return
	}
	c.logo = logo
}

// Logo returns the registered logo, or nil
func (c *Context) Logo() *imaging.Logo { return c.logo }

// SetCompression toggles content stream compression on the underlying
// document. Uncompressed output is useful when asserting on page content.
func (c *Context) SetCompression(compress bool) {
	c.doc.SetCompression(compress)
}

// logoImageName is fixed so identical input yields identical resource
// dictionaries in deterministic builds.
const logoImageName = "brand-logo"

// ApplyFont applies a face at the given size to the drawing document
func (c *Context) ApplyFont(face fonts.Face, size float64) {
	fam, sty := face.Resolve()
	c.doc.SetFont(fam, sty, size)
}

// Text draws s with its left edge at x and baseline at y, translating to the
// core-font encoding
func (c *Context) Text(x, y float64, s string) {
	c.doc.Text(x, y, c.fonts.Translate(s))
}

// SetTextRGB sets the text color from a theme token
func (c *Context) SetTextRGB(rgb [3]int) {
	c.doc.SetTextColor(rgb[0], rgb[1], rgb[2])
}

// SetDrawRGB sets the stroke color from a theme token
func (c *Context) SetDrawRGB(rgb [3]int) {
	c.doc.SetDrawColor(rgb[0], rgb[1], rgb[2])
}
