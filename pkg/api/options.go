package api

import "github.com/docuflow/reportkit/internal/layout"

// Style selects one of the discrete report style presets. Page size and
// margins are fixed per preset and never user-configurable per request.
type Style string

const (
	// StyleClassic is a landscape A4 layout with generous margins
	StyleClassic Style = "classic"
	// StyleCompact is a landscape A4 layout with tighter margins and a
	// smaller type scale
	StyleCompact Style = "compact"
)

// Options represents configuration options for the report generator
type Options struct {
	// Style selects the report style preset
	Style Style

	// Deterministic pins timestamps and ordering-sensitive content so
	// identical input yields identical output bytes. Intended for
	// test/CI use only, never exposed to end users.
	Deterministic bool

	// Branding draws the "Powered by reportkit" mark in page footers
	Branding bool

	// Debug enables verbose layout tracing to stdout
	Debug bool
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Style:         StyleClassic,
		Deterministic: false,
		Branding:      true,
		Debug:         false,
	}
}

// WithStyle selects a style preset
func WithStyle(style Style) Option {
	return func(o *Options) {
		o.Style = style
	}
}

// WithDeterministic toggles byte-reproducible output
func WithDeterministic(deterministic bool) Option {
	return func(o *Options) {
		o.Deterministic = deterministic
	}
}

// WithBranding toggles the footer branding mark
func WithBranding(branding bool) Option {
	return func(o *Options) {
		o.Branding = branding
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// Landscape A4, in points
const (
	pageWidthA4Landscape  = 841.89
	pageHeightA4Landscape = 595.28
)

// styleGeometry resolves a preset into its fixed page geometry
func styleGeometry(style Style) layout.Geometry {
	geo := layout.Geometry{
		Width:        pageWidthA4Landscape,
		Height:       pageHeightA4Landscape,
		MarginTop:    40,
		MarginRight:  46,
		MarginBottom: 40,
		MarginLeft:   46,
	}
	if style == StyleCompact {
		geo.MarginTop = 38
		geo.MarginRight = 38
		geo.MarginBottom = 38
		geo.MarginLeft = 38
	}
	return geo
}

// styleTheme resolves a preset into its theme tokens
func styleTheme(style Style) layout.Theme {
	theme := layout.Theme{
		TitleSize:   22,
		HeadingSize: 13,
		BodySize:    10,
		SmallSize:   7.5,
		LineHeight:  14,

		Text:   [3]int{44, 62, 80},
		Muted:  [3]int{127, 140, 141},
		Rule:   [3]int{220, 224, 228},
		Accent: [3]int{30, 58, 95},

		LogoRight: true,
	}
	if style == StyleCompact {
		theme.TitleSize = 18
		theme.HeadingSize = 11.5
		theme.BodySize = 9
		theme.SmallSize = 7
		theme.LineHeight = 12.5
	}
	return theme
}
