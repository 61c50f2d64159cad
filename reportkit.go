package reportkit

import (
	"github.com/docuflow/reportkit/pkg/api"
)

type Generator = api.Generator
type Options = api.Options
type Option = api.Option
type Style = api.Style
type Mode = api.Mode
type Payload = api.Payload
type Metrics = api.Metrics
type DocumentRow = api.DocumentRow
type EvidenceRow = api.EvidenceRow
type BreakdownRow = api.BreakdownRow

func New() (*Generator, error) { return api.New() }
func NewWithOptions(options Options, opts ...Option) (*Generator, error) {
	return api.NewWithOptions(options, opts...)
}
func DefaultOptions() Options { return api.DefaultOptions() }

var (
	WithStyle         = api.WithStyle
	WithDeterministic = api.WithDeterministic
	WithBranding      = api.WithBranding
	WithDebug         = api.WithDebug
)

const (
	StyleClassic = api.StyleClassic
	StyleCompact = api.StyleCompact

	ModeSummary    = api.ModeSummary
	ModeCompliance = api.ModeCompliance
)
