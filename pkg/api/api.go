// Package api is the public surface of the report rendering engine. It
// composes the layout context, drawing primitives, table engine, and
// finalization into the two report shapes the dashboard serves, driven by a
// declarative section recipe so new shapes are data rather than engine code.
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/docuflow/reportkit/internal/fonts"
	"github.com/docuflow/reportkit/internal/imaging"
	"github.com/docuflow/reportkit/internal/layout"
	"github.com/docuflow/reportkit/internal/table"
	"github.com/docuflow/reportkit/internal/text"
)

// Mode selects which section set a report carries
type Mode string

const (
	// ModeSummary is the KPI-oriented view: metric cards plus breakdown
	// tables
	ModeSummary Mode = "summary"
	// ModeCompliance is the evidence-oriented view: the document register
	// plus the acknowledgement event log
	ModeCompliance Mode = "compliance"
)

// Metrics carries the pre-aggregated counts produced by the data layer
type Metrics struct {
	Delivered    int
	Opened       int
	Acknowledged int
	// OpenRate and AckRate are percentages in [0, 100]
	OpenRate float64
	AckRate  float64
	// AvgAckSeconds is the mean time from delivery to acknowledgement
	AvgAckSeconds float64
}

// DocumentRow is one tracked document in the register table
type DocumentRow struct {
	Title     string
	Recipient string
	Status    string
	SentAt    time.Time
	// OpenedAt and AcknowledgedAt are nil until the event occurs
	OpenedAt       *time.Time
	AcknowledgedAt *time.Time
	// Notes may contain rich-text fragments from the dashboard; they are
	// flattened to plain text before layout
	Notes string
}

// EvidenceRow is one acknowledgement-trail event
type EvidenceRow struct {
	OccurredAt time.Time
	Document   string
	Recipient  string
	Event      string
	SourceAddr string
}

// BreakdownRow is one label/count/share line in a breakdown table
type BreakdownRow struct {
	Label string
	Count int
	// Share is a percentage in [0, 100]
	Share float64
}

// Payload is the complete input for one report build, produced by the
// aggregation layer. The engine never mutates it.
type Payload struct {
	Workspace string
	// Logo is optional raster or SVG bytes; broken input is skipped
	Logo []byte
	// LogoWidth is the intended display width in points; zero selects
	// the default
	LogoWidth   float64
	GeneratedAt time.Time
	Mode        Mode

	Metrics            Metrics
	Documents          []DocumentRow
	Evidence           []EvidenceRow
	StatusBreakdown    []BreakdownRow
	RecipientBreakdown []BreakdownRow
}

// Generator renders report payloads to PDF bytes. The font set is loaded
// once and shared read-only, so a single Generator is safe for concurrent
// builds; each build constructs and discards its own context.
type Generator struct {
	options Options
	fonts   *fonts.FontSet
}

// New creates a generator with default options
func New() (*Generator, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a generator with the specified options. It fails
// only when font registration fails.
func NewWithOptions(options Options, opts ...Option) (*Generator, error) {
	for _, opt := range opts {
		opt(&options)
	}
	fs, err := fonts.NewSet()
	if err != nil {
		return nil, err
	}
	return &Generator{options: options, fonts: fs}, nil
}

// Generate builds one report and returns the serialized PDF bytes
func (g *Generator) Generate(p Payload) ([]byte, error) {
	if strings.TrimSpace(p.Workspace) == "" {
		return nil, fmt.Errorf("payload has no workspace name")
	}
	mode := p.Mode
	if mode == "" {
		mode = ModeSummary
	}

	ctx, err := layout.NewContext(styleTheme(g.options.Style), styleGeometry(g.options.Style), g.fonts)
	if err != nil {
		return nil, err
	}
	ctx.Debug = g.options.Debug

	ctx.SetLogo(imaging.DecodeLogo(p.Logo))

	layout.DrawReportHeader(ctx, layout.HeaderBlock{
		Eyebrow:  "Delivery report",
		Title:    p.Workspace,
		Subtitle: modeSubtitle(mode),
		Meta: []string{
			"Generated " + p.GeneratedAt.Format("2006-01-02 15:04 MST"),
			fmt.Sprintf("%d documents tracked", p.Metrics.Delivered),
		},
		LogoWidth: p.LogoWidth,
	})

	for _, s := range buildRecipe(p, mode) {
		if err := renderSection(ctx, s); err != nil {
			return nil, err
		}
	}

	ctx.FinalizeFooters(p.Workspace, g.options.Branding)
	return ctx.Save(layout.SaveOptions{
		Title:         fmt.Sprintf("%s — Delivery Report", p.Workspace),
		Deterministic: g.options.Deterministic,
	})
}

func modeSubtitle(mode Mode) string {
	if mode == ModeCompliance {
		return "Acknowledgement evidence"
	}
	return "Delivery and engagement summary"
}

// sectionKind enumerates the section types a recipe may carry
type sectionKind int

const (
	sectionHeading sectionKind = iota
	sectionKeyValues
	sectionCards
	sectionTable
	sectionParagraph
)

// section is one entry in a report recipe
type section struct {
	kind    sectionKind
	label   string
	pairs   [][2]string
	cards   []layout.MetricCard
	perRow  int
	table   table.Spec
	content string
}

// renderSection interprets one recipe entry against the context
func renderSection(ctx *layout.Context, s section) error {
	switch s.kind {
	case sectionHeading:
		layout.DrawSectionHeading(ctx, s.label)
	case sectionKeyValues:
		for _, kv := range s.pairs {
			layout.DrawKeyValueRow(ctx, kv[0], kv[1])
		}
		ctx.Advance(6)
	case sectionCards:
		layout.DrawMetricCards(ctx, s.cards, s.perRow)
	case sectionParagraph:
		layout.DrawParagraph(ctx, s.content)
	case sectionTable:
		if err := table.Render(ctx, s.table); err != nil {
			return fmt.Errorf("failed to render %q table: %w", s.label, err)
		}
		ctx.Advance(10)
	}
	return nil
}

// buildRecipe maps a payload and mode onto an ordered section list. Report
// shapes live here as data; the engine stays generic.
func buildRecipe(p Payload, mode Mode) []section {
	summary := section{kind: sectionKeyValues, pairs: [][2]string{
		{"Workspace", p.Workspace},
		{"Documents delivered", fmt.Sprintf("%d", p.Metrics.Delivered)},
		{"Opened", fmt.Sprintf("%d (%.1f%%)", p.Metrics.Opened, p.Metrics.OpenRate)},
		{"Acknowledged", fmt.Sprintf("%d (%.1f%%)", p.Metrics.Acknowledged, p.Metrics.AckRate)},
		{"Avg. time to acknowledge", formatSeconds(p.Metrics.AvgAckSeconds)},
	}}

	if mode == ModeCompliance {
		return []section{
			{kind: sectionHeading, label: "Summary"},
			summary,
			{kind: sectionHeading, label: "Document register"},
			{kind: sectionTable, label: "document register", table: documentTable(p.Documents)},
			{kind: sectionHeading, label: "Acknowledgement evidence"},
			{kind: sectionTable, label: "acknowledgement evidence", table: evidenceTable(p.Evidence)},
		}
	}

	return []section{
		{kind: sectionCards, perRow: 4, cards: []layout.MetricCard{
			{Label: "Delivered", Value: fmt.Sprintf("%d", p.Metrics.Delivered), Caption: "documents sent"},
			{Label: "Open rate", Value: fmt.Sprintf("%.1f%%", p.Metrics.OpenRate), Caption: fmt.Sprintf("%d opened", p.Metrics.Opened)},
			{Label: "Ack rate", Value: fmt.Sprintf("%.1f%%", p.Metrics.AckRate), Caption: fmt.Sprintf("%d acknowledged", p.Metrics.Acknowledged)},
			{Label: "Time to ack", Value: formatSeconds(p.Metrics.AvgAckSeconds), Caption: "average"},
		}},
		{kind: sectionHeading, label: "Summary"},
		summary,
		{kind: sectionHeading, label: "Status breakdown"},
		{kind: sectionTable, label: "status breakdown", table: breakdownTable(p.StatusBreakdown, "Status", "No status activity in the reporting window")},
		{kind: sectionHeading, label: "Recipient breakdown"},
		{kind: sectionTable, label: "recipient breakdown", table: breakdownTable(p.RecipientBreakdown, "Recipient", "No recipient activity in the reporting window")},
	}
}

// timestampFormat keeps timestamp columns within their fixed mono width
const timestampFormat = "2006-01-02 15:04"

func documentTable(rows []DocumentRow) table.Spec {
	return table.Spec{
		Columns: []table.Column{
			{Key: "title", Header: "Document", Flex: true, MinWidth: 150, MaxLines: 2,
				Value: func(r any) string { return r.(DocumentRow).Title }},
			{Key: "recipient", Header: "Recipient", Flex: true, MinWidth: 110,
				Value: func(r any) string { return r.(DocumentRow).Recipient }},
			{Key: "status", Header: "Status", Width: 68,
				Value: func(r any) string { return r.(DocumentRow).Status }},
			{Key: "sent", Header: "Sent", Width: 100, Face: fonts.Mono,
				Value: func(r any) string { return r.(DocumentRow).SentAt.Format(timestampFormat) }},
			{Key: "opened", Header: "Opened", Width: 100, Face: fonts.Mono,
				Value: func(r any) string { return formatOptionalTime(r.(DocumentRow).OpenedAt) }},
			{Key: "acked", Header: "Acknowledged", Width: 100, Face: fonts.Mono,
				Value: func(r any) string { return formatOptionalTime(r.(DocumentRow).AcknowledgedAt) }},
			{Key: "notes", Header: "Notes", Flex: true, MinWidth: 120, MaxLines: 3,
				Value: func(r any) string { return text.Flatten(r.(DocumentRow).Notes) }},
		},
		Rows:         asRows(rows),
		RepeatHeader: true,
		Placeholder:  "No documents in the reporting window",
	}
}

func evidenceTable(rows []EvidenceRow) table.Spec {
	return table.Spec{
		Columns: []table.Column{
			{Key: "at", Header: "Timestamp", Width: 110, Face: fonts.Mono,
				Value: func(r any) string { return r.(EvidenceRow).OccurredAt.Format(timestampFormat) }},
			{Key: "document", Header: "Document", Flex: true, MinWidth: 170, MaxLines: 2,
				Value: func(r any) string { return r.(EvidenceRow).Document }},
			{Key: "recipient", Header: "Recipient", Flex: true, MinWidth: 130,
				Value: func(r any) string { return r.(EvidenceRow).Recipient }},
			{Key: "event", Header: "Event", Width: 90,
				Value: func(r any) string { return r.(EvidenceRow).Event }},
			{Key: "source", Header: "Source", Width: 100, Face: fonts.Mono, Align: table.AlignRight,
				Value: func(r any) string { return r.(EvidenceRow).SourceAddr }},
		},
		Rows:         asRows(rows),
		RepeatHeader: true,
		Placeholder:  "No acknowledgement events recorded",
	}
}

func breakdownTable(rows []BreakdownRow, label, placeholder string) table.Spec {
	return table.Spec{
		Columns: []table.Column{
			{Key: "label", Header: label, Flex: true, MinWidth: 160, MaxLines: 2,
				Value: func(r any) string { return r.(BreakdownRow).Label }},
			{Key: "count", Header: "Documents", Width: 90, Align: table.AlignRight,
				Value: func(r any) string { return fmt.Sprintf("%d", r.(BreakdownRow).Count) }},
			{Key: "share", Header: "Share", Width: 80, Align: table.AlignRight,
				Value: func(r any) string { return fmt.Sprintf("%.1f%%", r.(BreakdownRow).Share) }},
		},
		Rows:         asRows(rows),
		RepeatHeader: true,
		Placeholder:  placeholder,
	}
}

func asRows[T any](rows []T) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timestampFormat)
}

// formatSeconds renders a duration in the largest two sensible units
func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "n/a"
	}
	d := time.Duration(seconds * float64(time.Second))
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd %dh", int(d.Hours())/24, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
