package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/docuflow/reportkit"
	"github.com/docuflow/reportkit/internal/imaging"
)

// payloadFile is the on-disk payload schema. YAML is a JSON superset, so
// both .yaml and .json payload files decode through the same path.
type payloadFile struct {
	Workspace   string    `yaml:"workspace"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Mode        string    `yaml:"mode"`
	LogoWidth   float64   `yaml:"logo_width"`

	Metrics struct {
		Delivered     int     `yaml:"delivered"`
		Opened        int     `yaml:"opened"`
		Acknowledged  int     `yaml:"acknowledged"`
		OpenRate      float64 `yaml:"open_rate"`
		AckRate       float64 `yaml:"ack_rate"`
		AvgAckSeconds float64 `yaml:"avg_ack_seconds"`
	} `yaml:"metrics"`

	Documents []struct {
		Title          string     `yaml:"title"`
		Recipient      string     `yaml:"recipient"`
		Status         string     `yaml:"status"`
		SentAt         time.Time  `yaml:"sent_at"`
		OpenedAt       *time.Time `yaml:"opened_at"`
		AcknowledgedAt *time.Time `yaml:"acknowledged_at"`
		Notes          string     `yaml:"notes"`
	} `yaml:"documents"`

	Evidence []struct {
		OccurredAt time.Time `yaml:"occurred_at"`
		Document   string    `yaml:"document"`
		Recipient  string    `yaml:"recipient"`
		Event      string    `yaml:"event"`
		SourceAddr string    `yaml:"source_addr"`
	} `yaml:"evidence"`

	StatusBreakdown    []breakdownEntry `yaml:"status_breakdown"`
	RecipientBreakdown []breakdownEntry `yaml:"recipient_breakdown"`
}

type breakdownEntry struct {
	Label string  `yaml:"label"`
	Count int     `yaml:"count"`
	Share float64 `yaml:"share"`
}

func main() {
	cmd := &cli.Command{
		Name:  "reportkit",
		Usage: "render a delivery report payload to a PDF file (application/pdf)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "payload file (YAML or JSON)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output PDF path (defaults to the input name with .pdf)"},
			&cli.StringFlag{Name: "logo", Usage: "optional logo image: file path, http(s) URL, or data URL (PNG, JPEG, GIF, BMP, TIFF, WebP, or SVG)"},
			&cli.StringFlag{Name: "style", Value: string(reportkit.StyleClassic), Usage: "style preset: classic or compact"},
			&cli.BoolFlag{Name: "deterministic", Usage: "pin timestamps for byte-reproducible output"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable layout tracing"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}

	var pf payloadFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return fmt.Errorf("failed to parse payload file: %w", err)
	}

	payload := toPayload(pf)
	if logoRef := cmd.String("logo"); logoRef != "" {
		logo, err := imaging.NewFetcher().Fetch(logoRef)
		if err != nil {
			return err
		}
		payload.Logo = logo
	}

	generator, err := reportkit.NewWithOptions(reportkit.DefaultOptions(),
		reportkit.WithStyle(reportkit.Style(cmd.String("style"))),
		reportkit.WithDeterministic(cmd.Bool("deterministic")),
		reportkit.WithDebug(cmd.Bool("verbose")),
	)
	if err != nil {
		return err
	}

	data, err := generator.Generate(payload)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = inputPath[:len(inputPath)-len(ext)] + ".pdf"
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if cmd.Bool("verbose") {
		fmt.Printf("Wrote %s (%d bytes)\n", outputPath, len(data))
	}
	return nil
}

func toPayload(pf payloadFile) reportkit.Payload {
	p := reportkit.Payload{
		Workspace:   pf.Workspace,
		GeneratedAt: pf.GeneratedAt,
		Mode:        reportkit.Mode(pf.Mode),
		LogoWidth:   pf.LogoWidth,
		Metrics: reportkit.Metrics{
			Delivered:     pf.Metrics.Delivered,
			Opened:        pf.Metrics.Opened,
			Acknowledged:  pf.Metrics.Acknowledged,
			OpenRate:      pf.Metrics.OpenRate,
			AckRate:       pf.Metrics.AckRate,
			AvgAckSeconds: pf.Metrics.AvgAckSeconds,
		},
	}
	for _, d := range pf.Documents {
		p.Documents = append(p.Documents, reportkit.DocumentRow{
			Title:          d.Title,
			Recipient:      d.Recipient,
			Status:         d.Status,
			SentAt:         d.SentAt,
			OpenedAt:       d.OpenedAt,
			AcknowledgedAt: d.AcknowledgedAt,
			Notes:          d.Notes,
		})
	}
	for _, e := range pf.Evidence {
		p.Evidence = append(p.Evidence, reportkit.EvidenceRow{
			OccurredAt: e.OccurredAt,
			Document:   e.Document,
			Recipient:  e.Recipient,
			Event:      e.Event,
			SourceAddr: e.SourceAddr,
		})
	}
	p.StatusBreakdown = toBreakdown(pf.StatusBreakdown)
	p.RecipientBreakdown = toBreakdown(pf.RecipientBreakdown)
	return p
}

func toBreakdown(entries []breakdownEntry) []reportkit.BreakdownRow {
	rows := make([]reportkit.BreakdownRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, reportkit.BreakdownRow{Label: e.Label, Count: e.Count, Share: e.Share})
	}
	return rows
}
