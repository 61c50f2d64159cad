package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload(mode Mode) Payload {
	sent := time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)
	opened := sent.Add(2 * time.Hour)
	acked := sent.Add(26 * time.Hour)
	return Payload{
		Workspace:   "Acme Legal",
		GeneratedAt: time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
		Mode:        mode,
		Metrics: Metrics{
			Delivered: 3, Opened: 2, Acknowledged: 1,
			OpenRate: 66.7, AckRate: 33.3, AvgAckSeconds: 93600,
		},
		Documents: []DocumentRow{
			{Title: "Q1 Policy Update", Recipient: "pat@acme.example", Status: "acked",
				SentAt: sent, OpenedAt: &opened, AcknowledgedAt: &acked,
				Notes: "<p>Reviewed <b>and</b> signed.</p>"},
			{Title: "NDA Renewal", Recipient: "sam@acme.example", Status: "opened",
				SentAt: sent, OpenedAt: &opened},
			{Title: "Handbook 2024", Recipient: "lee@acme.example", Status: "sent", SentAt: sent},
		},
		Evidence: []EvidenceRow{
			{OccurredAt: opened, Document: "Q1 Policy Update", Recipient: "pat@acme.example",
				Event: "opened", SourceAddr: "203.0.113.7"},
			{OccurredAt: acked, Document: "Q1 Policy Update", Recipient: "pat@acme.example",
				Event: "acknowledged", SourceAddr: "203.0.113.7"},
		},
		StatusBreakdown: []BreakdownRow{
			{Label: "acked", Count: 1, Share: 33.3},
			{Label: "opened", Count: 1, Share: 33.3},
			{Label: "sent", Count: 1, Share: 33.3},
		},
		RecipientBreakdown: []BreakdownRow{
			{Label: "pat@acme.example", Count: 1, Share: 33.3},
		},
	}
}

func testLogoPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 48, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 58, B: 95, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerateRequiresWorkspace(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	_, err = g.Generate(Payload{Workspace: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace")
}

func TestGenerateSummary(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	out, err := g.Generate(testPayload(ModeSummary))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerateCompliance(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	out, err := g.Generate(testPayload(ModeCompliance))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerateDeterministic(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithDeterministic(true))
	require.NoError(t, err)

	a, err := g.Generate(testPayload(ModeSummary))
	require.NoError(t, err)
	b, err := g.Generate(testPayload(ModeSummary))
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical deterministic builds must be byte-identical")
}

func TestGenerateModesDiffer(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithDeterministic(true))
	require.NoError(t, err)

	summary, err := g.Generate(testPayload(ModeSummary))
	require.NoError(t, err)
	compliance, err := g.Generate(testPayload(ModeCompliance))
	require.NoError(t, err)
	assert.NotEqual(t, summary, compliance)
}

func TestGenerateDefaultsToSummaryMode(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithDeterministic(true))
	require.NoError(t, err)

	blank := testPayload("")
	explicit := testPayload(ModeSummary)

	a, err := g.Generate(blank)
	require.NoError(t, err)
	b, err := g.Generate(explicit)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateWithLogo(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithDeterministic(true))
	require.NoError(t, err)

	plain := testPayload(ModeSummary)
	withLogo := testPayload(ModeSummary)
	withLogo.Logo = testLogoPNG(t)

	a, err := g.Generate(plain)
	require.NoError(t, err)
	b, err := g.Generate(withLogo)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "the logo must be embedded in the output")
}

func TestGenerateBrokenLogoIsSkipped(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithDeterministic(true))
	require.NoError(t, err)

	p := testPayload(ModeSummary)
	p.Logo = []byte("this is not an image")

	out, err := g.Generate(p)
	require.NoError(t, err, "a corrupt logo must not abort the build")
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerateLargeRegisterPaginates(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithDeterministic(true))
	require.NoError(t, err)

	small := testPayload(ModeCompliance)
	large := testPayload(ModeCompliance)
	for i := 0; i < 120; i++ {
		large.Documents = append(large.Documents, large.Documents[i%3])
	}

	a, err := g.Generate(small)
	require.NoError(t, err)
	b, err := g.Generate(large)
	require.NoError(t, err)
	assert.Greater(t, len(b), len(a), "more register rows must produce more pages")
}

func TestGenerateConcurrent(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithDeterministic(true))
	require.NoError(t, err)

	want, err := g.Generate(testPayload(ModeSummary))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := g.Generate(testPayload(ModeSummary))
			assert.NoError(t, err)
			assert.Equal(t, want, out)
		}()
	}
	wg.Wait()
}

func TestGenerateCompactStyle(t *testing.T) {
	g, err := NewWithOptions(DefaultOptions(), WithStyle(StyleCompact), WithDeterministic(true))
	require.NoError(t, err)

	out, err := g.Generate(testPayload(ModeSummary))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestBuildRecipeSummary(t *testing.T) {
	sections := buildRecipe(testPayload(ModeSummary), ModeSummary)
	require.Len(t, sections, 7)

	assert.Equal(t, sectionCards, sections[0].kind)
	assert.Len(t, sections[0].cards, 4)
	assert.Equal(t, sectionHeading, sections[1].kind)
	assert.Equal(t, sectionKeyValues, sections[2].kind)
	assert.Equal(t, "Status breakdown", sections[3].label)
	assert.Equal(t, sectionTable, sections[4].kind)
	assert.Equal(t, "Recipient breakdown", sections[5].label)
	assert.Equal(t, sectionTable, sections[6].kind)
}

func TestBuildRecipeCompliance(t *testing.T) {
	p := testPayload(ModeCompliance)
	sections := buildRecipe(p, ModeCompliance)
	require.Len(t, sections, 6)

	assert.Equal(t, "Summary", sections[0].label)
	assert.Equal(t, sectionKeyValues, sections[1].kind)
	assert.Equal(t, "Document register", sections[2].label)
	require.Equal(t, sectionTable, sections[3].kind)
	assert.Len(t, sections[3].table.Rows, len(p.Documents))
	assert.Equal(t, "Acknowledgement evidence", sections[4].label)
	require.Equal(t, sectionTable, sections[5].kind)
	assert.Len(t, sections[5].table.Rows, len(p.Evidence))
}

func TestDocumentTableFlattensNotes(t *testing.T) {
	spec := documentTable([]DocumentRow{{Title: "T", Notes: "<p>plain <b>bold</b></p>"}})
	notes := spec.Columns[len(spec.Columns)-1]
	assert.Equal(t, "plain bold", notes.Value(spec.Rows[0]))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "n/a", formatSeconds(0))
	assert.Equal(t, "n/a", formatSeconds(-5))
	assert.Equal(t, "45s", formatSeconds(45))
	assert.Equal(t, "2m 5s", formatSeconds(125))
	assert.Equal(t, "3h 15m", formatSeconds(3*3600+15*60))
	assert.Equal(t, "1d 2h", formatSeconds(26*3600))
}

func TestFormatOptionalTime(t *testing.T) {
	assert.Equal(t, "-", formatOptionalTime(nil))
	ts := time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-04 09:30", formatOptionalTime(&ts))
}
