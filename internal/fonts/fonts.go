package fonts

import (
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

// Face identifies one of the faces a FontSet exposes.
type Face string

const (
	// Regular is the default face for body text
	Regular Face = "regular"
	// Bold is used for titles, headings, and table headers
	Bold Face = "bold"
	// Mono is used for timestamps and identifiers
	Mono Face = "mono"
)

// Resolve maps a face onto a core PDF font family and style string
func (f Face) Resolve() (family, style string) {
	switch f {
	case Bold:
		return "Helvetica", "B"
	case Mono:
		return "Courier", ""
	default:
		return "Helvetica", ""
	}
}

// FontSet provides font-aware text measurement for the layout engine. It
// wraps a dedicated measurement document using go-pdf/fpdf metrics and is
// read-only after construction: concurrent report builds may share one set.
type FontSet struct {
	mu  sync.Mutex
	doc *fpdf.Fpdf
	tr  func(string) string
}

// NewSet registers the fixed face set and returns a ready FontSet.
// Registration failure is fatal and surfaced to the caller.
func NewSet() (*FontSet, error) {
	doc := fpdf.New("P", "pt", "", "")
	for _, f := range []Face{Regular, Bold, Mono} {
		fam, sty := f.Resolve()
		doc.SetFont(fam, sty, 12)
	}
	if doc.Err() {
		return nil, fmt.Errorf("failed to register fonts: %s", doc.Error())
	}
	return &FontSet{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}, nil
}

// Translate maps a UTF-8 string to the cp1252 byte encoding the core fonts
// expect. Drawing code must pass text through this before emitting it.
func (s *FontSet) Translate(text string) string {
	return s.tr(text)
}

// TextWidth returns the width of text at the given face and size, in points
func (s *FontSet) TextWidth(face Face, size float64, text string) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fam, sty := face.Resolve()
	s.doc.SetFont(fam, sty, size)
	return s.doc.GetStringWidth(s.tr(text))
}

// Wrap greedily packs the words of text into lines no wider than maxWidth.
// When maxLines > 0 and content remains after the line budget is exhausted,
// the last line is truncated and suffixed with an ellipsis marker. Empty
// input yields a single empty line so that a cell always occupies one line.
func (s *FontSet) Wrap(face Face, size, maxWidth float64, maxLines int, text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	cur := ""
	for _, w := range words {
		if cur == "" {
			cur = s.fitWord(face, size, maxWidth, w, &lines)
			continue
		}
		if s.TextWidth(face, size, cur+" "+w) <= maxWidth {
			cur += " " + w
			continue
		}
		lines = append(lines, cur)
		cur = s.fitWord(face, size, maxWidth, w, &lines)
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = s.Ellipsize(face, size, maxWidth, lines[maxLines-1])
	}
	return lines
}

// fitWord starts a new line with w, hard-breaking it by runes when the word
// alone exceeds maxWidth. Returns the (possibly shortened) open line. A
// width too narrow for a single rune cannot be honored; the rune overflows
// the line instead, matching the column overflow policy.
func (s *FontSet) fitWord(face Face, size, maxWidth float64, w string, lines *[]string) string {
	if maxWidth <= 0 {
		return w
	}
	for s.TextWidth(face, size, w) > maxWidth {
		runes := []rune(w)
		if len(runes) < 2 {
			return w
		}
		cut := len(runes) - 1
		for cut > 1 && s.TextWidth(face, size, string(runes[:cut])) > maxWidth {
			cut--
		}
		*lines = append(*lines, string(runes[:cut]))
		w = string(runes[cut:])
	}
	return w
}

// Ellipsize trims text until it fits maxWidth with the truncation marker
// appended.
func (s *FontSet) Ellipsize(face Face, size, maxWidth float64, text string) string {
	const marker = "..."
	runes := []rune(text)
	for len(runes) > 0 && s.TextWidth(face, size, string(runes)+marker) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimRight(string(runes), " ") + marker
}
