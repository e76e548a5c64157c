package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/local/vectorcheck/internal/classifier"
)

// Doc abstracts an open PDF document.
type Doc interface {
	NumPage() int
	PageSVG(i int) (string, error)
	PageText(i int) (string, error)
	Close() error
}

// Opener abstracts opening a PDF path into a Doc. The default opener uses
// go-fitz; tests swap in fakes.
type Opener interface {
	Open(path string) (Doc, error)
}

// PageExtraction holds the metrics for one page, or the fault that
// prevented extracting them.
type PageExtraction struct {
	Metrics classifier.PageMetrics
	Err     error
}

// Extractor derives per-page primitive counts and text metrics from a PDF.
type Extractor struct {
	opener Opener
}

// NewExtractor creates an extractor with the default go-fitz opener.
func NewExtractor() *Extractor {
	return &Extractor{opener: fitzOpener{}}
}

// NewExtractorWithOpener creates an extractor with a custom opener.
func NewExtractorWithOpener(o Opener) *Extractor {
	return &Extractor{opener: o}
}

// Extract opens the PDF at path and produces one PageExtraction per page,
// in document order. A fault on a single page is recorded in that page's
// entry; only an unreadable document returns an error.
func (e *Extractor) Extract(path string) ([]PageExtraction, error) {
	doc, err := e.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total <= 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	// Cross-check against pdfcpu's count. Disagreement usually means a
	// damaged xref table; the fitz count drives extraction either way.
	if n, cerr := api.PageCountFile(path); cerr == nil && n != total {
		log.Warn().Int("fitz_pages", total).Int("pdfcpu_pages", n).Str("file", path).Msg("page count mismatch between parsers")
	}

	pages := make([]PageExtraction, 0, total)
	for i := 0; i < total; i++ {
		m, perr := e.extractPage(doc, i)
		if perr != nil {
			log.Warn().Err(perr).Int("page", i+1).Msg("page extraction failed")
			pages = append(pages, PageExtraction{Err: perr})
			continue
		}
		pages = append(pages, PageExtraction{Metrics: m})
	}

	return pages, nil
}

func (e *Extractor) extractPage(doc Doc, idx int) (classifier.PageMetrics, error) {
	svg, err := doc.PageSVG(idx)
	if err != nil {
		return classifier.PageMetrics{}, fmt.Errorf("render page %d: %w", idx+1, err)
	}

	text, err := doc.PageText(idx)
	if err != nil {
		return classifier.PageMetrics{}, fmt.Errorf("text page %d: %w", idx+1, err)
	}

	counts := CountPrimitives(svg)
	trimmed := strings.TrimSpace(text)

	m := classifier.PageMetrics{
		LineCount:  counts.Lines,
		CurveCount: counts.Curves,
		RectCount:  counts.Rects,
		CharCount:  len([]rune(stripWhitespace(trimmed))),
		TextLength: len([]rune(trimmed)),
	}

	log.Debug().
		Int("page", idx+1).
		Int("lines", m.LineCount).
		Int("curves", m.CurveCount).
		Int("rects", m.RectCount).
		Int("text_length", m.TextLength).
		Msg("extracted page metrics")

	return m, nil
}

// whitespaceRegex matches any whitespace (Unicode-aware).
var whitespaceRegex = regexp.MustCompile(`\s+`)

func stripWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, "")
}
