package classifier

import (
	"fmt"
	"strings"
)

// Classification thresholds. These are fixed policy values, tuned against
// real construction drawings and text-heavy reports.
const (
	// Minimum vector elements before a page can count as an illustration
	MinVectorElements = 5

	// Minimum curve+rect shapes for the technical drawing category
	MinComplexShapes = 2

	// Minimum line count for the technical drawing category
	MinTechnicalLines = 10

	// Graphics-to-text ratio above which a page is graphics-dominant
	IllustrationRatio = 0.5

	// Pages with less text than this are illustration candidates
	IllustrationMaxText = 200

	// Layout-only exclusion: few elements buried in lots of running text
	LayoutOnlyMaxElements = 5
	LayoutOnlyMinText     = 500
	LayoutOnlyMaxRatio    = 0.1

	// Diagram category minimums
	DiagramMinRects    = 3
	DiagramMinLines    = 3
	DiagramMinElements = 8

	// Complex graphics category
	ComplexMinCurves      = 5
	ComplexFewCurves      = 2
	ComplexFewCurvesLines = 5
)

// Category names reported in vector_types.
const (
	CategoryIllustration     = "illustration"
	CategoryTechnicalDrawing = "technical_drawing"
	CategoryComplexGraphics  = "complex_graphics"
	CategoryDiagram          = "diagram"
)

// PageMetrics holds the raw per-page facts extracted from the PDF.
// All counts are >= 0. TextLength is the rune length of the trimmed
// extracted text; CharCount counts non-whitespace runes.
type PageMetrics struct {
	LineCount  int `json:"line_count"`
	CurveCount int `json:"curve_count"`
	RectCount  int `json:"rect_count"`
	CharCount  int `json:"char_count"`
	TextLength int `json:"text_length"`
}

// Result is the classification verdict for a single page.
type Result struct {
	IsVector            bool     `json:"is_vector"`
	VectorTypes         []string `json:"vector_types"`
	Reason              string   `json:"reason"`
	TotalVectorElements int      `json:"total_vector_elements"`
	GraphicsToTextRatio float64  `json:"graphics_to_text_ratio"`
}

// Thresholds is the immutable tuning profile injected into a Classifier.
type Thresholds struct {
	MinVectorElements     int
	MinComplexShapes      int
	MinTechnicalLines     int
	IllustrationRatio     float64
	IllustrationMaxText   int
	LayoutOnlyMaxElements int
	LayoutOnlyMinText     int
	LayoutOnlyMaxRatio    float64
	DiagramMinRects       int
	DiagramMinLines       int
	DiagramMinElements    int
	ComplexMinCurves      int
	ComplexFewCurves      int
	ComplexFewCurvesLines int
}

// DefaultThresholds returns the standard tuning profile.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinVectorElements:     MinVectorElements,
		MinComplexShapes:      MinComplexShapes,
		MinTechnicalLines:     MinTechnicalLines,
		IllustrationRatio:     IllustrationRatio,
		IllustrationMaxText:   IllustrationMaxText,
		LayoutOnlyMaxElements: LayoutOnlyMaxElements,
		LayoutOnlyMinText:     LayoutOnlyMinText,
		LayoutOnlyMaxRatio:    LayoutOnlyMaxRatio,
		DiagramMinRects:       DiagramMinRects,
		DiagramMinLines:       DiagramMinLines,
		DiagramMinElements:    DiagramMinElements,
		ComplexMinCurves:      ComplexMinCurves,
		ComplexFewCurves:      ComplexFewCurves,
		ComplexFewCurvesLines: ComplexFewCurvesLines,
	}
}

// Classifier decides whether a page contains meaningful vector content.
type Classifier struct {
	t Thresholds
}

// New creates a classifier with the given thresholds.
func New(t Thresholds) *Classifier {
	return &Classifier{t: t}
}

// NewDefault creates a classifier with the default thresholds.
func NewDefault() *Classifier {
	return New(DefaultThresholds())
}

// Classify scores one page. It is a pure function over m and never
// panics outward: an internal fault degrades to a non-vector result
// with the fault in Reason.
func (c *Classifier) Classify(m PageMetrics) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				IsVector: false,
				Reason:   fmt.Sprintf("classification failed: %v", r),
			}
		}
	}()
	return c.classify(m)
}

func (c *Classifier) classify(m PageMetrics) Result {
	// Pure-text pages short-circuit regardless of text volume.
	if m.LineCount == 0 && m.CurveCount == 0 && m.RectCount == 0 {
		return Result{
			IsVector: false,
			Reason:   "text only",
		}
	}

	total := m.LineCount + m.CurveCount + m.RectCount
	complexShapes := m.CurveCount + m.RectCount
	ratio := graphicsToTextRatio(total, m.TextLength)

	// A few decorative lines or boxes inside substantial running text are
	// page layout, not artwork. This exclusion wins over category scoring.
	if total < c.t.LayoutOnlyMaxElements && m.TextLength > c.t.LayoutOnlyMinText && ratio < c.t.LayoutOnlyMaxRatio {
		return Result{
			IsVector:            false,
			Reason:              "likely layout only",
			TotalVectorElements: total,
			GraphicsToTextRatio: ratio,
		}
	}

	var types []string
	if total >= c.t.MinVectorElements && (ratio > c.t.IllustrationRatio || m.TextLength < c.t.IllustrationMaxText) {
		types = append(types, CategoryIllustration)
	}
	if m.LineCount >= c.t.MinTechnicalLines && complexShapes >= c.t.MinComplexShapes {
		types = append(types, CategoryTechnicalDrawing)
	}
	if m.CurveCount >= c.t.ComplexMinCurves || (m.CurveCount >= c.t.ComplexFewCurves && m.LineCount >= c.t.ComplexFewCurvesLines) {
		types = append(types, CategoryComplexGraphics)
	}
	if m.RectCount >= c.t.DiagramMinRects && m.LineCount >= c.t.DiagramMinLines && total >= c.t.DiagramMinElements {
		types = append(types, CategoryDiagram)
	}

	res := Result{
		IsVector:            len(types) > 0,
		VectorTypes:         types,
		TotalVectorElements: total,
		GraphicsToTextRatio: ratio,
	}
	if res.IsVector {
		res.Reason = "vector content detected: " + strings.Join(types, ", ")
	} else {
		res.Reason = "no significant vector content"
	}
	return res
}

// graphicsToTextRatio normalizes vector elements per 100 characters of text.
// With no text the raw element count stands in for the ratio.
func graphicsToTextRatio(total, textLength int) float64 {
	if textLength > 0 {
		return float64(total) / (float64(textLength) / 100.0)
	}
	return float64(total)
}
