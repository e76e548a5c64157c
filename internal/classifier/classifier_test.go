package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_TextOnlyShortCircuit(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name    string
		metrics PageMetrics
	}{
		{
			name:    "no text at all",
			metrics: PageMetrics{},
		},
		{
			name:    "short text",
			metrics: PageMetrics{CharCount: 50, TextLength: 300},
		},
		{
			name:    "very long text",
			metrics: PageMetrics{CharCount: 9000, TextLength: 10000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.metrics)

			assert.False(t, res.IsVector)
			assert.Equal(t, "text only", res.Reason)
			assert.Empty(t, res.VectorTypes)
			assert.Zero(t, res.TotalVectorElements)
		})
	}
}

func TestClassify_LayoutOnlyExclusionWins(t *testing.T) {
	c := NewDefault()

	// 1 line + 1 rect in 3000 chars of text: ratio = 2/30 ≈ 0.067 < 0.1.
	res := c.Classify(PageMetrics{LineCount: 1, RectCount: 1, CharCount: 2900, TextLength: 3000})

	assert.False(t, res.IsVector)
	assert.Equal(t, "likely layout only", res.Reason)
	assert.Equal(t, 2, res.TotalVectorElements)
	assert.InDelta(t, 2.0/30.0, res.GraphicsToTextRatio, 1e-9)
	assert.Empty(t, res.VectorTypes)
}

func TestClassify_RatioEqualsTotalWithoutText(t *testing.T) {
	c := NewDefault()

	res := c.Classify(PageMetrics{LineCount: 3, CurveCount: 2, RectCount: 2})

	require.True(t, res.IsVector)
	assert.Equal(t, 7, res.TotalVectorElements)
	assert.Equal(t, float64(7), res.GraphicsToTextRatio)
}

func TestClassify_TechnicalDrawing(t *testing.T) {
	c := NewDefault()

	// Scenario: 12 lines, 3 curves, 1 rect, short text.
	res := c.Classify(PageMetrics{LineCount: 12, CurveCount: 3, RectCount: 1, CharCount: 45, TextLength: 50})

	require.True(t, res.IsVector)
	assert.Contains(t, res.VectorTypes, CategoryTechnicalDrawing)
	// 16 elements with 50 chars of text also trips illustration and
	// complex graphics.
	assert.Contains(t, res.VectorTypes, CategoryIllustration)
	assert.Contains(t, res.VectorTypes, CategoryComplexGraphics)
	assert.Contains(t, res.Reason, CategoryTechnicalDrawing)
}

func TestClassify_SparseGraphicsNotVector(t *testing.T) {
	c := NewDefault()

	// 3 elements in 600 chars: ratio = 3/6 = 0.5, not layout-only, but no
	// category reaches its minimum either.
	res := c.Classify(PageMetrics{LineCount: 2, RectCount: 1, CharCount: 580, TextLength: 600})

	assert.False(t, res.IsVector)
	assert.Equal(t, "no significant vector content", res.Reason)
	assert.Equal(t, 3, res.TotalVectorElements)
	assert.InDelta(t, 0.5, res.GraphicsToTextRatio, 1e-9)
}

func TestClassify_Categories(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name     string
		metrics  PageMetrics
		want     []string
		isVector bool
	}{
		{
			name:     "illustration by ratio",
			metrics:  PageMetrics{LineCount: 5, CurveCount: 1, TextLength: 400},
			want:     []string{CategoryIllustration},
			isVector: true,
		},
		{
			name:     "illustration by short text",
			metrics:  PageMetrics{LineCount: 5, TextLength: 150},
			want:     []string{CategoryIllustration},
			isVector: true,
		},
		{
			name:     "complex graphics by curve count",
			metrics:  PageMetrics{CurveCount: 5, TextLength: 2200},
			want:     []string{CategoryComplexGraphics},
			isVector: true,
		},
		{
			name:     "complex graphics by curves with lines",
			metrics:  PageMetrics{CurveCount: 2, LineCount: 5, TextLength: 2500},
			want:     []string{CategoryComplexGraphics},
			isVector: true,
		},
		{
			name:     "diagram",
			metrics:  PageMetrics{RectCount: 4, LineCount: 4, TextLength: 2400},
			want:     []string{CategoryDiagram},
			isVector: true,
		},
		{
			name:     "diagram below element minimum",
			metrics:  PageMetrics{RectCount: 3, LineCount: 3, TextLength: 2400},
			want:     nil,
			isVector: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.metrics)

			assert.Equal(t, tt.isVector, res.IsVector)
			assert.Equal(t, tt.want, res.VectorTypes)
			if !tt.isVector {
				assert.Equal(t, "no significant vector content", res.Reason)
			}
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := NewDefault()
	m := PageMetrics{LineCount: 12, CurveCount: 3, RectCount: 1, CharCount: 45, TextLength: 50}

	first := c.Classify(m)
	second := c.Classify(m)

	assert.Equal(t, first, second)
}

func TestClassify_CustomThresholds(t *testing.T) {
	t.Run("stricter illustration minimum", func(t *testing.T) {
		th := DefaultThresholds()
		th.MinVectorElements = 50
		c := New(th)

		res := c.Classify(PageMetrics{LineCount: 10, TextLength: 100})

		assert.NotContains(t, res.VectorTypes, CategoryIllustration)
	})

	t.Run("defaults match named constants", func(t *testing.T) {
		th := DefaultThresholds()

		assert.Equal(t, MinVectorElements, th.MinVectorElements)
		assert.Equal(t, LayoutOnlyMinText, th.LayoutOnlyMinText)
		assert.Equal(t, IllustrationRatio, th.IllustrationRatio)
		assert.Equal(t, DiagramMinElements, th.DiagramMinElements)
	})
}

func TestClassify_VectorTypesNonEmptyIffVector(t *testing.T) {
	c := NewDefault()

	cases := []PageMetrics{
		{},
		{LineCount: 1, TextLength: 40},
		{LineCount: 12, CurveCount: 3, RectCount: 1, TextLength: 50},
		{CurveCount: 7, TextLength: 3000},
		{LineCount: 2, RectCount: 1, TextLength: 600},
	}

	for _, m := range cases {
		res := c.Classify(m)
		assert.Equal(t, res.IsVector, len(res.VectorTypes) > 0,
			"vector_types must be non-empty exactly when is_vector, metrics %+v", m)
	}
}
