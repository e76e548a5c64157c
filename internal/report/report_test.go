package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/vectorcheck/internal/classifier"
)

const testURL = "https://example.com/doc.pdf"

func newAggregator() *Aggregator {
	return NewAggregator(classifier.NewDefault())
}

func TestAggregate_NaturalNumberingAndOrder(t *testing.T) {
	pages := []Page{
		{Metrics: classifier.PageMetrics{CharCount: 400, TextLength: 450}},
		{Metrics: classifier.PageMetrics{LineCount: 12, CurveCount: 3, RectCount: 1, TextLength: 50}},
		{Metrics: classifier.PageMetrics{LineCount: 2, RectCount: 1, CharCount: 580, TextLength: 600}},
	}

	rep := newAggregator().Aggregate(testURL, pages, 0)

	require.Len(t, rep.Pages, 3)
	assert.Equal(t, 3, rep.PageCount)
	for i, p := range rep.Pages {
		assert.Equal(t, i+1, p.PageNumber)
		assert.Equal(t, testURL, p.PageURL)
	}
	assert.Equal(t, 1, rep.VectorPagesCount)
	assert.Equal(t, []int{2}, rep.VectorPages)
	assert.False(t, rep.Pages[0].IsVector)
	assert.Equal(t, "text only", rep.Pages[0].Reason)
	assert.True(t, rep.Pages[1].IsVector)
	assert.False(t, rep.Pages[2].IsVector)
}

func TestAggregate_PageFaultDegradesLocally(t *testing.T) {
	pages := []Page{
		{Metrics: classifier.PageMetrics{LineCount: 12, CurveCount: 3, RectCount: 1, TextLength: 50}},
		{Err: errors.New("damaged content stream")},
		{Metrics: classifier.PageMetrics{CharCount: 100, TextLength: 120}},
	}

	rep := newAggregator().Aggregate(testURL, pages, 0)

	require.Len(t, rep.Pages, 3)
	assert.Equal(t, []int{1}, rep.VectorPages)

	failed := rep.Pages[1]
	assert.False(t, failed.IsVector)
	assert.Contains(t, failed.Reason, "page processing failed")
	assert.Contains(t, failed.Reason, "damaged content stream")
	assert.Equal(t, 2, failed.PageNumber)

	// Pages after the fault are still classified normally.
	assert.Equal(t, "text only", rep.Pages[2].Reason)
}

func TestAggregate_OverrideAppliesToSinglePageOnly(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		pages := []Page{{Metrics: classifier.PageMetrics{LineCount: 12, CurveCount: 3, TextLength: 40}}}

		rep := newAggregator().Aggregate(testURL, pages, 17)

		require.Len(t, rep.Pages, 1)
		assert.Equal(t, 17, rep.Pages[0].PageNumber)
		assert.Equal(t, []int{17}, rep.VectorPages)
	})

	t.Run("multi page ignores override", func(t *testing.T) {
		pages := []Page{
			{Metrics: classifier.PageMetrics{TextLength: 100}},
			{Metrics: classifier.PageMetrics{TextLength: 100}},
		}

		rep := newAggregator().Aggregate(testURL, pages, 17)

		assert.Equal(t, 1, rep.Pages[0].PageNumber)
		assert.Equal(t, 2, rep.Pages[1].PageNumber)
	})
}

func TestAggregate_EmptyDocument(t *testing.T) {
	rep := newAggregator().Aggregate(testURL, nil, 0)

	assert.Zero(t, rep.PageCount)
	assert.Zero(t, rep.VectorPagesCount)
	assert.NotNil(t, rep.VectorPages)
	assert.Empty(t, rep.Pages)
}
