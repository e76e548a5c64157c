package report

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/local/vectorcheck/internal/classifier"
)

// Page is one extracted page handed to the aggregator: its metrics, or the
// extraction fault that prevented them.
type Page struct {
	Metrics classifier.PageMetrics
	Err     error
}

// PageReport is the per-page entry of a document report.
type PageReport struct {
	PageURL             string                 `json:"page_url"`
	PageNumber          int                    `json:"page_number"`
	IsVector            bool                   `json:"is_vector"`
	VectorTypes         []string               `json:"vector_types"`
	Reason              string                 `json:"reason"`
	TotalVectorElements int                    `json:"total_vector_elements"`
	GraphicsToTextRatio float64                `json:"graphics_to_text_ratio"`
	Metrics             classifier.PageMetrics `json:"metrics"`
}

// DocumentReport summarizes the classification of a whole document.
type DocumentReport struct {
	PageCount        int          `json:"page_count"`
	VectorPagesCount int          `json:"vector_pages_count"`
	VectorPages      []int        `json:"vector_pages"`
	Pages            []PageReport `json:"pages"`
}

// Aggregator runs the classifier over a document's pages and collects the
// results in input order.
type Aggregator struct {
	classifier *classifier.Classifier
}

// NewAggregator creates an aggregator backed by the given classifier.
func NewAggregator(c *classifier.Classifier) *Aggregator {
	return &Aggregator{classifier: c}
}

// Aggregate classifies every page and builds the document report. Pages whose
// extraction failed are recorded as non-vector with the fault in the reason;
// the rest of the document is still processed. pageNumberOverride, when > 0,
// replaces the natural 1-based numbering, but only for single-page documents;
// for multi-page documents the override is ignored since reusing one number
// for every page would produce a meaningless report.
func (a *Aggregator) Aggregate(sourceURL string, pages []Page, pageNumberOverride int) DocumentReport {
	override := pageNumberOverride > 0 && len(pages) == 1
	if pageNumberOverride > 0 && !override {
		log.Warn().
			Int("original_page_number", pageNumberOverride).
			Int("pages", len(pages)).
			Msg("page number override ignored for multi-page document")
	}

	rep := DocumentReport{
		PageCount:   len(pages),
		VectorPages: []int{},
		Pages:       make([]PageReport, 0, len(pages)),
	}

	for i, page := range pages {
		number := i + 1
		if override {
			number = pageNumberOverride
		}

		var res classifier.Result
		if page.Err != nil {
			res = classifier.Result{
				IsVector: false,
				Reason:   fmt.Sprintf("page processing failed: %v", page.Err),
			}
			log.Warn().Err(page.Err).Int("page", number).Msg("page metrics unavailable, recording degraded result")
		} else {
			res = a.classifier.Classify(page.Metrics)
		}

		rep.Pages = append(rep.Pages, PageReport{
			PageURL:             sourceURL,
			PageNumber:          number,
			IsVector:            res.IsVector,
			VectorTypes:         res.VectorTypes,
			Reason:              res.Reason,
			TotalVectorElements: res.TotalVectorElements,
			GraphicsToTextRatio: res.GraphicsToTextRatio,
			Metrics:             page.Metrics,
		})

		if res.IsVector {
			rep.VectorPages = append(rep.VectorPages, number)
			rep.VectorPagesCount++
		}
	}

	return rep
}
