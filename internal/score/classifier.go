// Package score combines page signals into a candidate decision and a
// bounded confidence score.
package score

import (
	"github.com/subwatchhq/subwatch/internal/model"
)

// Per-signal weights. The sum can exceed 100; the final score is clamped.
const (
	weightURLKeyword   = 40
	weightContentMany  = 30 // >=3 distinct content-keyword hits
	weightContentFew   = 15 // 1-2 hits
	weightPriceToken   = 25
	weightFormPresence = 20

	manyContentHits = 3

	// candidateKeywordHits is the content-hit threshold in the candidate
	// decision. It is deliberately not the same threshold the score uses:
	// a single keyword contributes +15 but does not make a candidate on
	// its own. Observed behavior, kept as-is.
	candidateKeywordHits = 2
)

// Classifier turns a signal set into a ClassificationResult. The score is a
// deterministic weighted sum, not a probability.
type Classifier struct{}

// NewClassifier creates a new classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify combines the signals from one page scan. Confidence is monotonic
// non-decreasing in the number and type of contributing signals and always
// lands in [0,100].
func (c *Classifier) Classify(signals []model.Signal) model.ClassificationResult {
	var (
		urlKeyword   bool
		priceToken   bool
		formPresence bool
	)
	contentHits := make(map[string]struct{})

	for _, s := range signals {
		switch s.Kind {
		case model.SignalURLKeyword:
			urlKeyword = true
		case model.SignalContentKeyword:
			contentHits[s.Value] = struct{}{}
		case model.SignalPriceToken:
			priceToken = true
		case model.SignalFormPresence:
			formPresence = true
		}
	}

	confidence := 0
	if urlKeyword {
		confidence += weightURLKeyword
	}
	switch {
	case len(contentHits) >= manyContentHits:
		confidence += weightContentMany
	case len(contentHits) >= 1:
		confidence += weightContentFew
	}
	if priceToken {
		confidence += weightPriceToken
	}
	if formPresence {
		confidence += weightFormPresence
	}
	confidence = clamp(confidence, 0, 100)

	isCandidate := urlKeyword ||
		len(contentHits) >= candidateKeywordHits ||
		priceToken ||
		formPresence

	result := model.ClassificationResult{
		IsCandidate: isCandidate,
		Confidence:  confidence,
		KeywordHits: len(contentHits),
	}
	if isCandidate {
		result.TriggerType = model.TriggerPageDetected
	}
	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
