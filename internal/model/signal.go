package model

// SignalKind classifies one piece of page evidence
type SignalKind string

const (
	SignalURLKeyword     SignalKind = "url-keyword"     // URL matched the fixed keyword list
	SignalContentKeyword SignalKind = "content-keyword" // distinct keyword hit in visible text
	SignalPriceToken     SignalKind = "price-token"     // currency-prefixed numeric token
	SignalFormPresence   SignalKind = "form-presence"   // subscription-shaped form or button
)

// Signal is one observed piece of evidence from a page scan. Signals are
// ephemeral: generated per scan, never persisted.
type Signal struct {
	Kind    SignalKind `json:"kind"`
	Value   string     `json:"value"`
	Context string     `json:"context,omitempty"` // surrounding text, where useful
}

// TriggerType tags which detection branch fired
type TriggerType string

const (
	TriggerPageDetected       TriggerType = "page-detected"
	TriggerPaymentLink        TriggerType = "payment-link"
	TriggerPaymentForm        TriggerType = "payment-form"
	TriggerPaymentButton      TriggerType = "payment-button"
	TriggerSubscriptionAction TriggerType = "subscription-action"
	TriggerPlanSelection      TriggerType = "plan-selection"
	TriggerBillingCycleChange TriggerType = "billing-cycle-change"
)

// ClassificationResult is the classifier's verdict for one scan.
// Confidence is a heuristic weight sum clamped to [0,100], not a
// probability. The IsCandidate decision is intentionally independent of the
// numeric score (see the classifier for the decision rule).
type ClassificationResult struct {
	IsCandidate bool        `json:"is_candidate"`
	Confidence  int         `json:"confidence"`
	TriggerType TriggerType `json:"trigger_type,omitempty"`
	KeywordHits int         `json:"keyword_hits"`
}

// PageSnapshot is the in-memory view of an observed page. HTML is the raw
// DOM snapshot; Title may be empty, in which case it is recovered from the
// document.
type PageSnapshot struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}
