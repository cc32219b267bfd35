// Package watch classifies user interactions on an observed page and turns
// detections into coordinator messages. One Session exists per page
// lifetime; there are no globals, no buffering, and no recovery for missed
// events.
package watch

import (
	"github.com/google/uuid"

	"github.com/subwatchhq/subwatch/internal/model"
	"github.com/subwatchhq/subwatch/internal/score"
	"github.com/subwatchhq/subwatch/internal/signal"
)

// State is the page-lifetime scan state
type State int

const (
	StateIdle State = iota
	StateScanning
	StateNoMatch
	StateCandidate
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateNoMatch:
		return "no-match"
	case StateCandidate:
		return "candidate"
	default:
		return "unknown"
	}
}

// Session is the per-page-session context: scan state, the page's signal
// set, and the one-shot detection latches. Each tab owns its own Session;
// nothing is shared across page contexts.
type Session struct {
	state      State
	snapshot   model.PageSnapshot
	signals    []model.Signal
	class      model.ClassificationResult
	extractor  *signal.Extractor
	classifier *score.Classifier

	// One-shot latches: each flips true at most once per page load so the
	// same page cannot fire duplicate notifications.
	paymentDetected            bool
	subscriptionActionDetected bool
}

// NewSession creates an idle session for one page lifetime
func NewSession(scanCfg model.ScanConfig) *Session {
	return &Session{
		state:      StateIdle,
		extractor:  signal.NewExtractor(scanCfg),
		classifier: score.NewClassifier(),
	}
}

// State returns the current scan state
func (s *Session) State() State { return s.state }

// Signals returns the page's signal set from the load-time scan
func (s *Session) Signals() []model.Signal { return s.signals }

// Classification returns the load-time classification
func (s *Session) Classification() model.ClassificationResult { return s.class }

// PageLoaded runs the load-time scan: Idle -> Scanning -> {NoMatch |
// Candidate}. A candidate page emits one page-detected message; a no-match
// page emits nothing (an extraction miss is not an error).
func (s *Session) PageLoaded(snap model.PageSnapshot) *model.ObserverMessage {
	s.state = StateScanning
	s.snapshot = snap
	s.signals = s.extractor.Extract(snap)
	s.class = s.classifier.Classify(s.signals)

	if !s.class.IsCandidate {
		s.state = StateNoMatch
		return nil
	}

	s.state = StateCandidate
	return s.message(model.ActionPageDetected, model.TriggerPageDetected, model.DetectionData{})
}

// Clicked classifies a link/button click. Payment-shaped actions latch
// paymentDetected; plan/cycle/subscription actions latch
// subscriptionActionDetected. A latched branch stays silent.
func (s *Session) Clicked(el model.ElementInfo, nearbyText string) *model.ObserverMessage {
	trigger := classifyAction(el)
	if trigger == "" {
		return nil
	}

	action := model.ActionSubscriptionAction
	if isPaymentTrigger(trigger) {
		if s.paymentDetected {
			return nil
		}
		s.paymentDetected = true
		action = model.ActionPaymentDetected
	} else {
		if s.subscriptionActionDetected {
			return nil
		}
		s.subscriptionActionDetected = true
	}

	return s.message(action, trigger, model.DetectionData{
		ButtonText:   el.Text,
		ElementClass: el.Class,
		NearbyPrice:  signal.FindFirstPrice(nearbyText),
	})
}

// FormSubmitted classifies a form submission against the payment selectors
func (s *Session) FormSubmitted(form model.ElementInfo) *model.ObserverMessage {
	if !isPaymentForm(form) || s.paymentDetected {
		return nil
	}
	s.paymentDetected = true

	return s.message(model.ActionPaymentDetected, model.TriggerPaymentForm, model.DetectionData{
		ElementClass: form.Class,
	})
}

// URLChanged matches the new URL against known checkout providers
func (s *Session) URLChanged(rawURL string) *model.ObserverMessage {
	s.snapshot.URL = rawURL
	if !isCheckoutURL(rawURL) || s.paymentDetected {
		return nil
	}
	s.paymentDetected = true

	return s.message(model.ActionPaymentDetected, model.TriggerPaymentLink, model.DetectionData{})
}

// message builds the observer envelope, filling page-level fields from the
// session's scan.
func (s *Session) message(action string, trigger model.TriggerType, data model.DetectionData) *model.ObserverMessage {
	data.PageTitle = s.extractor.Title(s.snapshot)
	data.URL = s.snapshot.URL
	data.TriggerType = trigger
	data.Confidence = s.class.Confidence
	data.Signals = s.signals
	data.KeywordMatches = signal.KeywordMatches(s.signals)
	data.Prices = signal.PriceTokens(s.signals)

	return &model.ObserverMessage{
		Action:        action,
		CorrelationID: uuid.NewString(),
		Data:          data,
	}
}
