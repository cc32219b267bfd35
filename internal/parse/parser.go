// Package parse implements pattern-based parsing of free-text subscription
// descriptions. Matchers are evaluated in registration order against the
// lower-cased input; the first predicate that matches wins and later
// entries are never consulted. A miss is not an error: the caller falls
// through to the remote delegate.
package parse

import (
	"strings"
	"time"

	"github.com/subwatchhq/subwatch/internal/model"
)

// Matcher is one (predicate, extractor) pair in the registry
type Matcher interface {
	// Name identifies the matcher in logs
	Name() string

	// Match reports whether this matcher handles the text. The input is
	// already lower-cased.
	Match(lowerText string) bool

	// Extract builds a draft from the original (not lower-cased) text
	Extract(text string, now time.Time) model.SubscriptionDraft
}

// Registry holds matchers in evaluation order. New services are added by
// registration, not by editing control flow.
type Registry struct {
	matchers []Matcher
}

// NewRegistry creates a registry preloaded with the built-in service
// matchers.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, m := range builtinMatchers() {
		r.Register(m)
	}
	return r
}

// NewEmptyRegistry creates a registry with no matchers
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register appends a matcher. Order of registration is order of evaluation.
func (r *Registry) Register(m Matcher) {
	r.matchers = append(r.matchers, m)
}

// Parse tries each matcher in order and returns the first draft produced.
// ok=false means no predicate fired; there is no scoring and no tie-break.
func (r *Registry) Parse(text string, now time.Time) (model.SubscriptionDraft, bool) {
	lower := strings.ToLower(text)
	for _, m := range r.matchers {
		if m.Match(lower) {
			return m.Extract(text, now), true
		}
	}
	return model.SubscriptionDraft{}, false
}
