package llm

import "github.com/subwatchhq/subwatch/internal/model"

// FailureKind classifies why a delegate attempt failed. Callers treat all
// kinds uniformly; the kind exists for logs and tests.
type FailureKind string

const (
	FailNetwork       FailureKind = "network"
	FailTimeout       FailureKind = "timeout"
	FailBadJSON       FailureKind = "bad-json"
	FailMissingFields FailureKind = "missing-fields"
	FailNoProvider    FailureKind = "no-provider"
)

// Result is the typed outcome of one delegate parse attempt. Exactly one of
// Draft or Failure is set; there is no partial-success merging.
type Result struct {
	Draft   *model.SubscriptionDraft
	Failure *Failure
}

// Failure describes a failed delegate attempt
type Failure struct {
	Kind   FailureKind
	Detail string
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	return string(f.Kind) + ": " + f.Detail
}

// ParsedOk wraps a successfully decoded draft
func ParsedOk(draft model.SubscriptionDraft) Result {
	return Result{Draft: &draft}
}

// ParseError wraps a failure as a value, not an exception path
func ParseError(kind FailureKind, detail string) Result {
	return Result{Failure: &Failure{Kind: kind, Detail: detail}}
}

// OK reports whether the attempt produced a draft
func (r Result) OK() bool {
	return r.Draft != nil
}
