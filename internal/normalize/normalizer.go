// Package normalize is the single convergence point for all drafts: every
// draft from the extraction, pattern, or delegate path passes through here
// exactly once before hand-off. Normalization is idempotent; running it on
// its own output changes nothing.
package normalize

import (
	"math"
	"strings"
	"time"

	"github.com/subwatchhq/subwatch/internal/model"
)

const (
	// ISODate is the wire format for all draft dates
	ISODate = "2006-01-02"

	// DefaultCategory and DefaultAccount substitute for absent fields
	DefaultCategory = "Other"
	DefaultAccount  = "Default Account"

	// DefaultTrialDays applies when trial intent exists without a duration
	DefaultTrialDays = 30
)

// Normalizer validates and defaults draft fields. The clock is injectable
// so date defaults are testable.
type Normalizer struct {
	now func() time.Time
}

// New creates a normalizer on the system clock
func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock creates a normalizer with a fixed clock, for tests
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize validates every field, substitutes deterministic defaults, and
// tags the draft successful only when both service name and monthly cost
// resolved. Unsuccessful drafts are returned, never discarded.
func (n *Normalizer) Normalize(draft model.SubscriptionDraft) model.NormalizedDraft {
	out := draft

	// service_name: trimmed; empty -> null
	if out.ServiceName != nil {
		trimmed := strings.TrimSpace(*out.ServiceName)
		if trimmed == "" {
			out.ServiceName = nil
		} else {
			out.ServiceName = &trimmed
		}
	}

	if out.ServiceCategory == "" {
		out.ServiceCategory = DefaultCategory
	}
	if strings.TrimSpace(out.Account) == "" {
		out.Account = DefaultAccount
	}

	// monthly_cost is always derived from cost + billing cycle, never
	// entered independently
	out.MonthlyCost = nil
	if out.Cost != nil && isFinite(*out.Cost) {
		if out.BillingCycle == "" {
			out.BillingCycle = model.BillingMonthly
		}
		out.MonthlyCost = model.Float64Ptr(MonthlyCost(*out.Cost, out.BillingCycle))
	} else {
		out.Cost = nil
	}

	// payment_date: valid calendar date or first day of next month
	if _, err := time.Parse(ISODate, out.PaymentDate); err != nil {
		out.PaymentDate = firstOfNextMonth(n.now()).Format(ISODate)
	}

	n.normalizeTrial(&out)

	result := model.NormalizedDraft{Draft: out}
	switch {
	case out.ServiceName == nil:
		result.Reason = model.FailureNoServiceName
	case out.MonthlyCost == nil:
		result.Reason = model.FailureNoMonthlyCost
	default:
		result.Success = true
	}
	return result
}

func (n *Normalizer) normalizeTrial(draft *model.SubscriptionDraft) {
	if !draft.IsTrial {
		draft.TrialDurationDays = 0
		draft.TrialStartDate = ""
		draft.TrialEndDate = ""
		return
	}

	if draft.TrialDurationDays <= 0 {
		draft.TrialDurationDays = DefaultTrialDays
	}

	start, err := time.Parse(ISODate, draft.TrialStartDate)
	if err != nil {
		// No usable start date; the duration alone is kept
		draft.TrialStartDate = ""
		draft.TrialEndDate = ""
		return
	}

	// Calendar day arithmetic, not calendar months
	end := start.AddDate(0, 0, draft.TrialDurationDays)
	draft.TrialEndDate = end.Format(ISODate)
}

// MonthlyCost derives the normalized monthly cost from a quoted cost and
// its billing cycle, rounded to 2 decimals.
func MonthlyCost(cost float64, cycle model.BillingCycle) float64 {
	switch cycle {
	case model.BillingYearly:
		return round2(cost / 12)
	case model.BillingWeekly:
		return round2(cost * model.WeeksPerMonth)
	default:
		return round2(cost)
	}
}

func firstOfNextMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
