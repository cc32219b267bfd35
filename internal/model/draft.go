package model

// BillingCycle is the billing period a cost was quoted for
type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
	BillingWeekly  BillingCycle = "weekly"
)

// WeeksPerMonth converts a weekly cost to a monthly one
const WeeksPerMonth = 4.33

// SubscriptionDraft is an in-flight, unvalidated subscription proposal.
// It is produced by exactly one of the extraction, pattern, or delegate
// paths and passed once through the normalizer before hand-off.
type SubscriptionDraft struct {
	ServiceName       *string      `json:"service_name"`               // nil when unresolved
	ServiceCategory   string       `json:"service_category"`           // defaults to "Other"
	Account           string       `json:"account"`                    // defaults to "Default Account"
	Cost              *float64     `json:"cost,omitempty"`             // cost as quoted, in BillingCycle units
	BillingCycle      BillingCycle `json:"billing_cycle,omitempty"`
	MonthlyCost       *float64     `json:"monthly_cost"` // always derived from Cost + BillingCycle
	PaymentDate       string       `json:"payment_date"` // ISO date (2006-01-02)
	IsTrial           bool         `json:"is_trial"`
	TrialDurationDays int          `json:"trial_duration_days"`
	TrialStartDate    string       `json:"trial_start_date,omitempty"` // ISO date
	TrialEndDate      string       `json:"trial_end_date,omitempty"`   // ISO date
}

// Service is a proposed name/category pair. Persisted services are owned by
// the record store; drafts only propose candidates for de-duplication there.
type Service struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// FailureReason tags an unsuccessful draft so the caller can prompt for
// manual completion
type FailureReason string

const (
	FailureNone          FailureReason = ""
	FailureNoServiceName FailureReason = "missing_service_name"
	FailureNoMonthlyCost FailureReason = "missing_monthly_cost"
	FailureDelegate      FailureReason = "delegate_failed"
)

// NormalizedDraft is the normalizer's output. Unsuccessful drafts are still
// returned, never discarded.
type NormalizedDraft struct {
	Draft   SubscriptionDraft `json:"draft"`
	Success bool              `json:"success"`
	Reason  FailureReason     `json:"reason,omitempty"`
}

// ParseRequest is the free-text parse contract consumed from the API
// collaborator. Image is an optional base64 payload for multimodal input.
type ParseRequest struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// ParseResponse mirrors the persistence collaborator's response shape.
// Success=false still carries best-effort ParsedData with nulls for
// unresolved fields.
type ParseResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	ParsedData *SubscriptionDraft `json:"parsed_data,omitempty"`
}

// StringPtr returns a pointer to s, for optional draft fields
func StringPtr(s string) *string { return &s }

// Float64Ptr returns a pointer to f, for optional draft fields
func Float64Ptr(f float64) *float64 { return &f }
