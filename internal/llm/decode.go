package llm

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/subwatchhq/subwatch/internal/model"
)

// requiredKeys must all be present (even if null) in the delegate's JSON
// reply; anything less is a malformed reply, not a partial success.
var requiredKeys = []string{"service_name", "monthly_cost"}

// draftPayload accepts the loose typing LLM replies tend to use: costs as
// numbers or strings, durations likewise.
type draftPayload struct {
	ServiceName       *string         `json:"service_name"`
	ServiceCategory   string          `json:"service_category"`
	Account           string          `json:"account"`
	MonthlyCost       json.RawMessage `json:"monthly_cost"`
	PaymentDate       string          `json:"payment_date"`
	IsTrial           bool            `json:"is_trial"`
	TrialDurationDays json.RawMessage `json:"trial_duration_days"`
}

// DecodeReply extracts the JSON object from a delegate reply and decodes it
// into a draft. Returns a typed Result; non-JSON replies and replies missing
// required keys are failures.
func DecodeReply(reply string) Result {
	raw := extractJSONObject(reply)
	if raw == "" {
		return ParseError(FailBadJSON, "no JSON object in reply")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return ParseError(FailBadJSON, err.Error())
	}
	for _, key := range requiredKeys {
		if _, ok := keys[key]; !ok {
			return ParseError(FailMissingFields, "missing key: "+key)
		}
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ParseError(FailBadJSON, err.Error())
	}

	draft := model.SubscriptionDraft{
		ServiceCategory: payload.ServiceCategory,
		Account:         payload.Account,
		PaymentDate:     payload.PaymentDate,
		IsTrial:         payload.IsTrial,
	}
	if payload.ServiceName != nil {
		draft.ServiceName = model.StringPtr(*payload.ServiceName)
	}
	if cost, ok := looseFloat(payload.MonthlyCost); ok {
		// The delegate quotes a monthly figure directly
		draft.Cost = model.Float64Ptr(cost)
		draft.BillingCycle = model.BillingMonthly
	}
	if days, ok := looseInt(payload.TrialDurationDays); ok {
		draft.TrialDurationDays = days
	}

	return ParsedOk(draft)
}

// extractJSONObject returns the outermost {...} span of the reply, covering
// models that wrap JSON in prose or code fences.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// looseFloat reads a JSON number or a numeric string
func looseFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// looseInt reads a JSON integer, float, or numeric string
func looseInt(raw json.RawMessage) (int, bool) {
	if f, ok := looseFloat(raw); ok {
		return int(f), true
	}
	return 0, false
}
