package model

// Observer message action names. One message is sent per detected event;
// the coordinator does not acknowledge beyond best-effort.
const (
	ActionPageDetected       = "subscription_page_detected"
	ActionPaymentDetected    = "payment_action_detected"
	ActionSubscriptionAction = "subscription_action_detected"
)

// ObserverMessage is the page-observer to coordinator envelope. Each DOM or
// page event becomes one discrete message with a correlation id; delivery is
// fire-and-forget, in order within a single channel only.
type ObserverMessage struct {
	Action        string        `json:"action"`
	CorrelationID string        `json:"correlation_id"`
	Data          DetectionData `json:"data"`
}

// DetectionData carries the page-level signals and any action-specific
// context for one detection.
type DetectionData struct {
	PageTitle      string      `json:"pageTitle"`
	URL            string      `json:"url"`
	TriggerType    TriggerType `json:"triggerType"`
	Confidence     int         `json:"confidence"`
	Signals        []Signal    `json:"signals,omitempty"`
	KeywordMatches []string    `json:"keywordMatches,omitempty"`
	Prices         []string    `json:"prices,omitempty"`

	// Action-specific context, set for click/submit detections
	ButtonText   string `json:"buttonText,omitempty"`
	ElementClass string `json:"elementClass,omitempty"`
	NearbyPrice  string `json:"nearbyPrice,omitempty"`
}

// ElementInfo describes the DOM element behind an interaction event
type ElementInfo struct {
	Tag   string `json:"tag"`
	Text  string `json:"text,omitempty"`
	Class string `json:"class,omitempty"`
	ID    string `json:"id,omitempty"`
	Href  string `json:"href,omitempty"`
}
