package models

// Intents the rule-based classifier can resolve.
const (
	IntentRegistration = "registration"
	IntentQueueStatus  = "queue_status"
	IntentDirections   = "directions"
	IntentAppointment  = "appointment"
	IntentEmergency    = "emergency"
	IntentInformation  = "information"
	IntentBilling      = "billing"
	IntentGreeting     = "greeting"
	IntentUnknown      = "unknown"
)

// Additional intents only the AI-assisted classifier produces.
const (
	IntentComplaint     = "complaint"
	IntentDischarge     = "discharge"
	IntentMedication    = "medication"
	IntentDoctorInquiry = "doctor_inquiry"
	IntentTestResults   = "test_results"
	IntentVisitorInfo   = "visitor_info"
)

// Priority marks how the engine should treat a classified turn.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IntentResult is the outcome of classifying one transcript.
// Confidence is always within [0,1]. Raw keeps the unparsed classifier
// output for diagnostics only.
type IntentResult struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
	Priority   Priority          `json:"priority"`
	Response   string            `json:"response,omitempty"`
	Raw        string            `json:"-"`

	// Fallback marks a malformed AI payload; Degraded marks an
	// unreachable AI service. Both resolve to unknown-intent results
	// but stay distinguishable in logs and tests.
	Fallback bool `json:"fallback,omitempty"`
	Degraded bool `json:"degraded,omitempty"`
}

// KnownIntent reports whether the given intent belongs to the closed set
// either classifier variant may emit.
func KnownIntent(intent string) bool {
	switch intent {
	case IntentRegistration, IntentQueueStatus, IntentDirections,
		IntentAppointment, IntentEmergency, IntentInformation,
		IntentBilling, IntentGreeting, IntentUnknown,
		IntentComplaint, IntentDischarge, IntentMedication,
		IntentDoctorInquiry, IntentTestResults, IntentVisitorInfo:
		return true
	}
	return false
}
