package router

import (
	"strings"
	"testing"

	"carevox/models"
)

func TestRouteRegistration(t *testing.T) {
	r := New()

	response := r.Route(models.IntentResult{
		Intent:   models.IntentRegistration,
		Entities: map[string]string{"name": "John"},
	})

	if !strings.Contains(response, "Hello John!") {
		t.Errorf("registration response missing name: %q", response)
	}
	if !strings.Contains(response, "PAT-") {
		t.Errorf("registration response missing patient ID: %q", response)
	}
	if general, _ := r.QueueLengths(); general != 1 {
		t.Errorf("general queue = %d after registration, want 1", general)
	}
}

func TestRouteRegistrationWithoutName(t *testing.T) {
	r := New()

	response := r.Route(models.IntentResult{Intent: models.IntentRegistration})
	if !strings.Contains(response, "Hello Patient!") {
		t.Errorf("anonymous registration response: %q", response)
	}
}

func TestRouteQueueStatus(t *testing.T) {
	r := New()

	tests := []struct {
		name      string
		ahead     int
		wantPart  string
	}{
		{"empty queue", 0, "no queue currently"},
		{"short queue", 2, "2 patients ahead of you"},
		{"long queue", 5, "5 patients in the queue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.generalQueue = tt.ahead
			response := r.Route(models.IntentResult{Intent: models.IntentQueueStatus})
			if !strings.Contains(response, tt.wantPart) {
				t.Errorf("queue response = %q, want substring %q", response, tt.wantPart)
			}
		})
	}
}

func TestRouteQueueStatusWaitEstimate(t *testing.T) {
	r := New()
	r.generalQueue = 3

	response := r.Route(models.IntentResult{Intent: models.IntentQueueStatus})
	if !strings.Contains(response, "30 minutes") {
		t.Errorf("wait estimate missing from %q", response)
	}
}

func TestRouteDirections(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		entities map[string]string
		wantPart string
	}{
		{
			name:     "exact department",
			entities: map[string]string{"location": "pharmacy"},
			wantPart: "Ground Floor, Room 150",
		},
		{
			name:     "partial match",
			entities: map[string]string{"location": "cardio"},
			wantPart: "Second Floor, Room 301-310",
		},
		{
			name:     "specialization fallback",
			entities: map[string]string{"specialization": "laboratory"},
			wantPart: "Room 160-165",
		},
		{
			name:     "unknown destination",
			entities: map[string]string{"location": "helipad"},
			wantPart: "visit the reception desk",
		},
		{
			name:     "no entities",
			entities: nil,
			wantPart: "visit the reception desk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := r.Route(models.IntentResult{Intent: models.IntentDirections, Entities: tt.entities})
			if !strings.Contains(response, tt.wantPart) {
				t.Errorf("directions response = %q, want substring %q", response, tt.wantPart)
			}
		})
	}
}

func TestRouteAppointment(t *testing.T) {
	r := New()

	response := r.Route(models.IntentResult{
		Intent:   models.IntentAppointment,
		Entities: map[string]string{"specialization": "cardiologist"},
	})

	if !strings.Contains(response, "cardiologist") {
		t.Errorf("appointment response missing specialization: %q", response)
	}
	if !strings.Contains(response, "APT-") {
		t.Errorf("appointment response missing appointment ID: %q", response)
	}

	generic := r.Route(models.IntentResult{Intent: models.IntentAppointment})
	if !strings.Contains(generic, "general physician") {
		t.Errorf("default appointment response: %q", generic)
	}
}

func TestRouteEmergency(t *testing.T) {
	r := New()

	response := r.Route(models.IntentResult{Intent: models.IntentEmergency, Priority: models.PriorityUrgent})
	if response != emergencyResponse {
		t.Errorf("emergency response = %q", response)
	}
	if _, emergency := r.QueueLengths(); emergency != 1 {
		t.Errorf("emergency queue = %d, want 1", emergency)
	}
}

func TestRouteUnknownHandsOff(t *testing.T) {
	r := New()

	for _, intentName := range []string{models.IntentUnknown, "made_up_intent", ""} {
		if response := r.Route(models.IntentResult{Intent: intentName}); response != handoffResponse {
			t.Errorf("Route(%q) = %q, want handoff", intentName, response)
		}
	}
}

// Greeting and information responses carry no per-call state, so repeated
// calls must be identical.
func TestRouteDeterministicResponses(t *testing.T) {
	r := New()

	for _, intentName := range []string{models.IntentGreeting, models.IntentInformation, models.IntentBilling} {
		first := r.Route(models.IntentResult{Intent: intentName})
		for i := 0; i < 5; i++ {
			if again := r.Route(models.IntentResult{Intent: intentName}); again != first {
				t.Fatalf("Route(%q) varied between calls", intentName)
			}
		}
	}
}
