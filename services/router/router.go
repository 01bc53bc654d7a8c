package router

import (
	"fmt"
	"strings"
	"time"

	"carevox/models"
	"carevox/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	apologyResponse = "I apologize, but I encountered an error. Please speak to our staff for assistance."
	handoffResponse = "I'm sorry, I didn't quite understand your request. " +
		"Let me connect you with our hospital staff who can better assist you. " +
		"Please wait a moment while I call someone to help you, or you can visit the reception desk directly."
	emergencyResponse = "This is an emergency situation. Please proceed immediately to the Emergency Room on the Ground Floor, Room 101. " +
		"If you need immediate assistance, press the red emergency button or call our emergency number. " +
		"Medical staff has been notified."
)

// Minutes of estimated wait per patient ahead in the queue.
const waitPerPatientMinutes = 10

type hospitalInfo struct {
	hours            string
	phone            string
	emergencyContact string
}

// Router dispatches a classified intent to a mock domain handler and
// returns the English response text. The mock state (registration count,
// queues, directory) exists only for response realism; it is not a system
// of record and has no external side effects. Route never fails: any
// handler panic is converted into a generic apology.
type Router struct {
	registered     map[string]time.Time
	generalQueue   int
	emergencyQueue int
	directory      map[string]string
	info           hospitalInfo
}

func New() *Router {
	return &Router{
		registered: map[string]time.Time{},
		directory: map[string]string{
			"emergency":  "Ground Floor, Room 101-110",
			"general":    "First Floor, Room 201-250",
			"cardiology": "Second Floor, Room 301-310",
			"neurology":  "Second Floor, Room 311-320",
			"orthopedic": "Third Floor, Room 401-410",
			"pediatrics": "Third Floor, Room 411-420",
			"gynecology": "Fourth Floor, Room 501-510",
			"pharmacy":   "Ground Floor, Room 150",
			"laboratory": "Ground Floor, Room 160-165",
			"billing":    "Ground Floor, Room 120",
			"reception":  "Ground Floor, Main Entrance",
			"cafeteria":  "Ground Floor, Room 180",
			"bathroom":   "Available on every floor near the lifts",
		},
		info: hospitalInfo{
			hours:            "24/7 Emergency, 8 AM - 8 PM General Services",
			phone:            "+91-98765-43210",
			emergencyContact: "+91-98765-43211",
		},
	}
}

// Route maps the intent to its handler. The returned text is always in
// English; translation happens downstream.
func (r *Router) Route(result models.IntentResult) (response string) {
	defer func() {
		if rec := recover(); rec != nil {
			utils.GetLogger().Error("Routing handler panicked", zap.Any("panic", rec))
			response = apologyResponse
		}
	}()

	utils.GetLogger().Info("Routing intent", zap.String("intent", result.Intent))

	switch result.Intent {
	case models.IntentRegistration:
		return r.handleRegistration(result.Entities)
	case models.IntentQueueStatus:
		return r.handleQueueStatus()
	case models.IntentDirections:
		return r.handleDirections(result.Entities)
	case models.IntentAppointment:
		return r.handleAppointment(result.Entities)
	case models.IntentEmergency:
		return r.handleEmergency()
	case models.IntentInformation:
		return r.handleInformation()
	case models.IntentBilling:
		return r.handleBilling()
	case models.IntentGreeting:
		return r.handleGreeting()
	default:
		return handoffResponse
	}
}

func (r *Router) handleRegistration(entities map[string]string) string {
	name := entities["name"]
	if name == "" {
		name = "Patient"
	}

	patientID := "PAT-" + shortID()
	r.registered[patientID] = time.Now()
	r.generalQueue++

	return fmt.Sprintf("Hello %s! You are successfully registered with patient ID %s. "+
		"Your queue number is %d. Please wait for your turn.", name, patientID, r.generalQueue)
}

func (r *Router) handleQueueStatus() string {
	if r.generalQueue == 0 {
		return "There is no queue currently. You can proceed directly to the reception."
	}
	wait := r.generalQueue * waitPerPatientMinutes
	if r.generalQueue <= 3 {
		return fmt.Sprintf("There are %d patients ahead of you. Estimated wait time is %d minutes.", r.generalQueue, wait)
	}
	return fmt.Sprintf("There are %d patients in the queue. Estimated wait time is %d minutes. Please be patient.", r.generalQueue, wait)
}

func (r *Router) handleDirections(entities map[string]string) string {
	target := strings.ToLower(entities["location"])
	if target == "" {
		target = strings.ToLower(entities["specialization"])
	}

	if place, ok := r.directory[target]; ok {
		return fmt.Sprintf("The %s is located at %s. Please follow the hospital signs for guidance.", target, place)
	}

	// Partial matches, e.g. "cardio" or "labs".
	if target != "" {
		for key, place := range r.directory {
			if strings.Contains(key, target) || strings.Contains(target, key) {
				return fmt.Sprintf("The %s is located at %s. Please follow the hospital signs for guidance.", key, place)
			}
		}
	}

	return "Please visit the reception desk on the ground floor for detailed directions. They will guide you to your destination."
}

func (r *Router) handleAppointment(entities map[string]string) string {
	specialization := entities["specialization"]
	if specialization == "" {
		specialization = "general physician"
	}
	name := entities["name"]
	if name == "" {
		name = "Patient"
	}

	appointmentID := "APT-" + shortID()
	return fmt.Sprintf("Hello %s! I have booked an appointment for you with the %s. "+
		"Your appointment ID is %s scheduled for tomorrow at 10:30 AM. "+
		"Please arrive 15 minutes early and bring all necessary documents.", name, specialization, appointmentID)
}

func (r *Router) handleEmergency() string {
	utils.GetLogger().Warn("Emergency situation detected")
	r.emergencyQueue++
	return emergencyResponse
}

func (r *Router) handleInformation() string {
	return fmt.Sprintf("Our hospital is open %s. For general inquiries, call %s. For emergencies, call %s. "+
		"Visit our reception desk for more detailed information about our services and facilities.",
		r.info.hours, r.info.phone, r.info.emergencyContact)
}

func (r *Router) handleBilling() string {
	return "For billing and payment information, please visit the Billing Counter on the Ground Floor, Room 120. " +
		"Our billing staff can help you with payment options, insurance claims, and cost estimates. " +
		"We accept cash, cards, and most insurance plans."
}

func (r *Router) handleGreeting() string {
	return "Hello! Welcome to our hospital. How can I assist you today?"
}

// QueueLengths exposes the mock queue counters for status reporting.
func (r *Router) QueueLengths() (general, emergency int) {
	return r.generalQueue, r.emergencyQueue
}

func shortID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
