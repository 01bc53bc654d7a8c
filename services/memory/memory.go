package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carevox/models"
	"carevox/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// How many trailing turns feed the context string and the emergency check.
const recentTurnWindow = 3

// Responses rendered into the context string are cut to this many runes.
const contextResponseLimit = 100

// Needs reported by UnresolvedNeeds.
const (
	NeedRegistrationIncomplete = "registration_incomplete"
	NeedAppointmentPending     = "appointment_pending"
	NeedGuidance               = "may_need_guidance"
)

// ConversationMemory owns the single live session. All mutation goes
// through it; the engine's turn goroutine is the only writer, so no lock
// is held. Adding any concurrent reader of session state would make a
// mutex mandatory here.
type ConversationMemory struct {
	archive         ArchiveStore
	defaultLanguage string
	session         models.Session
}

// New creates the memory service with a fresh session. The archive store
// may be nil; resets then archive to the log only.
func New(archive ArchiveStore, defaultLanguage string) *ConversationMemory {
	m := &ConversationMemory{archive: archive, defaultLanguage: defaultLanguage}
	m.session = newSession()
	utils.GetLogger().Info("Conversation memory initialized", zap.String("sessionID", m.session.ID))
	return m
}

func newSession() models.Session {
	return models.Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Patient: models.Patient{
			RegistrationStatus: models.NotRegistered,
			LastInteraction:    time.Now(),
		},
	}
}

// AddTurn appends a completed turn and folds its entities into the patient
// record. Inferred fields follow first-writer-wins; once the name is set,
// no later inference replaces it.
func (m *ConversationMemory) AddTurn(transcript, intentName, response, language string, entities map[string]string, confidence float64) {
	turn := models.Turn{
		Seq:        len(m.session.History) + 1,
		Timestamp:  time.Now(),
		Transcript: transcript,
		Language:   language,
		Intent:     intentName,
		Response:   response,
		Entities:   entities,
		Confidence: confidence,
	}
	m.session.History = append(m.session.History, turn)

	m.mergeEntities(entities, language)

	if m.session.Patient.Name == "" {
		if name := extractName(transcript); name != "" {
			m.session.Patient.Name = name
			utils.GetLogger().Info("Patient name auto-detected", zap.String("name", name))
		}
	}

	m.session.Patient.LastInteraction = time.Now()
	utils.GetLogger().Info("Turn recorded",
		zap.Int("seq", turn.Seq),
		zap.String("intent", intentName))
}

func (m *ConversationMemory) mergeEntities(entities map[string]string, language string) {
	p := &m.session.Patient

	if name := entities["name"]; name != "" && p.Name == "" {
		p.Name = name
	}
	if dob := entities["date_of_birth"]; dob != "" && p.DateOfBirth == "" {
		p.DateOfBirth = dob
	}
	contact := entities["phone"]
	if contact == "" {
		contact = entities["contact"]
	}
	if contact != "" && p.Contact == "" {
		p.Contact = contact
	}
	if p.PreferredLanguage == "" && language != "" {
		p.PreferredLanguage = language
	}
	if id := entities["patient_id"]; id != "" {
		p.PatientID = id
	}
	if qn := entities["queue_number"]; qn != "" {
		p.QueueNumber = qn
	}

	if spec := entities["specialization"]; spec != "" {
		found := false
		for _, need := range p.MedicalNeeds {
			if need == spec {
				found = true
				break
			}
		}
		if !found {
			p.MedicalNeeds = append(p.MedicalNeeds, spec)
		}
	}

	if aptID := entities["appointment_id"]; aptID != "" {
		spec := entities["specialization"]
		if spec == "" {
			spec = "general"
		}
		p.Appointments = append(p.Appointments, models.Appointment{
			ID:             aptID,
			Specialization: spec,
			BookedAt:       time.Now(),
		})
	}
}

// UpdatePatient applies an explicit update. Unlike inference it may
// overwrite existing fields.
func (m *ConversationMemory) UpdatePatient(update models.PatientUpdate) {
	p := &m.session.Patient
	if update.Name != "" {
		p.Name = update.Name
	}
	if update.PatientID != "" {
		p.PatientID = update.PatientID
	}
	if update.DateOfBirth != "" {
		p.DateOfBirth = update.DateOfBirth
	}
	if update.Contact != "" {
		p.Contact = update.Contact
	}
	if update.PreferredLanguage != "" {
		p.PreferredLanguage = update.PreferredLanguage
	}
	if update.QueueNumber != "" {
		p.QueueNumber = update.QueueNumber
	}
	if update.RegistrationStatus != "" {
		p.RegistrationStatus = update.RegistrationStatus
	}
	p.LastInteraction = time.Now()
}

// Reset archives the outgoing session and starts a fresh one. Calling it
// on an empty session is harmless.
func (m *ConversationMemory) Reset(ctx context.Context) {
	logger := utils.GetLogger()

	if len(m.session.History) > 0 || m.session.Patient.Name != "" {
		archive := models.SessionArchive{
			Session:         m.session,
			TurnCount:       len(m.session.History),
			DurationMinutes: time.Since(m.session.StartedAt).Minutes(),
			ArchivedAt:      time.Now(),
		}
		logger.Info("Archiving session",
			zap.String("sessionID", m.session.ID),
			zap.Int("turns", archive.TurnCount),
			zap.Float64("durationMinutes", archive.DurationMinutes))
		if m.archive != nil {
			if err := m.archive.Save(ctx, archive); err != nil {
				logger.Warn("Session archive store failed", zap.Error(err))
			}
		}
	}

	m.session = newSession()
	logger.Info("Conversation memory reset for new patient", zap.String("sessionID", m.session.ID))
}

// ContextString renders the patient state and recent turns for the
// classifier prompt.
func (m *ConversationMemory) ContextString() string {
	var parts []string
	p := m.session.Patient

	if p.Name != "" {
		parts = append(parts, "Patient Name: "+p.Name)
	}
	if p.PreferredLanguage != "" {
		parts = append(parts, "Preferred Language: "+p.PreferredLanguage)
	}
	if p.RegistrationStatus != models.NotRegistered {
		parts = append(parts, "Registration Status: "+string(p.RegistrationStatus))
	}
	if p.PatientID != "" {
		parts = append(parts, "Patient ID: "+p.PatientID)
	}
	if p.QueueNumber != "" {
		parts = append(parts, "Queue Number: "+p.QueueNumber)
	}
	if len(p.MedicalNeeds) > 0 {
		parts = append(parts, "Medical Needs: "+strings.Join(p.MedicalNeeds, ", "))
	}

	recent := m.recentTurns(recentTurnWindow)
	if len(recent) > 0 {
		parts = append(parts, "\nRecent Conversation:")
		for _, turn := range recent {
			parts = append(parts, fmt.Sprintf("- Patient: %q", turn.Transcript))
			parts = append(parts, fmt.Sprintf("- System: %q", truncate(turn.Response, contextResponseLimit)))
		}
	}

	parts = append(parts, fmt.Sprintf("\nSession Duration: %.1f minutes", time.Since(m.session.StartedAt).Minutes()))
	parts = append(parts, fmt.Sprintf("Total Interactions: %d", len(m.session.History)))

	if len(parts) == 2 && len(m.session.History) == 0 {
		return "New patient - no previous context"
	}
	return strings.Join(parts, "\n")
}

// HasPatientInfo reports whether anything is known about the current
// patient.
func (m *ConversationMemory) HasPatientInfo() bool {
	return m.session.Patient.Name != "" ||
		m.session.Patient.PatientID != "" ||
		len(m.session.History) > 0
}

// IsEmergencyContext reports whether an emergency intent occurred within
// the last three recorded turns.
func (m *ConversationMemory) IsEmergencyContext() bool {
	for _, turn := range m.recentTurns(recentTurnWindow) {
		if turn.Intent == models.IntentEmergency {
			return true
		}
	}
	return false
}

// UnresolvedNeeds derives heuristic follow-up flags from the session.
func (m *ConversationMemory) UnresolvedNeeds() []string {
	var needs []string

	if m.session.Patient.RegistrationStatus == models.NotRegistered && m.hasIntent(models.IntentRegistration, len(m.session.History)) {
		needs = append(needs, NeedRegistrationIncomplete)
	}
	if len(m.session.Patient.Appointments) == 0 && m.hasIntent(models.IntentAppointment, len(m.session.History)) {
		needs = append(needs, NeedAppointmentPending)
	}
	if m.hasIntent(models.IntentDirections, 2) {
		needs = append(needs, NeedGuidance)
	}
	return needs
}

// PreferredLanguage returns the patient's language, defaulting to the
// kiosk's configured language.
func (m *ConversationMemory) PreferredLanguage() string {
	if m.session.Patient.PreferredLanguage != "" {
		return m.session.Patient.PreferredLanguage
	}
	return m.defaultLanguage
}

// Snapshot returns a copy of the live session for inspection; mutating the
// copy does not affect memory.
func (m *ConversationMemory) Snapshot() models.Session {
	s := m.session
	s.History = append([]models.Turn(nil), m.session.History...)
	s.Patient.MedicalNeeds = append([]string(nil), m.session.Patient.MedicalNeeds...)
	s.Patient.Appointments = append([]models.Appointment(nil), m.session.Patient.Appointments...)
	return s
}

// ExportHandover renders the session as a human-readable summary for staff
// taking over from the kiosk.
func (m *ConversationMemory) ExportHandover() string {
	p := m.session.Patient
	var sb strings.Builder

	sb.WriteString("PATIENT HANDOVER SUMMARY\n")
	sb.WriteString("========================\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Name: %s\n", orUnset(p.Name, "Not provided"))
	fmt.Fprintf(&sb, "ID: %s\n", orUnset(p.PatientID, "Not assigned"))
	fmt.Fprintf(&sb, "Language: %s\n", orUnset(p.PreferredLanguage, "Unknown"))
	fmt.Fprintf(&sb, "Contact: %s\n", orUnset(p.Contact, "Not provided"))
	fmt.Fprintf(&sb, "Session: %.1f minutes, %d interactions\n",
		time.Since(m.session.StartedAt).Minutes(), len(m.session.History))

	if len(m.session.History) > 0 {
		sb.WriteString("\nCONVERSATION HISTORY:\n")
		for _, turn := range m.session.History {
			fmt.Fprintf(&sb, "%d. [%s] Patient: %q\n", turn.Seq, turn.Timestamp.Format("15:04:05"), turn.Transcript)
			fmt.Fprintf(&sb, "   Intent: %s | Response: %q\n", turn.Intent, truncate(turn.Response, contextResponseLimit))
		}
	}

	if needs := m.UnresolvedNeeds(); len(needs) > 0 {
		fmt.Fprintf(&sb, "\nUNRESOLVED NEEDS: %s\n", strings.Join(needs, ", "))
	}
	return sb.String()
}

func (m *ConversationMemory) recentTurns(n int) []models.Turn {
	h := m.session.History
	if len(h) > n {
		h = h[len(h)-n:]
	}
	return h
}

func (m *ConversationMemory) hasIntent(intentName string, window int) bool {
	for _, turn := range m.recentTurns(window) {
		if turn.Intent == intentName {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func orUnset(v, unset string) string {
	if v == "" {
		return unset
	}
	return v
}
