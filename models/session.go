package models

import "time"

// RegistrationStatus tracks whether the current patient has completed
// kiosk registration.
type RegistrationStatus string

const (
	NotRegistered RegistrationStatus = "not_registered"
	Registered    RegistrationStatus = "registered"
)

// Appointment is a booking made for the current patient during the session.
type Appointment struct {
	ID             string    `json:"id"`
	Specialization string    `json:"specialization"`
	BookedAt       time.Time `json:"bookedAt"`
}

// Patient holds everything the kiosk has learned about the person at the
// counter. Fields filled in by inference (name extraction, entity merging)
// follow first-writer-wins; only an explicit update may replace them.
type Patient struct {
	Name               string             `json:"name,omitempty"`
	PatientID          string             `json:"patientId,omitempty"`
	DateOfBirth        string             `json:"dateOfBirth,omitempty"`
	Contact            string             `json:"contact,omitempty"`
	PreferredLanguage  string             `json:"preferredLanguage,omitempty"`
	MedicalNeeds       []string           `json:"medicalNeeds,omitempty"`
	Appointments       []Appointment      `json:"appointments,omitempty"`
	RegistrationStatus RegistrationStatus `json:"registrationStatus"`
	QueueNumber        string             `json:"queueNumber,omitempty"`
	LastInteraction    time.Time          `json:"lastInteraction"`
}

// Turn is one completed listen-classify-route-speak cycle.
type Turn struct {
	Seq        int               `json:"seq"`
	Timestamp  time.Time         `json:"timestamp"`
	Transcript string            `json:"transcript"`
	Language   string            `json:"language"`
	Intent     string            `json:"intent"`
	Response   string            `json:"response"`
	Entities   map[string]string `json:"entities,omitempty"`
	Confidence float64           `json:"confidence"`
}

// Session is the live patient context. Exactly one session exists at a
// time; it is owned by the engine and mutated only through the memory
// service.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Patient   Patient   `json:"patient"`
	History   []Turn    `json:"history"`
}

// SessionArchive is the snapshot written out when a session is reset.
type SessionArchive struct {
	Session         Session   `json:"session"`
	TurnCount       int       `json:"turnCount"`
	DurationMinutes float64   `json:"durationMinutes"`
	ArchivedAt      time.Time `json:"archivedAt"`
}

// PatientUpdate carries explicit patient field updates. Empty fields are
// left untouched; a non-empty field always wins, unlike inferred values.
type PatientUpdate struct {
	Name               string
	PatientID          string
	DateOfBirth        string
	Contact            string
	PreferredLanguage  string
	QueueNumber        string
	RegistrationStatus RegistrationStatus
}
