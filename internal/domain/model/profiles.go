package model

import (
	"errors"
	"strings"
	"time"
)

// ProfileKind names a role-specific profile collection on the backend.
type ProfileKind string

const (
	ProfileCaregivers              ProfileKind = "caregivers"
	ProfileHealthcareProfessionals ProfileKind = "healthcare-professionals"
	ProfileInterviewCandidates     ProfileKind = "interview-candidates"
	ProfileResidents               ProfileKind = "residents"
)

// Caregiver is the profile attached to a caregiver user.
type Caregiver struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Qualifications  []string  `json:"qualifications,omitempty"`
	ExperienceYears int       `json:"experienceYears"`
	Shift           string    `json:"shift,omitempty"`
	Active          bool      `json:"active"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HealthcareProfessional is the profile attached to a clinician user.
type HealthcareProfessional struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"licenseNumber"`
	Active        bool      `json:"active"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CandidateStatus tracks an interview candidate through hiring.
type CandidateStatus string

const (
	CandidatePending   CandidateStatus = "pending"
	CandidateScheduled CandidateStatus = "scheduled"
	CandidateHired     CandidateStatus = "hired"
	CandidateRejected  CandidateStatus = "rejected"
)

// InterviewCandidate is the profile attached to an applicant.
type InterviewCandidate struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Position      string          `json:"position"`
	InterviewDate *time.Time      `json:"interviewDate,omitempty"`
	Status        CandidateStatus `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Resident is the profile attached to a care-home resident.
type Resident struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Name             string     `json:"name"`
	RoomNumber       string     `json:"roomNumber,omitempty"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	AdmissionDate    *time.Time `json:"admissionDate,omitempty"`
	EmergencyContact string     `json:"emergencyContact,omitempty"`
	MedicalNotes     string     `json:"medicalNotes,omitempty"`
	Active           bool       `json:"active"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ProfileUpdate is the field set edited on any profile detail form.
// Keys are backend field names; absent keys are left unchanged.
type ProfileUpdate map[string]any

// Validate rejects updates that would blank the display name.
func (u ProfileUpdate) Validate() error {
	if len(u) == 0 {
		return errors.New("nothing to update")
	}
	if v, ok := u["name"]; ok {
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return errors.New("name cannot be empty")
		}
	}
	return nil
}
