package model

import (
	"errors"
	"strings"
	"time"
)

// Geolocation is a WGS84 coordinate pair.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks coordinate ranges.
func (g Geolocation) Validate() error {
	if g.Latitude < -90 || g.Latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// CareHomeSettings holds per-home operational settings. It travels as a JSON-encoded form field.
type CareHomeSettings struct {
	Capacity          int    `json:"capacity"`
	TimeZone          string `json:"timeZone,omitempty"`
	VisitingHours     string `json:"visitingHours,omitempty"`
	AllowsVisitors    bool   `json:"allowsVisitors"`
	EmergencyProtocol string `json:"emergencyProtocol,omitempty"`
}

// ContactInfo holds care-home contact channels. It travels as a JSON-encoded form field.
type ContactInfo struct {
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// CareHome is a facility registered on the platform.
type CareHome struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Address     string           `json:"address"`
	Geolocation Geolocation      `json:"geolocation"`
	Settings    CareHomeSettings `json:"settings"`
	ContactInfo ContactInfo      `json:"contactInfo"`
	Active      bool             `json:"active"`
	Logo        string           `json:"logo,omitempty"`
	PlanID      string           `json:"planId,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// UpdateCareHomeRequest is sent as multipart with nested settings and contact info JSON-encoded.
type UpdateCareHomeRequest struct {
	Name        string
	Address     string
	Geolocation Geolocation
	Settings    CareHomeSettings
	ContactInfo ContactInfo
	Active      bool
	Logo        *FileUpload
}

// Validate validates UpdateCareHomeRequest.
func (r *UpdateCareHomeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if err := r.Geolocation.Validate(); err != nil {
		return err
	}
	if r.Settings.Capacity < 0 {
		return errors.New("capacity cannot be negative")
	}
	if r.ContactInfo.Email != "" {
		if err := validateEmail(r.ContactInfo.Email); err != nil {
			return err
		}
	}
	return nil
}
