package model

import (
	"errors"
	"strings"
	"time"
)

// CompanyInfo is the operator's company profile. There is one record per company.
type CompanyInfo struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Address            string    `json:"address,omitempty"`
	Website            string    `json:"website,omitempty"`
	Logo               string    `json:"logo,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CompanyInfoRequest carries create and update fields.
type CompanyInfoRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	Website            string `json:"website,omitempty"`
}

// Validate validates CompanyInfoRequest.
func (r *CompanyInfoRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name == "" {
		return errors.New("company name is required")
	}
	if r.Email != "" {
		return validateEmail(r.Email)
	}
	return nil
}
