package model

import (
	"errors"
	"strings"
	"time"
)

// BillingInterval is how often a plan is charged.
type BillingInterval string

const (
	BillingMonthly BillingInterval = "monthly"
	BillingYearly  BillingInterval = "yearly"
)

// PlanScope selects which backend namespace serves plans.
// Super admins manage the platform catalogue; company admins see their own plans.
type PlanScope string

const (
	PlanScopeSuper PlanScope = "super"
	PlanScopeAdmin PlanScope = "admin"
)

// Plan is a subscription plan.
type Plan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           float64         `json:"price"`
	Currency        string          `json:"currency"`
	BillingInterval BillingInterval `json:"billingInterval"`
	MaxResidents    int             `json:"maxResidents"`
	Features        []string        `json:"features,omitempty"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// PlanRequest carries create and update fields.
type PlanRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           float64         `json:"price"`
	Currency        string          `json:"currency"`
	BillingInterval BillingInterval `json:"billingInterval"`
	MaxResidents    int             `json:"maxResidents"`
	Features        []string        `json:"features,omitempty"`
	Active          bool            `json:"active"`
}

// Validate validates PlanRequest and normalizes currency and interval.
func (r *PlanRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Price < 0 {
		return errors.New("price cannot be negative")
	}
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = "USD"
	}
	if len(r.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	r.BillingInterval = BillingInterval(strings.ToLower(strings.TrimSpace(string(r.BillingInterval))))
	if r.BillingInterval == "" {
		r.BillingInterval = BillingMonthly
	}
	if r.BillingInterval != BillingMonthly && r.BillingInterval != BillingYearly {
		return errors.New("billing interval must be monthly or yearly")
	}
	if r.MaxResidents < 0 {
		return errors.New("max residents cannot be negative")
	}
	features := r.Features[:0]
	for _, f := range r.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	r.Features = features
	return nil
}
