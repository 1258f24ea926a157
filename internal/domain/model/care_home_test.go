package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeolocation_Validate(t *testing.T) {
	assert.NoError(t, Geolocation{Latitude: 51.5, Longitude: -0.12}.Validate())
	assert.Error(t, Geolocation{Latitude: 91}.Validate())
	assert.Error(t, Geolocation{Longitude: -181}.Validate())
}

func TestUpdateCareHomeRequest_Validate(t *testing.T) {
	req := UpdateCareHomeRequest{
		Name:        " Willow House ",
		Geolocation: Geolocation{Latitude: 10, Longitude: 20},
		ContactInfo: ContactInfo{Email: "front@willow.example"},
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Willow House", req.Name)

	req.Settings.Capacity = -1
	assert.EqualError(t, req.Validate(), "capacity cannot be negative")
}

func TestPlanRequest_Validate(t *testing.T) {
	req := PlanRequest{
		Name:     "Starter",
		Price:    49,
		Currency: "eur",
		Features: []string{" reports ", "", "alerts"},
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, BillingMonthly, req.BillingInterval)
	assert.Equal(t, []string{"reports", "alerts"}, req.Features)

	req.BillingInterval = "weekly"
	assert.Error(t, req.Validate())
}

func TestProfileUpdate_Validate(t *testing.T) {
	assert.EqualError(t, ProfileUpdate{}.Validate(), "nothing to update")
	assert.EqualError(t, ProfileUpdate{"name": " "}.Validate(), "name cannot be empty")
	assert.NoError(t, ProfileUpdate{"roomNumber": "12B"}.Validate())
}
