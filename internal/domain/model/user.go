package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// UserRole is the platform role stored on a user account.
type UserRole string

const (
	UserRoleAdmin                  UserRole = "admin"
	UserRoleCaregiver              UserRole = "caregiver"
	UserRoleHealthcareProfessional UserRole = "healthcare_professional"
	UserRoleInterviewCandidate     UserRole = "interview_candidate"
	UserRoleResident               UserRole = "resident"
)

// UserRoles lists the roles offered by list filters and forms, in display order.
var UserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleCaregiver,
	UserRoleHealthcareProfessional,
	UserRoleInterviewCandidate,
	UserRoleResident,
}

// Valid reports whether the role is supported.
func (r UserRole) Valid() bool {
	for _, known := range UserRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseUserRole normalizes a role string and reports whether it is supported.
func ParseUserRole(value string) (UserRole, bool) {
	role := UserRole(strings.ToLower(strings.TrimSpace(value)))
	if role.Valid() {
		return role, true
	}
	return "", false
}

// User is an account managed by the backend.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Role           UserRole  `json:"role"`
	Active         bool      `json:"active"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CareHomeID     string    `json:"careHomeId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateUserRequest is sent as multipart so a profile picture can ride along.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     UserRole
	Active   bool
	Picture  *FileUpload
}

// Validate validates CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !r.Role.Valid() {
		return errors.New("role is not supported")
	}
	return nil
}

// UpdateUserRequest represents parameters to update a User.
type UpdateUserRequest struct {
	Name   *string   `json:"name,omitempty"`
	Email  *string   `json:"email,omitempty"`
	Phone  *string   `json:"phone,omitempty"`
	Role   *UserRole `json:"role,omitempty"`
	Active *bool     `json:"active,omitempty"`
}

// Validate validates UpdateUserRequest.
func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Email != nil {
		if err := validateEmail(strings.TrimSpace(*r.Email)); err != nil {
			return err
		}
	}
	if r.Role != nil && !r.Role.Valid() {
		return errors.New("role is not supported")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email is not a valid address")
	}
	return nil
}
