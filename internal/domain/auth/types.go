package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"time"

	"github.com/carehaven/carehome-admin/internal/domain/model"
)

// Role represents the operator's role on the care-home platform.
// Keep string form for easy persistence and cookies.
type Role string

const (
	// RoleSuperAdmin manages every care home and the platform plans.
	RoleSuperAdmin Role = "super_admin"
	// RoleAdmin manages a single company and its care homes.
	RoleAdmin Role = "admin"
	// RoleGuest has no dashboard access.
	RoleGuest Role = "guest"
)

// ParseRole normalizes a backend role string. Unknown values map to RoleGuest.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin:
		return Role(s)
	case "superadmin", "super-admin":
		return RoleSuperAdmin
	default:
		return RoleGuest
	}
}

// State is the logical authentication state derived from a session.
type State int

const (
	// Anonymous means no bearer token is held.
	Anonymous State = iota
	// Authenticated means a bearer token is held.
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Identity represents the authenticated principal returned by an IdP or the backend login endpoint.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID       string
	Email        string
	Groups       []string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // absolute expiry from IdP token, zero when unknown
}

// AuthData is the credential triple replaced as a unit by SetAuthData.
// Empty strings are the sign-out signal.
type AuthData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

// IsZero reports whether all credential fields are empty.
func (d AuthData) IsZero() bool {
	return d.Token == "" && d.RefreshToken == "" && d.UserID == ""
}

// Credentials is the sign-in form body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Grant is what the backend returns from sign-in and session reads.
type Grant struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
}

// AuthData returns the credential triple carried by the grant.
func (g Grant) AuthData() AuthData {
	return AuthData{Token: g.Token, RefreshToken: g.RefreshToken, UserID: g.UserID}
}

// Session is the record persisted under a single key for one browser or CLI profile.
// ID is an opaque session identifier.
type Session struct {
	ID           string             `json:"id"`
	Token        string             `json:"token"`
	RefreshToken string             `json:"refreshToken"`
	UserID       string             `json:"userId"`
	Email        string             `json:"email,omitempty"`
	Role         Role               `json:"role,omitempty"`
	CompanyData  *model.CompanyInfo `json:"companyData,omitempty"`
	ExpiresAt    time.Time          `json:"expiresAt"`
}

// State returns Anonymous when no token is held.
func (s Session) State() State {
	if s.Token == "" {
		return Anonymous
	}
	return Authenticated
}

// IsAuthenticated is shorthand for State() == Authenticated.
func (s Session) IsAuthenticated() bool { return s.State() == Authenticated }

// HasIdentity reports whether both the token and the user id are present.
func (s Session) HasIdentity() bool { return s.Token != "" && s.UserID != "" }

// AuthData returns the credential triple held by the session.
func (s Session) AuthData() AuthData {
	return AuthData{Token: s.Token, RefreshToken: s.RefreshToken, UserID: s.UserID}
}

// WithAuthData returns a copy of s with the credential triple replaced.
// Clearing the credentials also drops everything derived from them.
func (s Session) WithAuthData(d AuthData) Session {
	s.Token = d.Token
	s.RefreshToken = d.RefreshToken
	s.UserID = d.UserID
	if d.Token == "" || d.UserID == "" {
		s.CompanyData = nil
		s.Email = ""
		s.Role = ""
	}
	return s
}

// IsSuperAdmin returns true if the session role is super admin.
func (s Session) IsSuperAdmin() bool { return s.Role == RoleSuperAdmin }
