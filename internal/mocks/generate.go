// Package mocks provides mock implementations of the ports used by the dashboard services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "sid").Return(auth.Session{}, ports.ErrSessionNotFound)
package mocks

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods: Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/carehaven/carehome-admin/internal/ports SessionStore

// Generate mock for AuthBackend interface from internal/ports package.
// This creates MockAuthBackend with methods: Login, Session, UpdateSession
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_backend_mock.go github.com/carehaven/carehome-admin/internal/ports AuthBackend

// Generate mock for UserBackend interface from internal/ports package.
// This creates MockUserBackend with methods: List, Get, Create, Update
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_backend_mock.go github.com/carehaven/carehome-admin/internal/ports UserBackend

// Generate mock for CompanyBackend interface from internal/ports package.
// This creates MockCompanyBackend with methods: Get, Save
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=company_backend_mock.go github.com/carehaven/carehome-admin/internal/ports CompanyBackend
