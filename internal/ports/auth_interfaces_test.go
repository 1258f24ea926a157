package ports_test

import (
	"testing"

	"github.com/carehaven/carehome-admin/internal/adapters/authroles"
	"github.com/carehaven/carehome-admin/internal/backend"
	"github.com/carehaven/carehome-admin/internal/domain/model"
	mocks "github.com/carehaven/carehome-admin/internal/mocks/auth"
	"github.com/carehaven/carehome-admin/internal/ports"
)

// This test only verifies that adapters and mocks conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mocks.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.RoleMapper = authroles.StaticRoleMapper{}

	var _ ports.AuthBackend = (*backend.AuthClient)(nil)
	var _ ports.UserBackend = (*backend.UserClient)(nil)
	var _ ports.DocumentBackend = (*backend.DocumentClient)(nil)
	var _ ports.CareHomeBackend = (*backend.CareHomeClient)(nil)
	var _ ports.PlanBackend = (*backend.PlanClient)(nil)
	var _ ports.CompanyBackend = (*backend.CompanyClient)(nil)
	var _ ports.ProfileBackend[model.Resident] = (*backend.ProfileClient[model.Resident])(nil)
}
