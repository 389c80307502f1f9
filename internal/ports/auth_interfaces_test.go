package ports_test

import (
	"testing"

	"github.com/lovenote/lovenote-web/internal/data"
	"github.com/lovenote/lovenote-web/internal/mocks"
	authmocks "github.com/lovenote/lovenote-web/internal/mocks/auth"
	"github.com/lovenote/lovenote-web/internal/ports"
)

// This test only verifies that our doubles conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*authmocks.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*authmocks.MemorySessionStore)(nil)
	var _ ports.RoleMapper = (*authmocks.StaticRoleMapper)(nil)
	var _ ports.PermissionResolver = (*authmocks.StaticPermissions)(nil)
	var _ ports.FlagStore = (*authmocks.MemoryFlagStore)(nil)
	var _ ports.TemplateSource = (*mocks.MockTemplateSource)(nil)
	var _ ports.TemplateSource = (*data.StaticCatalog)(nil)
	var _ ports.TemplateSource = (*data.TemplateRepo)(nil)
}
