package data

import (
	"errors"

	"github.com/lovenote/lovenote-web/internal/ports"
)

// Shared sentinel errors for data-layer repositories.
var (
	// ErrTemplateNotFound is returned when a template id matches no template.
	ErrTemplateNotFound = ports.ErrTemplateNotFound
	// ErrRoleRequired is returned when a permission grant names no role.
	ErrRoleRequired = errors.New("role is required")
	// ErrPermissionRequired is returned when a permission grant names no permission.
	ErrPermissionRequired = errors.New("permission is required")
)
