// Package store provides the persistence layer for tenants, users and notes.
// Handlers depend on the interfaces here, never on a database handle, so the
// gorm-backed implementation can be swapped for the in-memory one in tests.
package store

import (
	"context"
	"errors"

	"notes-service/internal/model"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the requesting tenant. Cross-tenant lookups deliberately return this same
// error so another tenant's IDs are indistinguishable from absent ones.
var ErrNotFound = errors.New("record not found")

// TenantStore persists tenant records
type TenantStore interface {
	ByID(ctx context.Context, id uint) (*model.Tenant, error)
	BySlug(ctx context.Context, slug string) (*model.Tenant, error)
	Create(ctx context.Context, tenant *model.Tenant) error
	// UpgradePlan sets the tenant's subscription plan to PRO. Upgrading an
	// already-PRO tenant is a no-op success.
	UpgradePlan(ctx context.Context, slug string) error
}

// UserStore persists user records
type UserStore interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// NoteStore persists note records. Every query is scoped by tenant ID.
type NoteStore interface {
	// ListByTenant returns the tenant's notes ordered by creation time
	// descending, most recent first.
	ListByTenant(ctx context.Context, tenantID uint) ([]model.Note, error)
	CountByTenant(ctx context.Context, tenantID uint) (int64, error)
	Create(ctx context.Context, note *model.Note) error
	ByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Note, error)
	// DeleteByIDForTenant removes the note only if it belongs to the given
	// tenant; otherwise it returns ErrNotFound.
	DeleteByIDForTenant(ctx context.Context, id, tenantID uint) error
}
