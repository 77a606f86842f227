package store

import (
	"context"
	"errors"

	"notes-service/internal/model"

	"gorm.io/gorm"
)

// GormStores bundles the gorm-backed store implementations sharing one
// database handle.
type GormStores struct {
	Tenants TenantStore
	Users   UserStore
	Notes   NoteStore
}

// NewGormStores builds the production stores on top of the given handle
func NewGormStores(db *gorm.DB) *GormStores {
	return &GormStores{
		Tenants: &gormTenantStore{db: db},
		Users:   &gormUserStore{db: db},
		Notes:   &gormNoteStore{db: db},
	}
}

type gormTenantStore struct {
	db *gorm.DB
}

func (s *gormTenantStore) ByID(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).First(&tenant, id)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return &tenant, nil
}

func (s *gormTenantStore) BySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return &tenant, nil
}

func (s *gormTenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	return s.db.WithContext(ctx).Create(tenant).Error
}

func (s *gormTenantStore) UpgradePlan(ctx context.Context, slug string) error {
	result := s.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("slug = ?", slug).
		Update("subscription_plan", model.PlanPro)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// The update matches already-PRO tenants too, so zero rows means
		// the slug does not exist.
		return ErrNotFound
	}
	return nil
}

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := s.db.WithContext(ctx).Preload("Tenant").Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return &user, nil
}

func (s *gormUserStore) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

type gormNoteStore struct {
	db *gorm.DB
}

func (s *gormNoteStore) ListByTenant(ctx context.Context, tenantID uint) ([]model.Note, error) {
	var notes []model.Note
	result := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id ASC").
		Find(&notes)
	if result.Error != nil {
		return nil, result.Error
	}
	return notes, nil
}

func (s *gormNoteStore) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("tenant_id = ?", tenantID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (s *gormNoteStore) Create(ctx context.Context, note *model.Note) error {
	return s.db.WithContext(ctx).Create(note).Error
}

func (s *gormNoteStore) ByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Note, error) {
	var note model.Note
	result := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&note)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return &note, nil
}

func (s *gormNoteStore) DeleteByIDForTenant(ctx context.Context, id, tenantID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
