package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"notes-service/internal/model"
)

// MemStores is an in-memory implementation of the store interfaces, used as a
// test double for the handlers. The Tenants/Users/Notes views share one lock
// and one ID sequence. Safe for concurrent use.
type MemStores struct {
	mu      sync.Mutex
	tenants map[uint]*model.Tenant
	users   map[uint]*model.User
	notes   map[uint]*model.Note
	nextID  uint
}

// NewMemStores returns an empty in-memory store set
func NewMemStores() *MemStores {
	return &MemStores{
		tenants: make(map[uint]*model.Tenant),
		users:   make(map[uint]*model.User),
		notes:   make(map[uint]*model.Note),
		nextID:  1,
	}
}

// Tenants returns the TenantStore backed by this store set
func (m *MemStores) Tenants() TenantStore { return memTenantStore{m} }

// Users returns the UserStore backed by this store set
func (m *MemStores) Users() UserStore { return memUserStore{m} }

// Notes returns the NoteStore backed by this store set
func (m *MemStores) Notes() NoteStore { return memNoteStore{m} }

func (m *MemStores) allocID() uint {
	id := m.nextID
	m.nextID++
	return id
}

type memTenantStore struct {
	*MemStores
}

func (s memTenantStore) ByID(ctx context.Context, id uint) (*model.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant, ok := s.tenants[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *tenant
	return &copied, nil
}

func (s memTenantStore) BySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tenant := range s.tenants {
		if tenant.Slug == slug {
			copied := *tenant
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s memTenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tenant.ID == 0 {
		tenant.ID = s.allocID()
	}
	if tenant.SubscriptionPlan == "" {
		tenant.SubscriptionPlan = model.PlanFree
	}
	tenant.CreatedAt = time.Now()
	copied := *tenant
	s.tenants[tenant.ID] = &copied
	return nil
}

func (s memTenantStore) UpgradePlan(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tenant := range s.tenants {
		if tenant.Slug == slug {
			tenant.SubscriptionPlan = model.PlanPro
			tenant.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

type memUserStore struct {
	*MemStores
}

func (s memUserStore) ByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			if tenant, ok := s.tenants[user.TenantID]; ok {
				copied.Tenant = *tenant
			}
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s memUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.allocID()
	}
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

type memNoteStore struct {
	*MemStores
}

func (s memNoteStore) ListByTenant(ctx context.Context, tenantID uint) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes := make([]model.Note, 0)
	for _, note := range s.notes {
		if note.TenantID == tenantID {
			notes = append(notes, *note)
		}
	}
	// Insertion order first, then a stable sort by creation time so notes
	// with equal timestamps keep their insertion order.
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}

func (s memNoteStore) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, note := range s.notes {
		if note.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (s memNoteStore) Create(ctx context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == 0 {
		note.ID = s.allocID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s memNoteStore) ByIDForTenant(ctx context.Context, id, tenantID uint) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok || note.TenantID != tenantID {
		return nil, ErrNotFound
	}
	copied := *note
	return &copied, nil
}

func (s memNoteStore) DeleteByIDForTenant(ctx context.Context, id, tenantID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok || note.TenantID != tenantID {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}
