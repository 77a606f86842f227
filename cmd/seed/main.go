// Command seed populates the database with two demo tenants (acme, globex),
// each with one admin and one member. Existing tenants and users are left
// untouched, so running it twice is safe.
package main

import (
	"context"
	"errors"
	"fmt"

	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db, &model.Tenant{}, &model.User{}, &model.Note{}); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	stores := store.NewGormStores(db)
	ctx := context.Background()

	for _, seed := range []struct {
		name string
		slug string
	}{
		{name: "Acme", slug: "acme"},
		{name: "Globex", slug: "globex"},
	} {
		if err := seedTenant(ctx, stores, seed.name, seed.slug, log); err != nil {
			log.Fatal("Seeding failed", zap.String("slug", seed.slug), zap.Error(err))
		}
	}

	log.Info("Seeding complete")
}

func seedTenant(ctx context.Context, stores *store.GormStores, name, slug string, log *zap.Logger) error {
	tenant, err := stores.Tenants.BySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		tenant = &model.Tenant{
			Name:             name,
			Slug:             slug,
			SubscriptionPlan: model.PlanFree,
		}
		if err := stores.Tenants.Create(ctx, tenant); err != nil {
			return err
		}
		log.Info("Tenant created", zap.String("slug", slug), zap.Uint("id", tenant.ID))
	} else {
		log.Info("Tenant already exists, skipping", zap.String("slug", slug))
	}

	users := []struct {
		email string
		role  string
	}{
		{email: fmt.Sprintf("admin@%s.test", slug), role: model.RoleAdmin},
		{email: fmt.Sprintf("user@%s.test", slug), role: model.RoleMember},
	}

	for _, u := range users {
		if _, err := stores.Users.ByEmail(ctx, u.email); err == nil {
			log.Info("User already exists, skipping", zap.String("email", u.email))
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := &model.User{
			Email:    u.email,
			Password: string(hashed),
			Role:     u.role,
			TenantID: tenant.ID,
		}
		if err := stores.Users.Create(ctx, user); err != nil {
			return err
		}
		log.Info("User created",
			zap.String("email", u.email),
			zap.String("role", u.role),
			zap.Uint("tenant_id", tenant.ID))
	}

	return nil
}
