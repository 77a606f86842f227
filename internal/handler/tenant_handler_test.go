package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"notes-service/internal/model"
)

func (env *testEnv) upgradeAs(t *testing.T, user *model.User, tenant *model.Tenant, slug string) (int, string) {
	t.Helper()
	c, rec := env.newContext(http.MethodPost, "/api/tenants/"+slug+"/upgrade", "")
	c.SetPath("/api/tenants/:slug/upgrade")
	c.SetParamNames("slug")
	c.SetParamValues(slug)
	asUser(c, user, tenant)
	if err := env.tenants.UpgradeTenant(c); err != nil {
		t.Fatalf("UpgradeTenant() error = %v", err)
	}
	return rec.Code, rec.Body.String()
}

func (env *testEnv) planOf(t *testing.T, slug string) string {
	t.Helper()
	tenant, err := env.stores.Tenants().BySlug(context.Background(), slug)
	if err != nil {
		t.Fatalf("failed to load tenant %q: %v", slug, err)
	}
	return tenant.SubscriptionPlan
}

func TestUpgradeTenantAsAdmin(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	admin := env.addUser(t, "admin@acme.test", model.RoleAdmin, acme.ID)

	status, body := env.upgradeAs(t, admin, acme, "acme")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", status, http.StatusOK, body)
	}

	var resp map[string]string
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "Upgrade successful" {
		t.Errorf("message = %q, want %q", resp["message"], "Upgrade successful")
	}
	if plan := env.planOf(t, "acme"); plan != model.PlanPro {
		t.Errorf("plan = %q, want %q", plan, model.PlanPro)
	}
}

func TestUpgradeTenantAsMember(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	member := env.addUser(t, "user@acme.test", model.RoleMember, acme.ID)

	status, _ := env.upgradeAs(t, member, acme, "acme")
	if status != http.StatusForbidden {
		t.Errorf("status = %d, want %d", status, http.StatusForbidden)
	}
	if plan := env.planOf(t, "acme"); plan != model.PlanFree {
		t.Errorf("plan = %q, want unchanged %q", plan, model.PlanFree)
	}
}

func TestUpgradeTenantCrossTenant(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	env.addTenant(t, "Globex", "globex", model.PlanFree)
	acmeAdmin := env.addUser(t, "admin@acme.test", model.RoleAdmin, acme.ID)

	// An acme admin must not be able to upgrade globex
	status, _ := env.upgradeAs(t, acmeAdmin, acme, "globex")
	if status != http.StatusForbidden {
		t.Errorf("status = %d, want %d", status, http.StatusForbidden)
	}
	if plan := env.planOf(t, "globex"); plan != model.PlanFree {
		t.Errorf("globex plan = %q, want unchanged %q", plan, model.PlanFree)
	}
}

func TestUpgradeTenantIdempotent(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanPro)
	admin := env.addUser(t, "admin@acme.test", model.RoleAdmin, acme.ID)

	status, _ := env.upgradeAs(t, admin, acme, "acme")
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d (upgrading PRO tenant is a no-op success)", status, http.StatusOK)
	}
	if plan := env.planOf(t, "acme"); plan != model.PlanPro {
		t.Errorf("plan = %q, want %q", plan, model.PlanPro)
	}
}

func TestGetTenantOwnSlug(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	user := env.addUser(t, "user@acme.test", model.RoleMember, acme.ID)

	c, rec := env.newContext(http.MethodGet, "/api/tenants/acme", "")
	c.SetPath("/api/tenants/:slug")
	c.SetParamNames("slug")
	c.SetParamValues("acme")
	asUser(c, user, acme)

	if err := env.tenants.GetTenant(c); err != nil {
		t.Fatalf("GetTenant() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var tenant model.Tenant
	if err := json.Unmarshal(rec.Body.Bytes(), &tenant); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if tenant.Slug != "acme" || tenant.SubscriptionPlan != model.PlanFree {
		t.Errorf("tenant = {%q, %q}, want {\"acme\", \"FREE\"}", tenant.Slug, tenant.SubscriptionPlan)
	}
}

func TestGetTenantOtherSlugIsNotFound(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	env.addTenant(t, "Globex", "globex", model.PlanFree)
	user := env.addUser(t, "user@acme.test", model.RoleMember, acme.ID)

	c, rec := env.newContext(http.MethodGet, "/api/tenants/globex", "")
	c.SetPath("/api/tenants/:slug")
	c.SetParamNames("slug")
	c.SetParamValues("globex")
	asUser(c, user, acme)

	if err := env.tenants.GetTenant(c); err != nil {
		t.Fatalf("GetTenant() error = %v", err)
	}
	// Existing tenants outside the caller's own must look absent
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
