package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"notes-service/internal/model"
	"notes-service/pkg/jwtutil"

	"golang.org/x/crypto/bcrypt"
)

func (env *testEnv) addUserWithPassword(t *testing.T, email, password, role string, tenantID uint) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &model.User{Email: email, Password: string(hashed), Role: role, TenantID: tenantID}
	if err := env.stores.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %q: %v", email, err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	env.addUserWithPassword(t, "admin@acme.test", "password", model.RoleAdmin, acme.ID)

	c, rec := env.newContext(http.MethodPost, "/auth/login", `{"email":"admin@acme.test","password":"password"}`)
	if err := env.auth.Login(c); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Tenant struct {
			Slug string `json:"slug"`
			Plan string `json:"subscription_plan"`
		} `json:"tenant"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("token missing from login response")
	}
	if resp.User.Role != model.RoleAdmin {
		t.Errorf("user.role = %q, want %q", resp.User.Role, model.RoleAdmin)
	}
	if resp.Tenant.Slug != "acme" {
		t.Errorf("tenant.slug = %q, want %q", resp.Tenant.Slug, "acme")
	}

	// The issued token must carry the full tenant context
	claims, err := jwtutil.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.TenantID != acme.ID || claims.TenantSlug != "acme" || claims.Role != model.RoleAdmin {
		t.Errorf("claims = {tenant %d, slug %q, role %q}, want {%d, \"acme\", \"ADMIN\"}",
			claims.TenantID, claims.TenantSlug, claims.Role, acme.ID)
	}
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	env.addUserWithPassword(t, "user@acme.test", "password", model.RoleMember, acme.ID)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "wrong password",
			body:       `{"email":"user@acme.test","password":"wrong"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			body:       `{"email":"nobody@acme.test","password":"password"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       `{"email":"user@acme.test"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := env.newContext(http.MethodPost, "/auth/login", tt.body)
			if err := env.auth.Login(c); err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestLoginSameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	env := newTestEnv()
	acme := env.addTenant(t, "Acme", "acme", model.PlanFree)
	env.addUserWithPassword(t, "user@acme.test", "password", model.RoleMember, acme.ID)

	errorFor := func(body string) string {
		c, rec := env.newContext(http.MethodPost, "/auth/login", body)
		if err := env.auth.Login(c); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp["error"]
	}

	unknownEmail := errorFor(`{"email":"nobody@acme.test","password":"password"}`)
	wrongPassword := errorFor(`{"email":"user@acme.test","password":"wrong"}`)
	if unknownEmail != wrongPassword {
		t.Errorf("error bodies differ (%q vs %q); they must not reveal which accounts exist", unknownEmail, wrongPassword)
	}
}
