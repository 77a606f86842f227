package handler

import (
	"errors"
	"net/http"
	"time"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantHandler serves the tenant endpoints
type TenantHandler struct {
	tenants store.TenantStore
}

// NewTenantHandler builds a TenantHandler on top of the given tenant store
func NewTenantHandler(tenants store.TenantStore) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// GetTenant returns the caller's own tenant. Any other slug is a 404, not a
// 403, so the endpoint does not confirm that other tenants exist.
func (h *TenantHandler) GetTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("get")

	tenantSlug, ok := c.Get(middleware.TenantSlugKey).(string)
	if !ok || tenantSlug == "" {
		log.Warn("Missing tenant slug in context")
		prometheus.TenantContextMissingCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid session token"})
	}

	slug := c.Param("slug")
	if slug != tenantSlug {
		log.Warn("Tenant lookup outside own tenant",
			zap.String("requested_slug", slug),
			zap.String("token_slug", tenantSlug))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := h.tenants.BySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
		}
		log.Error("Failed to load tenant", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An unexpected error occurred."})
	}

	return c.JSON(http.StatusOK, tenant)
}

// UpgradeTenant sets the tenant's plan to PRO, lifting the FREE note limit.
// Only an ADMIN may upgrade, and only their own tenant. The operation is
// idempotent: upgrading an already-PRO tenant succeeds without change.
func (h *TenantHandler) UpgradeTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("upgrade")

	role, _ := c.Get(middleware.RoleKey).(string)
	tenantSlug, _ := c.Get(middleware.TenantSlugKey).(string)
	slug := c.Param("slug")

	if role != model.RoleAdmin {
		log.Warn("Upgrade attempted without admin role",
			zap.String("role", role),
			zap.String("slug", slug))
		prometheus.RecordAuthError("upgrade_forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
	}

	// An admin may only upgrade their own tenant, never another's
	if tenantSlug == "" || tenantSlug != slug {
		log.Warn("Upgrade attempted on another tenant",
			zap.String("requested_slug", slug),
			zap.String("token_slug", tenantSlug))
		prometheus.RecordAuthError("upgrade_cross_tenant")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.tenants.UpgradePlan(c.Request().Context(), slug); err != nil {
		log.Error("Failed to upgrade tenant", zap.String("slug", slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An unexpected error occurred."})
	}

	log.Info("Tenant upgraded to PRO", zap.String("slug", slug))
	return c.JSON(http.StatusOK, echo.Map{"message": "Upgrade successful"})
}
