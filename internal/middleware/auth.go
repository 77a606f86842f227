package middleware

import (
	"net/http"
	"strings"

	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys under which AuthMiddleware stores the verified identity.
// Handlers read tenant and role only from these keys, never from the request
// body or URL.
const (
	UserIDKey     = "user_id"
	EmailKey      = "email"
	TenantIDKey   = "tenant_id"
	TenantSlugKey = "tenant_slug"
	RoleKey       = "user_role"
)

// AuthMiddleware verifies the JWT bearer token and stores its claims in the
// echo context. A missing or invalid token yields a 401, never a panic.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		prometheus.AuthAttemptsCounter.Inc()

		// Extract the token from the Authorization header
		tokenString := c.Request().Header.Get("Authorization")
		if tokenString == "" {
			log.Warn("Missing authorization token")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
		}

		// Remove "Bearer " prefix if present
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:7]) == "BEARER " {
			tokenString = tokenString[7:]
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
		}

		// Store the verified identity in context for the handlers
		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(TenantIDKey, claims.TenantID)
		c.Set(TenantSlugKey, claims.TenantSlug)
		c.Set(RoleKey, claims.Role)

		return next(c)
	}
}

// RequireTenantContext ensures the verified token carries a tenant. Tokens
// without one cannot touch tenant-scoped resources.
func RequireTenantContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		tenantID, ok := c.Get(TenantIDKey).(uint)
		if !ok || tenantID == 0 {
			log.Warn("Missing tenant context")
			prometheus.TenantContextMissingCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid session token"})
		}

		return next(c)
	}
}
