package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/quota"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NoteRequest defines the structure for note creation requests. The tenant
// and author are deliberately absent: both come from the verified token.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// NoteHandler serves the tenant-scoped note endpoints
type NoteHandler struct {
	notes   store.NoteStore
	tenants store.TenantStore
	quota   quota.Policy
}

// NewNoteHandler builds a NoteHandler on top of the given stores and policy
func NewNoteHandler(notes store.NoteStore, tenants store.TenantStore, policy quota.Policy) *NoteHandler {
	return &NoteHandler{notes: notes, tenants: tenants, quota: policy}
}

// ListNotes returns all notes of the caller's tenant, most recent first
func (h *NoteHandler) ListNotes(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("list")

	tenantID, ok := c.Get(middleware.TenantIDKey).(uint)
	if !ok || tenantID == 0 {
		log.Warn("Missing tenant_id in context")
		prometheus.TenantContextMissingCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	notes, err := h.notes.ListByTenant(c.Request().Context(), tenantID)
	if err != nil {
		log.Error("Failed to retrieve notes", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An unexpected error occurred."})
	}
	if notes == nil {
		notes = []model.Note{}
	}

	log.Info("Notes retrieved",
		zap.Int("count", len(notes)),
		zap.Uint("tenant_id", tenantID))
	return c.JSON(http.StatusOK, notes)
}

// CreateNote creates a note for the caller's tenant, enforcing the plan quota.
// The count-then-create sequence is not atomic, so the FREE limit is a soft
// cap under concurrent creates from the same tenant.
func (h *NoteHandler) CreateNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("create")

	userID, userOK := c.Get(middleware.UserIDKey).(uint)
	tenantID, tenantOK := c.Get(middleware.TenantIDKey).(uint)
	if !userOK || !tenantOK || userID == 0 || tenantID == 0 {
		log.Warn("Token accepted but identity claims incomplete")
		prometheus.RecordAuthError("invalid_session")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid session token"})
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx := c.Request().Context()

	// Fetch the tenant's current plan before consulting the quota
	tenant, err := h.tenants.ByID(ctx, tenantID)
	if err != nil {
		log.Error("Failed to load tenant for quota check", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An unexpected error occurred."})
	}

	noteCount, err := h.notes.CountByTenant(ctx, tenantID)
	if err != nil {
		log.Error("Failed to count notes", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An unexpected error occurred."})
	}

	if err := h.quota.Allow(tenant.SubscriptionPlan, noteCount); err != nil {
		log.Info("Note creation rejected by quota",
			zap.Uint("tenant_id", tenantID),
			zap.String("plan", tenant.SubscriptionPlan),
			zap.Int64("note_count", noteCount))
		prometheus.RecordQuotaRejection(tenantID)
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Upgrade to Pro to create more notes."})
	}

	// Tenant and author always come from the verified token claims
	note := model.Note{
		Title:    req.Title,
		Content:  req.Content,
		TenantID: tenantID,
		AuthorID: userID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.notes.Create(ctx, &note); err != nil {
		log.Error("Failed to create note", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An unexpected error occurred."})
	}

	go h.updateNoteCount(tenantID, tenant.Slug)

	log.Info("Note created",
		zap.Uint("id", note.ID),
		zap.Uint("tenant_id", note.TenantID),
		zap.Uint("author_id", note.AuthorID))
	return c.JSON(http.StatusCreated, note)
}

// DeleteNote deletes a note of the caller's tenant. A note ID belonging to
// another tenant is indistinguishable from a non-existent one: both are 404.
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNoteOperation("delete")

	tenantID, ok := c.Get(middleware.TenantIDKey).(uint)
	if !ok || tenantID == 0 {
		log.Warn("Missing tenant_id in context")
		prometheus.TenantContextMissingCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid note ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Note not found"})
	}

	var tenantSlug string
	if slug, ok := c.Get(middleware.TenantSlugKey).(string); ok {
		tenantSlug = slug
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.notes.DeleteByIDForTenant(c.Request().Context(), uint(id), tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Note not found or does not belong to tenant",
				zap.Uint64("note_id", id),
				zap.Uint("tenant_id", tenantID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Note not found"})
		}
		log.Error("Failed to delete note",
			zap.Uint64("note_id", id),
			zap.Uint("tenant_id", tenantID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An unexpected error occurred."})
	}

	go h.updateNoteCount(tenantID, tenantSlug)

	log.Info("Note deleted",
		zap.Uint64("note_id", id),
		zap.Uint("tenant_id", tenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted"})
}

// updateNoteCount refreshes the notes-per-tenant gauge
func (h *NoteHandler) updateNoteCount(tenantID uint, tenantSlug string) {
	count, err := h.notes.CountByTenant(context.Background(), tenantID)
	if err != nil {
		return
	}
	prometheus.UpdateNotesPerTenant(tenantID, tenantSlug, int(count))
}
