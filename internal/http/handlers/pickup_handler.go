package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/cleancity-backend/internal/dto"
	"github.com/ignatzorin/cleancity-backend/internal/service"
)

// PickupHandler предоставляет HTTP слой запросов на вывоз мусора.
type PickupHandler struct {
	pickups *service.PickupService
}

// NewPickupHandler создаёт хэндлер.
func NewPickupHandler(pickups *service.PickupService) *PickupHandler {
	return &PickupHandler{pickups: pickups}
}

// Create обрабатывает POST /api/pickup-requests.
func (h *PickupHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
		return
	}

	var req dto.CreatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.CreatePickupInput{
		RequesterID: userID,
		Type:        req.Type,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		Notes:       req.Notes,
	}

	if req.ScheduledDate != nil {
		scheduled, err := parseDate(*req.ScheduledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректная дата scheduled_date"})
			return
		}
		in.ScheduledDate = &scheduled
	}

	pickup, err := h.pickups.CreatePickup(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, pickup)
}

// List обрабатывает GET /api/pickup-requests.
func (h *PickupHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный limit"})
			return
		}
		limit = parsed
	}

	pickups, err := h.pickups.ListPickups(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pickups": pickups})
}

// ListMy обрабатывает GET /api/pickup-requests/my.
func (h *PickupHandler) ListMy(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
		return
	}

	pickups, err := h.pickups.ListMyPickups(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pickups": pickups})
}

// Get обрабатывает GET /api/pickup-requests/:id.
func (h *PickupHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор запроса"})
		return
	}

	pickup, err := h.pickups.GetPickup(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pickup)
}

// UpdateStatus обрабатывает PATCH /api/pickup-requests/:id/status.
func (h *PickupHandler) UpdateStatus(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор запроса"})
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var agencyID *uuid.UUID
	if req.AgencyID != nil {
		parsed, err := uuid.Parse(*req.AgencyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный agency_id"})
			return
		}
		agencyID = &parsed
	}

	pickup, err := h.pickups.UpdateStatus(c.Request.Context(), id, req.Status, agencyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pickup)
}

// parseDate принимает дату в RFC3339 или в формате YYYY-MM-DD.
func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
