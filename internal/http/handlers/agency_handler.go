package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/cleancity-backend/internal/dto"
	"github.com/ignatzorin/cleancity-backend/internal/service"
)

// AgencyHandler предоставляет HTTP слой реестра агентств.
type AgencyHandler struct {
	agencies *service.AgencyService
	reports  *service.ReportService
	pickups  *service.PickupService
}

// NewAgencyHandler создаёт хэндлер.
func NewAgencyHandler(agencies *service.AgencyService, reports *service.ReportService, pickups *service.PickupService) *AgencyHandler {
	return &AgencyHandler{agencies: agencies, reports: reports, pickups: pickups}
}

// List обрабатывает GET /api/agencies. Жителям видны только подтверждённые.
func (h *AgencyHandler) List(c *gin.Context) {
	agencies, err := h.agencies.ListApproved(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agencies": agencies})
}

// Get обрабатывает GET /api/agencies/:id.
func (h *AgencyHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор агентства"})
		return
	}

	agency, err := h.agencies.GetAgency(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, agency)
}

// Create обрабатывает POST /api/agencies. Только admin.
func (h *AgencyHandler) Create(c *gin.Context) {
	var req dto.CreateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agency, err := h.agencies.CreateAgency(c.Request.Context(), service.CreateAgencyInput{
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		ServiceAreas: req.ServiceAreas,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, agency)
}

// SetApproval обрабатывает PATCH /api/agencies/:id/approval. Только admin.
func (h *AgencyHandler) SetApproval(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор агентства"})
		return
	}

	var req dto.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agency, err := h.agencies.SetApproval(c.Request.Context(), id, req.Approved)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, agency)
}

// AddMember обрабатывает POST /api/agencies/:id/members. Только admin.
func (h *AgencyHandler) AddMember(c *gin.Context) {
	agencyID, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор агентства"})
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный user_id"})
		return
	}

	member, err := h.agencies.AddMember(c.Request.Context(), agencyID, userID, req.IsAdmin)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// MyMembership обрабатывает GET /api/agencies/my: членство текущего пользователя.
func (h *AgencyHandler) MyMembership(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
		return
	}

	member, err := h.agencies.MemberAgency(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// Reports обрабатывает GET /api/agencies/:id/reports.
func (h *AgencyHandler) Reports(c *gin.Context) {
	agencyID, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор агентства"})
		return
	}

	reports, err := h.reports.ListAgencyReports(c.Request.Context(), agencyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Pickups обрабатывает GET /api/agencies/:id/pickups.
func (h *AgencyHandler) Pickups(c *gin.Context) {
	agencyID, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор агентства"})
		return
	}

	pickups, err := h.pickups.ListAgencyPickups(c.Request.Context(), agencyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pickups": pickups})
}

// Stats обрабатывает GET /api/agencies/:id/stats.
func (h *AgencyHandler) Stats(c *gin.Context) {
	agencyID, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор агентства"})
		return
	}

	stats, err := h.reports.AgencyStats(c.Request.Context(), agencyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
