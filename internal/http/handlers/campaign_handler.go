package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cleancity-backend/internal/dto"
	"github.com/ignatzorin/cleancity-backend/internal/service"
)

// CampaignHandler предоставляет HTTP слой общественных кампаний.
type CampaignHandler struct {
	campaigns *service.CampaignService
}

// NewCampaignHandler создаёт хэндлер.
func NewCampaignHandler(campaigns *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

// List обрабатывает GET /api/campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.campaigns.ListActive(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// Get обрабатывает GET /api/campaigns/:id.
func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор кампании"})
		return
	}

	campaign, err := h.campaigns.GetCampaign(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// Create обрабатывает POST /api/campaigns. Только admin.
func (h *CampaignHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректная дата start_date"})
		return
	}

	in := service.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		CreatedBy:   userID,
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректная дата end_date"})
			return
		}
		in.EndDate = &endDate
	}

	campaign, err := h.campaigns.CreateCampaign(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// Join обрабатывает POST /api/campaigns/:id/join.
func (h *CampaignHandler) Join(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор кампании"})
		return
	}

	campaign, err := h.campaigns.Join(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}
