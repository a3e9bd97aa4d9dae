package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/cleancity-backend/internal/dto"
	"github.com/ignatzorin/cleancity-backend/internal/service"
	"github.com/ignatzorin/cleancity-backend/internal/storage"
)

// Разрешённые типы изображений для фотографий заявок
var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

const maxImagesPerReport = 5

// ReportHandler предоставляет HTTP слой жизненного цикла заявок.
type ReportHandler struct {
	reports *service.ReportService
	storage *storage.PhotoStorage
}

// NewReportHandler создаёт хэндлер.
func NewReportHandler(reports *service.ReportService, storage *storage.PhotoStorage) *ReportHandler {
	return &ReportHandler{reports: reports, storage: storage}
}

// Create обрабатывает POST /api/reports (multipart/form-data).
// Текстовые поля приходят в форме, фотографии — в поле images (до 5 штук).
func (h *ReportHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ожидается multipart/form-data"})
		return
	}

	in := service.CreateReportInput{
		ReporterID:  userID,
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Category:    formValue(form, "category"),
		Priority:    formValue(form, "priority"),
	}

	if v := formValue(form, "address"); v != "" {
		in.Address = &v
	}
	if in.Latitude, err = formFloat(form, "latitude"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректная широта"})
		return
	}
	if in.Longitude, err = formFloat(form, "longitude"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректная долгота"})
		return
	}

	files := form.File["images"]
	if len(files) > maxImagesPerReport {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("можно приложить не более %d фотографий", maxImagesPerReport),
		})
		return
	}

	saved := make([]string, 0, len(files))
	for _, file := range files {
		relativePath, err := h.savePhoto(c, userID, file)
		if err != nil {
			h.cleanupPhotos(c, saved)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		saved = append(saved, relativePath)
	}

	for _, rel := range saved {
		in.ImageURLs = append(in.ImageURLs, path.Join("/uploads", rel))
	}

	report, err := h.reports.CreateReport(c.Request.Context(), in)
	if err != nil {
		h.cleanupPhotos(c, saved)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// List обрабатывает GET /api/reports.
func (h *ReportHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный limit"})
			return
		}
		limit = parsed
	}

	reports, err := h.reports.ListReports(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ListMy обрабатывает GET /api/reports/my.
func (h *ReportHandler) ListMy(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
		return
	}

	reports, err := h.reports.ListMyReports(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Get обрабатывает GET /api/reports/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор заявки"})
		return
	}

	report, err := h.reports.GetReport(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateStatus обрабатывает PATCH /api/reports/:id/status.
// Доступно ролям agency и admin; переход в assigned требует agency_id.
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор заявки"})
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

	report, err := h.reports.UpdateStatus(c.Request.Context(), id, req.Status, agencyID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Stats обрабатывает GET /api/analytics/reports.
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// savePhoto проверяет магические байты файла и сохраняет его в хранилище.
func (h *ReportHandler) savePhoto(c *gin.Context, userID uuid.UUID, file *multipart.FileHeader) (string, error) {
	if file.Size == 0 {
		return "", fmt.Errorf("файл %s пустой", file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("не удалось открыть файл %s", file.Filename)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("не удалось прочитать файл %s", file.Filename)
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown || !allowedImageMimeTypes[kind.MIME.Value] {
		return "", fmt.Errorf("файл %s не является изображением, разрешены: %s",
			file.Filename, strings.Join(allowedImageTypeList(), ", "))
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("не удалось сбросить позицию файла %s", file.Filename)
	}

	relativePath, _, err := h.storage.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(relativePath), nil
}

// cleanupPhotos удаляет уже сохранённые файлы при ошибке запроса.
func (h *ReportHandler) cleanupPhotos(c *gin.Context, relativePaths []string) {
	for _, rel := range relativePaths {
		_ = h.storage.Delete(c.Request.Context(), rel)
	}
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func formFloat(form *multipart.Form, key string) (*float64, error) {
	raw := formValue(form, key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func allowedImageTypeList() []string {
	types := make([]string, 0, len(allowedImageMimeTypes))
	for t := range allowedImageMimeTypes {
		types = append(types, t)
	}
	return types
}
