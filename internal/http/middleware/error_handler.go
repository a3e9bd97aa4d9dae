package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cleancity-backend/internal/logger"
	"github.com/ignatzorin/cleancity-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cleancity-backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно.
// AppError переводится в статус по коду; внутренние ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"
		code := apperror.ErrCodeInternal

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		var appErr *apperror.AppError
		switch {
		case errors.As(err.Err, &appErr):
			statusCode = appErr.HTTPStatus
			message = appErr.Message
			code = appErr.Code
		case errors.Is(err.Err, repository.ErrReportNotFound):
			statusCode = http.StatusNotFound
			message = "заявка не найдена"
			code = apperror.ErrCodeNotFound
		case errors.Is(err.Err, repository.ErrPickupNotFound):
			statusCode = http.StatusNotFound
			message = "запрос на вывоз не найден"
			code = apperror.ErrCodeNotFound
		case errors.Is(err.Err, repository.ErrAgencyNotFound):
			statusCode = http.StatusNotFound
			message = "агентство не найдено"
			code = apperror.ErrCodeNotFound
		case errors.Is(err.Err, repository.ErrUserNotFound):
			statusCode = http.StatusNotFound
			message = "пользователь не найден"
			code = apperror.ErrCodeNotFound
		case errors.Is(err.Err, repository.ErrCampaignNotFound):
			statusCode = http.StatusNotFound
			message = "кампания не найдена"
			code = apperror.ErrCodeNotFound
		default:
			if errStr := err.Error(); errStr != "" && !containsInternalKeywords(errStr) {
				message = errStr
				statusCode = http.StatusBadRequest
				code = apperror.ErrCodeBadRequest
			}
		}

		c.JSON(statusCode, gin.H{"error": message, "code": code})
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
		"repository:",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
