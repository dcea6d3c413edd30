package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ttms-analytics/logging"
	"ttms-analytics/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// sesi имеет вид "2024/2025"
var sesiPattern = regexp.MustCompile(`^\d{4}/\d{4}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sesi", func(fl validator.FieldLevel) bool {
			return sesiPattern.MatchString(fl.Field().String())
		})
	}
}

// readPeriod читает sesi и semester из query
func readPeriod(c *gin.Context) (models.AcademicPeriod, bool) {
	var period models.AcademicPeriod
	if err := c.ShouldBindQuery(&period); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrMissingParameter.Error(),
			Message: "sesi (YYYY/YYYY) and semester (1-3) are required: " + err.Error(),
		})
		return period, false
	}
	return period, true
}

// readCredentials требует хотя бы одну из сессий
func readCredentials(c *gin.Context) (models.Credentials, bool) {
	var creds models.Credentials
	_ = c.ShouldBindQuery(&creds)
	if creds.Empty() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrMissingCredentials.Error(),
			Message: "loginSessionId or adminSessionId query parameter is required",
		})
		return creds, false
	}
	return creds, true
}

// readLimit: пусто или мусор - 0, сервис подставит значение по умолчанию
func readLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// readReports принимает ?reports=a&reports=b и ?reports=a,b
func readReports(c *gin.Context) []string {
	names := make([]string, 0)
	for _, value := range c.QueryArray("reports") {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// readTime - параметр at в RFC3339, по умолчанию сейчас
func readTime(c *gin.Context) (time.Time, bool) {
	value := c.Query("at")
	if value == "" {
		return time.Now(), true
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid at parameter",
			Message: "expected RFC3339 timestamp",
		})
		return time.Time{}, false
	}
	return at, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrMissingCredentials),
		errors.Is(err, models.ErrMissingParameter),
		errors.Is(err, models.ErrInvalidDay),
		errors.Is(err, models.ErrUnknownReport),
		errors.Is(err, models.ErrExportUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUpstreamAuth):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrExportNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUpstreamFetch),
		errors.Is(err, models.ErrUpstreamPagination):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrExportNotAvailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError переводит доменную ошибку в HTTP статус
func respondError(c *gin.Context, action string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("action", action).Msg("Request failed")
	}
	_ = c.Error(err)
	c.JSON(status, models.ErrorResponse{
		Error:   fmt.Sprintf("failed to %s", action),
		Message: err.Error(),
	})
}

// respondList - список с количеством элементов
func respondList[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"count": len(items),
	})
}
