package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kpcrm/backend/internal/dto"
	"github.com/kpcrm/backend/internal/http/middleware"
)

// Пределы постраничной выборки списков.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var (
	// ErrUserNotFound возвращается, когда в контексте запроса нет оператора.
	ErrUserNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID возвращается при неразборчивом идентификаторе.
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentUserID достаёт ID авторизованного оператора из контекста запроса.
// Значение кладёт туда AuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}

	return userID, nil
}

// ParseUUIDParam разбирает path-параметр как UUID.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return parsed, nil
}

// BindAndValidate привязывает JSON тело запроса к структуре req.
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("ошибка валидации запроса: %w", err)
	}
	return nil
}

// RespondBadRequest отправляет 400 с текстом ошибки.
func RespondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message, "некорректный запрос")
}

// RespondNotFound отправляет 404 с текстом ошибки.
func RespondNotFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, message, "ресурс не найден")
}

// RespondInternalError отправляет 500 с текстом ошибки.
func RespondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, message, "внутренняя ошибка сервера")
}

func respondError(c *gin.Context, status int, message, fallback string) {
	if message == "" {
		message = fallback
	}
	c.JSON(status, dto.ErrorResponse{Error: message})
}

// Contains сообщает, содержит ли s подстроку substr. Хендлеры классифицируют
// через него тексты ошибок сервисного слоя.
func Contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// GetPagination читает limit и offset из query-параметров, удерживая
// значения в допустимых пределах.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = intQuery(c, "limit", DefaultPageLimit)
	offset = intQuery(c, "offset", 0)

	switch {
	case limit < 1:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
