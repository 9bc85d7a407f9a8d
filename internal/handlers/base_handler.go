package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/validator"
	"jobportal_backend/pkg/apperrors"
	"jobportal_backend/pkg/contextkeys"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
	identity  services.IdentityService
}

func NewBaseHandler(v *validator.Validator, identity services.IdentityService) *BaseHandler {
	return &BaseHandler{
		validator: v,
		identity:  identity,
	}
}

// ============================================================================
// 2. DB из контекста
// ============================================================================

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context.
// Вызывается в каждом хендлере, который обращается к сервисам.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		// приложение неверно сконфигурировано
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// ============================================================================
// 3. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters"))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidate_Form - для multipart/form-data
func (h *BaseHandler) BindAndValidate_Form(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind form", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid form data"))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	err := h.validator.Validate(obj)
	if err == nil {
		return true
	}

	if vErr, ok := err.(*validator.ValidationError); ok {
		logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
	} else {
		logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
	return false
}

// FormFile возвращает файл из поля field. Отсутствие файла не ошибка.
func (h *BaseHandler) FormFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	file, err := c.FormFile(field)
	if err == nil {
		return file, true
	}
	if err == http.ErrMissingFile {
		return nil, true
	}
	logger.CtxWithError(c.Request.Context(), "Failed to read form file", err, "field", field)
	apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form"))
	return nil, false
}

// RequireFormFile - то же, но поле обязательно
func (h *BaseHandler) RequireFormFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	file, ok := h.FormFile(c, field)
	if !ok {
		return nil, false
	}
	if file == nil {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{field: "This field is required"}))
		return nil, false
	}
	return file, true
}

// ============================================================================
// 4. Ошибки сервисов
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if appErr.HTTPCode < http.StatusInternalServerError {
			logger.CtxWarn(ctx, "Service error",
				"code", appErr.Code,
				"error", appErr.Message,
				"details", appErr.Details,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
		return
	}
	logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// ============================================================================
// 5. Идентификация
// ============================================================================

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	return userID, true
}

// CompanyIdentity разрешает текущего пользователя в профиль компании
func (h *BaseHandler) CompanyIdentity(c *gin.Context) (*models.Identity, bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return nil, false
	}
	identity, err := h.identity.RequireCompany(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	return identity, true
}

// StudentIdentity разрешает текущего пользователя в профиль студента
func (h *BaseHandler) StudentIdentity(c *gin.Context) (*models.Identity, bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return nil, false
	}
	identity, err := h.identity.RequireStudent(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	return identity, true
}

// ============================================================================
// 6. Ответы
// ============================================================================

func (h *BaseHandler) OK(c *gin.Context, message string, data interface{}) {
	apperrors.Respond(c, http.StatusOK, message, data)
}

func (h *BaseHandler) Created(c *gin.Context, message string, data interface{}) {
	apperrors.Respond(c, http.StatusCreated, message, data)
}
