package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/logger"
)

// ErrorResponse - единый конверт ответа об ошибке: {success:false, code, message, errors}
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// SuccessResponse - конверт успешного ответа: {success:true, message, data}
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

var defaultHandler = &GinErrorHandler{}

// SetDebug включает вывод деталей внутренних ошибок (только для development)
func SetDebug(debug bool) {
	defaultHandler.Debug = debug
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.CtxError(c.Request.Context(), "Server error",
			"code", appErr.Code,
			"domain", appErr.Domain,
			"error", appErr.Unwrap(),
			"path", c.FullPath(),
		)
	}

	resp := ErrorResponse{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
		Errors:  appErr.Details,
	}
	if h.Debug && appErr.HTTPCode >= http.StatusInternalServerError && appErr.Err != nil {
		resp.Errors = gin.H{"cause": appErr.Err.Error()}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, resp)
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Respond отправляет успешный конверт
func Respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}
