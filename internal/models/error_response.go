package models

import (
	"errors"
	"net/http"
)

// ErrorResponse - классифицированная ошибка, несущая HTTP-статус для клиента.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
	Err        error  `json:"-"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
}

// WrapErrorResponse создает ошибку с кодом и сообщением, сохраняя исходную причину.
func WrapErrorResponse(statusCode int, message string, err error) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// NotFound возвращает ошибку 404.
func NotFound(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, message)
}

// Internal возвращает ошибку 500, скрывая причину от клиента.
func Internal(err error) *ErrorResponse {
	return WrapErrorResponse(http.StatusInternalServerError, "internal server error", err)
}

func (e *ErrorResponse) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ErrorResponse) Unwrap() error {
	return e.Err
}

// AsErrorResponse извлекает *ErrorResponse из цепочки ошибок.
func AsErrorResponse(err error) (*ErrorResponse, bool) {
	var errorResponse *ErrorResponse
	if errors.As(err, &errorResponse) {
		return errorResponse, true
	}
	return nil, false
}
