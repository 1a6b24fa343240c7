package middleware

import (
	"github.com/labstack/echo/v4"
)

// errorBody matches the {error, message} shape used by every API handler
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errorBody{Error: code, Message: message})
}
