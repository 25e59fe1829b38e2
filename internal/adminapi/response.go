package adminapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(200, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, errorResponse{Code: code, Message: message, Details: details})
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
