package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/catalogd/internal/auth"
	"github.com/openshelf/catalogd/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	svc := appctx.AuthService()
	opr, err := svc.Validate(c.Request().Context(), payload.Username, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to verify credentials", err.Error())
	}

	token, err := svc.IssueToken(opr)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, loginResponse{AccessToken: token})
}
