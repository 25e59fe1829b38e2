package webserver

import (
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/openshelf/catalogd/internal/app"
	"go.uber.org/zap"
)

var server *WebServer

// WebServer wraps the echo engine with an open and a JWT-guarded API group.
type WebServer struct {
	appctx app.AppContext
	root   *echo.Echo
	pub    *echo.Group
	api    *echo.Group
}

// Init creates the global web server instance.
func Init(appctx app.AppContext) {
	server = NewWebServer(appctx)
}

// SetServer replaces the global server instance (used in tests).
func SetServer(s *WebServer) {
	server = s
}

// Listen starts the global web server, blocking until shutdown.
func Listen() error {
	return server.Start()
}

func NewWebServer(appctx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.HTTPErrorHandler = errorHandler

	cfg := appctx.Config()

	pub := e.Group("/api/v1")
	api := e.Group("/api/v1", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
	}))

	return &WebServer{appctx: appctx, root: e, pub: pub, api: api}
}

func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.appctx.Config().Web.Host, s.appctx.Config().Web.Port)
	zap.S().Infof("Starting web server %s", addr)
	return s.root.Start(addr)
}

// Echo exposes the underlying engine (used in handler tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// PubGET registers an unauthenticated GET route under the API prefix
func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

// PubPOST registers an unauthenticated POST route under the API prefix
func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// ApiGET registers a JWT-guarded GET route
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers a JWT-guarded POST route
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiDELETE registers a JWT-guarded DELETE route
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler renders uncaught errors (including JWT rejections) as the
// standard error envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}

	code := "INTERNAL_ERROR"
	switch status {
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusBadRequest:
		code = "INVALID_REQUEST"
	case http.StatusNotFound:
		code = "NOT_FOUND"
	}

	if err2 := c.JSON(status, errorBody{Code: code, Message: message}); err2 != nil {
		zap.L().Error("failed to write error response", zap.Error(err2))
	}
}
