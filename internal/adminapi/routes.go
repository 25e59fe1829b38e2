package adminapi

import (
	"github.com/openshelf/catalogd/internal/app"
)

var appctx app.AppContext

// Init stores the application context and registers all API routes.
// Call after webserver.Init.
func Init(a app.AppContext) {
	appctx = a
	registerAuthRoutes()
	registerProductRoutes()
	registerReportRoutes()
}
