package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/catalogd/internal/webserver"
)

func registerReportRoutes() {
	webserver.ApiGET("/reports/deleted-products", deletedProductsReport)
	webserver.ApiGET("/reports/price-analysis", priceAnalysisReport)
	webserver.ApiGET("/reports/date-range", dateRangeReport)
	webserver.ApiGET("/reports/custom", customReport)
}

func deletedProductsReport(c echo.Context) error {
	report, err := appctx.ReportsService().DeletedProductsReport(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build report", err.Error())
	}
	return ok(c, report)
}

func priceAnalysisReport(c echo.Context) error {
	report, err := appctx.ReportsService().PriceAnalysisReport(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build report", err.Error())
	}
	return ok(c, report)
}

func dateRangeReport(c echo.Context) error {
	start, err := time.Parse("2006-01-02", c.QueryParam("startDate"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", "startDate must be formatted YYYY-MM-DD", nil)
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("endDate"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", "endDate must be formatted YYYY-MM-DD", nil)
	}
	if end.Before(start) {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", "endDate must not precede startDate", nil)
	}

	report, err := appctx.ReportsService().DateRangeReport(c.Request().Context(), start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build report", err.Error())
	}
	return ok(c, report)
}

func customReport(c echo.Context) error {
	report, err := appctx.ReportsService().CustomReport(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build report", err.Error())
	}
	return ok(c, report)
}
