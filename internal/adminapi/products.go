package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/catalogd/internal/catalog"
	"github.com/openshelf/catalogd/internal/webserver"
	"github.com/spf13/cast"
)

const (
	defaultPageLimit = 5
	maxPageLimit     = 100
)

func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/:id", getProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPOST("/products/sync", syncProducts)
}

// parseListQuery validates pagination and filter parameters.
func parseListQuery(c echo.Context) (page, limit int, filters *catalog.ProductFilters, err error) {
	page = 1
	if v := c.QueryParam("page"); v != "" {
		page, err = cast.ToIntE(v)
		if err != nil || page < 1 {
			return 0, 0, nil, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
	}

	limit = defaultPageLimit
	if v := c.QueryParam("limit"); v != "" {
		limit, err = cast.ToIntE(v)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, nil, echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 100")
		}
	}

	filters = &catalog.ProductFilters{
		Name:     strings.TrimSpace(c.QueryParam("name")),
		Category: strings.TrimSpace(c.QueryParam("category")),
	}
	if v := c.QueryParam("minPrice"); v != "" {
		p, err := cast.ToFloat64E(v)
		if err != nil || p < 0 {
			return 0, 0, nil, echo.NewHTTPError(http.StatusBadRequest, "minPrice must be a non-negative number")
		}
		filters.MinPrice = &p
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		p, err := cast.ToFloat64E(v)
		if err != nil || p < 0 {
			return 0, 0, nil, echo.NewHTTPError(http.StatusBadRequest, "maxPrice must be a non-negative number")
		}
		filters.MaxPrice = &p
	}
	if v := c.QueryParam("hasPrice"); v != "" {
		switch v {
		case "true":
			b := true
			filters.HasPrice = &b
		case "false":
			b := false
			filters.HasPrice = &b
		default:
			return 0, 0, nil, echo.NewHTTPError(http.StatusBadRequest, "hasPrice must be true or false")
		}
	}
	return page, limit, filters, nil
}

func listProducts(c echo.Context) error {
	page, limit, filters, err := parseListQuery(c)
	if err != nil {
		he := err.(*echo.HTTPError)
		return fail(c, he.Code, "INVALID_QUERY", cast.ToString(he.Message), nil)
	}

	result, err := appctx.ProductService().FindAll(c.Request().Context(), page, limit, filters)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, result)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	product, err := appctx.ProductService().FindByID(c.Request().Context(), id)
	if catalog.IsNotFound(err) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, product)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	err = appctx.ProductService().DeleteProduct(c.Request().Context(), id)
	if catalog.IsNotFound(err) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func syncProducts(c echo.Context) error {
	result, err := appctx.ProductService().Sync(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SYNC_FAILED", err.Error(), nil)
	}
	return ok(c, result)
}
