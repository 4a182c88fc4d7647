package catalogapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalog/internal/catalog"
	"github.com/talkincode/catalog/internal/domain"
	"github.com/talkincode/catalog/internal/webserver"
)

type productListResponse struct {
	Success    bool                `json:"success"`
	Search     *string             `json:"search,omitempty"`
	PriceRange *catalog.PriceRange `json:"priceRange,omitempty"`
	Count      int                 `json:"count"`
	Data       []domain.Product    `json:"data"`
}

func listResponse(list *catalog.ProductList) *productListResponse {
	return &productListResponse{Success: true, Count: list.Count, Data: list.Data}
}

// registerProductRoutes registers the read-only product endpoints
func registerProductRoutes(s *webserver.Server) {
	s.GET("/productos", listProducts)
	s.GET("/productos/search/:modelo", searchProducts)
	s.GET("/productos/precio/:min/:max", filterProductsByPrice)
	s.GET("/productos/:id", getProduct)
}

func listProducts(c echo.Context) error {
	list, err := GetCatalog(c).ListAll(c.Request().Context())
	if err != nil {
		return databaseError(c, "list", err)
	}
	return c.JSON(http.StatusOK, listResponse(list))
}

func searchProducts(c echo.Context) error {
	modelo := pathParam(c, "modelo")
	list, err := GetCatalog(c).Search(c.Request().Context(), modelo)
	if err != nil {
		return databaseError(c, "search", err)
	}
	resp := listResponse(list)
	resp.Search = &modelo
	return c.JSON(http.StatusOK, resp)
}

func filterProductsByPrice(c echo.Context) error {
	r := catalog.ParsePriceRange(c.Param("min"), c.Param("max"))
	list, err := GetCatalog(c).FilterByPrice(c.Request().Context(), r)
	if err != nil {
		return databaseError(c, "precio", err)
	}
	resp := listResponse(list)
	resp.PriceRange = &r
	return c.JSON(http.StatusOK, resp)
}

func getProduct(c echo.Context) error {
	p, err := GetCatalog(c).ProductByID(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, catalog.ErrInvalidID):
		return fail(c, http.StatusBadRequest, "INVALID_ID", "ID debe ser un número", nil)
	case errors.Is(err, catalog.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Producto no encontrado", nil)
	case err != nil:
		return databaseError(c, "get", err)
	}
	return ok(c, p)
}

// pathParam returns the decoded value of a path parameter. Echo hands out the
// escaped form when the request path carried encoded separators.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
