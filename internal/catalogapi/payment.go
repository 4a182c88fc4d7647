package catalogapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalog/internal/catalog"
	"github.com/talkincode/catalog/internal/webserver"
)

func registerPaymentRoutes(s *webserver.Server) {
	s.GET("/pagoQR", getPaymentQR)
}

func getPaymentQR(c echo.Context) error {
	img, err := GetCatalog(c).PaymentQR(c.Request().Context())
	if errors.Is(err, catalog.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Imagen QR no encontrada", nil)
	}
	if err != nil {
		return databaseError(c, "pagoQR", err)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/jpeg", img)
}
