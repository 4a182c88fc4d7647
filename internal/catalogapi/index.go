package catalogapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalog/config"
	"github.com/talkincode/catalog/internal/webserver"
	"github.com/talkincode/catalog/pkg/metrics"
)

var endpoints = []string{
	"GET /productos - Todos los productos",
	"GET /productos/search/MODELO - Buscar por modelo",
	"GET /productos/precio/MIN/MAX - Filtrar por precio",
	"GET /productos/ID - Producto por ID",
	"GET /pagoQR - Imagen QR de pago",
	"GET /health - Estado del servicio",
	"GET /metrics - Métricas del servicio",
}

func registerIndexRoutes(s *webserver.Server) {
	s.GET("/", serviceInfo)
	s.GET("/health", health)
	s.GET("/metrics", latestMetrics)
}

func serviceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "API Productos funcionando",
		"version":   config.Version,
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": endpoints,
	})
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    GetAppContext(c).Uptime().Seconds(),
	})
}

// latestMetrics reports the most recent sample of each monitor gauge.
func latestMetrics(c echo.Context) error {
	return ok(c, metrics.Snapshot())
}
