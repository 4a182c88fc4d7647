package catalogapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalog/internal/app"
	"github.com/talkincode/catalog/internal/catalog"
	"github.com/talkincode/catalog/internal/webserver"
	"go.uber.org/zap"
)

// Register wires every catalog route into s.
func Register(s *webserver.Server) {
	registerIndexRoutes(s)
	registerProductRoutes(s)
	registerPaymentRoutes(s)
}

// GetAppContext returns the application context injected by the web server.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func GetCatalog(c echo.Context) *catalog.Service {
	return GetAppContext(c).Catalog()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	body := map[string]interface{}{
		"success": false,
		"error":   message,
		"code":    code,
	}
	if details != nil {
		body["details"] = details
	}
	return c.JSON(status, body)
}

func databaseError(c echo.Context, op string, err error) error {
	zap.L().Error("catalog query failed",
		zap.String("namespace", "api"),
		zap.String("op", op),
		zap.Error(err))
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error(), nil)
}
