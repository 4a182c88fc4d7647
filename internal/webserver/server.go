package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	elog "github.com/labstack/gommon/log"
	"github.com/talkincode/catalog/config"
	"go.uber.org/zap"
)

// AppContextKey is the echo context key holding the application context.
const AppContextKey = "appctx"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	root   *echo.Echo
	config *config.AppConfig
}

// NewServer builds the echo instance. appCtx is made available to every
// handler under AppContextKey.
func NewServer(cfg *config.AppConfig, appCtx interface{}) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsoniterSerializer{}
	e.HTTPErrorHandler = errorHandler
	if cfg.System.Debug {
		e.Debug = true
		e.Logger.SetLevel(elog.DEBUG)
	} else {
		e.Logger.SetLevel(elog.OFF)
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll:   true,
		DisablePrintStack: !cfg.System.Debug,
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORS())
	e.Use(accessLog())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	return &Server{root: e, config: cfg}
}

// Echo exposes the underlying router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.root
}

func (s *Server) GET(path string, h echo.HandlerFunc) {
	s.root.GET(path, h)
}

func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Web.Host, s.config.Web.Port)
}

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	zap.L().Info("web server listening", zap.String("namespace", "web"), zap.String("addr", s.Addr()))
	if err := s.root.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

func accessLog() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("namespace", "web"),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID))
			return nil
		},
	})
}

// errorHandler turns routing misses into the catalog's JSON 404 and keeps
// internals out of every other error body.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	status := http.StatusInternalServerError
	if errors.As(err, &he) {
		status = he.Code
	}

	var body map[string]interface{}
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		status = http.StatusNotFound
		body = map[string]interface{}{
			"success": false,
			"error":   "Endpoint no encontrado",
			"message": fmt.Sprintf("La ruta %s no existe", c.Request().RequestURI),
		}
	case http.StatusInternalServerError:
		zap.L().Error("unhandled request error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		body = map[string]interface{}{
			"success": false,
			"error":   "Error interno del servidor",
		}
	default:
		body = map[string]interface{}{
			"success": false,
			"error":   http.StatusText(status),
		}
		if he != nil {
			if msg, ok := he.Message.(string); ok {
				body["error"] = msg
			}
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		zap.L().Error("failed to write error response", zap.Error(err))
	}
}

type jsoniterSerializer struct{}

func (jsoniterSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsoniterSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

// Gracefully waits for ctx to end, then shuts the server down within timeout.
func (s *Server) Gracefully(ctx context.Context, timeout time.Duration) error {
	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	zap.L().Info("web server shutting down", zap.String("namespace", "web"))
	return s.Shutdown(sctx)
}
