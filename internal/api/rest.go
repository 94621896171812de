package api

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"codeberg.org/mutker/atkctl/internal/engine"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	urlParamName    = "name"
	indentationChar = "  "

	EndpointPathAlive = "/alive/"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// Server is the REST surface of the daemon.
type Server struct {
	echo    *echo.Echo
	engine  *engine.Engine
	metrics http.Handler
}

// New wires the routes. metrics may be nil, which disables /metrics/.
func New(e *engine.Engine, metrics http.Handler) *Server {
	s := &Server{
		echo:    createRestService(),
		engine:  e,
		metrics: metrics,
	}

	s.echo.GET(EndpointPathAlive, isAlive)
	s.registerPlanEndpoints()
	s.registerCurveEndpoints()
	s.registerHistoryEndpoints()
	if metrics != nil {
		s.echo.GET("/metrics/", echo.WrapHandler(metrics))
	}

	return s
}

func createRestService() *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())
	echoRest.Use(requestLogger())

	return echoRest
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("API request")
			return nil
		},
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on host:port until Shutdown is called.
func (s *Server) Start(host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	logger.Info().Str("address", addr).Msg("Starting API server")

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.New().Wrap(errors.ErrUnavailable, err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, name string) error {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with name '" + name + "' found",
	}, indentationChar)
}

func returnBadRequest(c echo.Context, e error) error {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad request",
		Message: e.Error(),
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) error {
	name := "Unknown Error"
	if code, ok := errors.CodeOf(e); ok {
		name = string(code)
	}

	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    name,
		Message: e.Error(),
	}, indentationChar)
}
