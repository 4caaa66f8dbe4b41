package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
	apperrors "github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/errors"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(apperrors.Middleware())

	loginLimiter := newRateLimiter(s.config.LoginRatePerSecond, s.config.LoginRateBurst)

	s.registerSessionRoutes(loginLimiter)
	s.registerPageRoutes()
	s.registerHealthRoutes()

	s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))
}

func (s *Server) registerSessionRoutes(loginLimiter echo.MiddlewareFunc) {
	s.echo.POST("/api/auth/login", s.handleLogin, loginLimiter)
	s.echo.POST("/api/auth/register", s.handleRegister, loginLimiter)
	s.echo.POST("/api/auth/logout", s.handleLogout)
	s.echo.GET("/api/session", s.handleSession)
	s.echo.GET("/api/session/events", s.handleSessionEvents)
	s.echo.PATCH("/api/profile", s.handleUpdateProfile)
}

// registerPageRoutes mirrors the SPA route table: the streamer-only views sit
// behind the role guard, everything else serves the shell unconditionally.
func (s *Server) registerPageRoutes() {
	s.echo.GET("/", s.serveApp)
	for _, path := range []string{"/login", "/register", "/tienda", "/perfil", "/feed", "/watch/:room", "/live/:channel"} {
		s.echo.GET(path, s.serveApp)
	}

	streamerOnly := s.RequireRole(domain.RoleStreamer)
	s.echo.GET("/dashboard", s.serveApp, streamerOnly)
	s.echo.GET("/stream-setup", s.serveApp, streamerOnly)
	s.echo.GET("/gifts", s.serveApp, streamerOnly)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
