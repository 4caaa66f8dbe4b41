// Package httpserver serves the UI shell and the session API, and enforces
// role gating on protected routes.
package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/metrics"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/config"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/session"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/web"
)

// sessionStore is the consumer-side view of the session store: the current
// pair plus the four operations and the lifecycle event feed.
type sessionStore interface {
	Identity() (domain.Identity, bool)
	Credential() (domain.Credential, bool)
	Login(ctx context.Context, email, password string, opts *session.LoginOptions) (domain.Identity, error)
	Register(ctx context.Context, email, password string, role domain.Role, name string) (domain.Identity, error)
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, updates session.Payload) (domain.Identity, bool, error)
	Subscribe() (<-chan domain.SessionEvent, func())
}

type Server struct {
	echo    *echo.Echo
	config  *config.Config
	store   sessionStore
	metrics *metrics.SessionMetrics

	metricsHandler http.Handler
	templates      *template.Template
	healthChecks   []HealthCheck
	startTime      time.Time
}

func NewServer(cfg *config.Config, store sessionStore, sessionMetrics *metrics.SessionMetrics, metricsHandler http.Handler, healthChecks []HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		store:          store,
		metrics:        sessionMetrics,
		metricsHandler: metricsHandler,
		templates:      templates,
		healthChecks:   healthChecks,
		startTime:      time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
