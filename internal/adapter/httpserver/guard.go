package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/metrics"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
)

// RequireRole gates a page behind the active session's role. Anonymous
// visitors are sent to the login page, signed-in visitors with the wrong
// role are sent home. The guarded handler never runs in either case.
func (s *Server) RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := s.store.Identity()
			if !ok {
				s.metrics.GuardDecisions.WithLabelValues(metrics.GuardAnonymous).Inc()
				return c.Redirect(http.StatusFound, s.config.LoginPath)
			}
			if ident.Role != role {
				s.metrics.GuardDecisions.WithLabelValues(metrics.GuardRoleMismatch).Inc()
				return c.Redirect(http.StatusFound, s.config.HomePath)
			}
			s.metrics.GuardDecisions.WithLabelValues(metrics.GuardAllowed).Inc()
			return next(c)
		}
	}
}
