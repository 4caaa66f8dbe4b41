package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
	apperrors "github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/errors"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// ProfileID optionally overrides the fallback profile id for this login.
	ProfileID int `json:"profileId"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// sessionResponse is what the UI polls on boot and receives after mutations.
type sessionResponse struct {
	User   *domain.Identity   `json:"user"`
	Tokens *domain.Credential `json:"tokens"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	var opts *session.LoginOptions
	if req.ProfileID != 0 {
		opts = &session.LoginOptions{ProfileID: req.ProfileID}
	}

	ident, err := s.store.Login(c.Request().Context(), req.Email, req.Password, opts)
	if err != nil {
		s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return loginError(err)
	}
	s.metrics.LoginsTotal.WithLabelValues("success").Inc()

	creds, _ := s.store.Credential()
	if err := c.JSON(http.StatusOK, sessionResponse{User: &ident, Tokens: &creds}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Role != "" && !domain.IsValidRole(domain.Role(req.Role)) {
		return apperrors.ValidationError("unknown role").WithField("role", req.Role)
	}

	ident, err := s.store.Register(c.Request().Context(), req.Email, req.Password, domain.Role(req.Role), req.Name)
	if err != nil {
		s.metrics.RegistersTotal.WithLabelValues("failure").Inc()
		return loginError(err)
	}
	s.metrics.RegistersTotal.WithLabelValues("success").Inc()

	creds, _ := s.store.Credential()
	if err := c.JSON(http.StatusCreated, sessionResponse{User: &ident, Tokens: &creds}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogout(c echo.Context) error {
	s.store.Logout(c.Request().Context())
	s.metrics.LogoutsTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSession(c echo.Context) error {
	resp := sessionResponse{}
	if ident, ok := s.store.Identity(); ok {
		resp.User = &ident
	}
	if creds, ok := s.store.Credential(); ok {
		resp.Tokens = &creds
	}

	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var updates session.Payload
	if err := c.Bind(&updates); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	ident, applied, err := s.store.UpdateProfile(c.Request().Context(), updates)
	if err != nil {
		return apperrors.InternalError("failed to persist profile update", err)
	}
	if !applied {
		// Merging into an absent session stays absent.
		return c.NoContent(http.StatusNoContent)
	}

	if err := c.JSON(http.StatusOK, sessionResponse{User: &ident}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// loginError keeps collaborator errors intact (they already carry the right
// type and status) and translates the store's own validation sentinel.
func loginError(err error) error {
	if errors.Is(err, domain.ErrEmptyCredentials) {
		return apperrors.ValidationError("email and password are required")
	}
	return err
}
