package httpserver

import (
	"context"
	"errors"
	"html/template"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/adapter/metrics"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/config"
	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/session"
)

// --- Mock implementations ---

type mockSessionStore struct {
	identityFn      func() (domain.Identity, bool)
	credentialFn    func() (domain.Credential, bool)
	loginFn         func(ctx context.Context, email, password string, opts *session.LoginOptions) (domain.Identity, error)
	registerFn      func(ctx context.Context, email, password string, role domain.Role, name string) (domain.Identity, error)
	logoutFn        func(ctx context.Context)
	updateProfileFn func(ctx context.Context, updates session.Payload) (domain.Identity, bool, error)
	subscribeFn     func() (<-chan domain.SessionEvent, func())
}

func (m *mockSessionStore) Identity() (domain.Identity, bool) {
	if m.identityFn != nil {
		return m.identityFn()
	}
	return domain.Identity{}, false
}

func (m *mockSessionStore) Credential() (domain.Credential, bool) {
	if m.credentialFn != nil {
		return m.credentialFn()
	}
	return domain.Credential{}, false
}

func (m *mockSessionStore) Login(ctx context.Context, email, password string, opts *session.LoginOptions) (domain.Identity, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password, opts)
	}
	return domain.Identity{}, errors.New("not implemented")
}

func (m *mockSessionStore) Register(ctx context.Context, email, password string, role domain.Role, name string) (domain.Identity, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, email, password, role, name)
	}
	return domain.Identity{}, errors.New("not implemented")
}

func (m *mockSessionStore) Logout(ctx context.Context) {
	if m.logoutFn != nil {
		m.logoutFn(ctx)
	}
}

func (m *mockSessionStore) UpdateProfile(ctx context.Context, updates session.Payload) (domain.Identity, bool, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, updates)
	}
	return domain.Identity{}, false, nil
}

func (m *mockSessionStore) Subscribe() (<-chan domain.SessionEvent, func()) {
	if m.subscribeFn != nil {
		return m.subscribeFn()
	}
	ch := make(chan domain.SessionEvent)
	return ch, func() { close(ch) }
}

// --- Test helpers ---

func newTestServer(t *testing.T, store sessionStore, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl := template.Must(template.New("index.html").Parse(`Shell {{.LoggedIn}}`))

	e := echo.New()
	reg := prometheus.NewRegistry()

	srv := &Server{
		echo: e,
		config: &config.Config{
			LoginPath:          "/login",
			HomePath:           "/",
			LoginRatePerSecond: 100,
			LoginRateBurst:     100,
		},
		store:          store,
		metrics:        metrics.NewSessionMetrics(reg),
		metricsHandler: metrics.Handler(reg),
		templates:      tmpl,
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func streamerIdentity() domain.Identity {
	return domain.Identity{
		ID:          1,
		Email:       "ana@example.com",
		Role:        domain.RoleStreamer,
		DisplayName: "Ana",
		ProfileID:   900,
		ChannelSlug: "ana-live",
		AvatarKey:   domain.DefaultAvatarKey,
	}
}

func viewerIdentity() domain.Identity {
	return domain.Identity{
		ID:          2,
		Email:       "leo@example.com",
		Role:        domain.RoleViewer,
		DisplayName: "Leo",
		ProfileID:   800,
		AvatarKey:   domain.DefaultAvatarKey,
	}
}
