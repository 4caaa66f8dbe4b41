package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
	apperrors "github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestLogin_CanonicalResponse(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@example.com", req["email"])
		assert.Equal(t, "pw", req["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"user":             map[string]any{"id": 5, "email": "ana@example.com", "role": "streamer"},
			"accessToken":      "access",
			"refreshToken":     "refresh",
			"refreshExpiresAt": "2026-06-01T00:00:00Z",
			"profileId":        12,
			"channelSlug":      "ana-live",
		})
	})

	resp, err := client.Login(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), resp.RefreshExpiresAt)
	assert.Equal(t, 12, resp.ProfileID)
	assert.Equal(t, "ana-live", resp.ChannelSlug)
	assert.Equal(t, "streamer", resp.User["role"])
}

func TestLogin_LegacyResponse(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"usuario":            map[string]any{"id": 5, "email": "ana@example.com", "rol": "espectador"},
			"accessToken":        "access",
			"refreshToken":       "refresh",
			"refresh_expires_at": float64(1780000000),
			"perfilId":           12,
			"canal_slug":         "ana-live",
		})
	})

	resp, err := client.Login(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, 12, resp.ProfileID)
	assert.Equal(t, "ana-live", resp.ChannelSlug)
	assert.Equal(t, "espectador", resp.User["rol"])
	assert.Equal(t, time.Unix(1780000000, 0).UTC(), resp.RefreshExpiresAt)
}

func TestLogin_BadCredentials(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "credenciales inválidas"})
	})

	_, err := client.Login(context.Background(), "ana@example.com", "bad")
	require.Error(t, err)

	var structured *apperrors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, apperrors.TypeAuthentication, structured.Type)
	assert.Equal(t, "credenciales inválidas", structured.Message)
}

func TestLogin_MissingAccessToken(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 1}})
	})

	_, err := client.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	var structured *apperrors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, apperrors.TypeExternal, structured.Type)
}

func TestLogin_ServerUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	var structured *apperrors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, apperrors.TypeExternal, structured.Type)
}

func TestRegister_ReturnsProfileID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana", req["name"])
		assert.Equal(t, "viewer", req["role"])

		json.NewEncoder(w).Encode(map[string]any{"perfilId": 7})
	})

	resp, err := client.Register(context.Background(), "ana", "ana@example.com", "pw", domain.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.ProfileID)
}

func TestRegister_DuplicateAccount(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "account exists"})
	})

	_, err := client.Register(context.Background(), "ana", "ana@example.com", "pw", domain.RoleViewer)
	require.Error(t, err)

	var structured *apperrors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, apperrors.TypeConflict, structured.Type)
}

func TestLogout_SendsRefreshToken(t *testing.T) {
	var got string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = req["refreshToken"]
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Logout(context.Background(), "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, "refresh-token", got)
}

func TestLogout_FailureSurfacesToCaller(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	// The session store discards this; the client itself stays honest.
	err := client.Logout(context.Background(), "refresh-token")
	assert.Error(t, err)
}
