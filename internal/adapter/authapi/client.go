// Package authapi implements the HTTP client for the platform's
// authentication endpoints.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
	apperrors "github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/platform/errors"
)

const httpCallTimeout = 10 * time.Second

// Client talks to the remote platform API. It performs no retries: callers
// own the failure semantics, and the session store propagates errors unchanged.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpCallTimeout},
	}
}

// loginBody accepts both field-naming conventions the backend has shipped
// over time; the canonical English names win when both are present.
type loginBody struct {
	User    map[string]any `json:"user"`
	Usuario map[string]any `json:"usuario"`

	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	RefreshExpiresAt       any `json:"refreshExpiresAt"`
	RefreshExpiresAtLegacy any `json:"refresh_expires_at"`

	ProfileID       any `json:"profileId"`
	ProfileIDLegacy any `json:"perfilId"`

	ChannelSlug       string `json:"channelSlug"`
	ChannelSlugLegacy string `json:"canal_slug"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var body loginBody
	if err := c.post(ctx, "/auth/login", payload, &body); err != nil {
		return nil, err
	}

	user := body.User
	if user == nil {
		user = body.Usuario
	}

	resp := &domain.LoginResponse{
		User:             user,
		AccessToken:      body.AccessToken,
		RefreshToken:     body.RefreshToken,
		RefreshExpiresAt: coerceTime(firstPresent(body.RefreshExpiresAt, body.RefreshExpiresAtLegacy)),
		ProfileID:        coerceInt(firstPresent(body.ProfileID, body.ProfileIDLegacy)),
		ChannelSlug:      body.ChannelSlug,
	}
	if resp.ChannelSlug == "" {
		resp.ChannelSlug = body.ChannelSlugLegacy
	}
	if resp.User == nil {
		resp.User = map[string]any{}
	}
	if resp.AccessToken == "" {
		return nil, apperrors.ExternalError("login response carried no access token", nil)
	}
	return resp, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.RegisterResponse, error) {
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     string(role),
	}

	var body struct {
		ProfileID       any `json:"profileId"`
		ProfileIDLegacy any `json:"perfilId"`
	}
	if err := c.post(ctx, "/auth/register", payload, &body); err != nil {
		return nil, err
	}

	return &domain.RegisterResponse{
		ProfileID: coerceInt(firstPresent(body.ProfileID, body.ProfileIDLegacy)),
	}, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	payload := map[string]string{"refreshToken": refreshToken}
	return c.post(ctx, "/auth/logout", payload, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.ExternalError("platform API unreachable", err).WithField("path", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromStatus(resp, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ExternalError("failed to decode platform API response", err).WithField("path", path)
	}
	return nil
}

func errorFromStatus(resp *http.Response, path string) error {
	message := remoteMessage(resp)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperrors.ValidationError(message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.AuthenticationError(message)
	case http.StatusConflict:
		return apperrors.ConflictError(message)
	default:
		return apperrors.ExternalError(message, nil).
			WithField("path", path).
			WithField("status", resp.StatusCode)
	}
}

// remoteMessage pulls the backend's error text out of the response body,
// falling back to the HTTP status text.
func remoteMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

func firstPresent(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

// coerceTime accepts RFC 3339 strings and unix-second numbers; anything else
// yields the zero time, which the domain treats as "not advertised".
func coerceTime(v any) time.Time {
	switch t := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	case float64:
		return time.Unix(int64(t), 0).UTC()
	default:
		return time.Time{}
	}
}
