package domain

import "time"

// Role represents an access-level tag controlling which protected views are reachable.
type Role string

const (
	// RoleViewer is the lowest-privilege role and the default for unknown input.
	RoleViewer Role = "viewer"

	// RoleStreamer identifies broadcaster accounts with access to channel tooling
	// (stream setup, gift management, dashboard economy widgets).
	RoleStreamer Role = "streamer"
)

// ValidRoles is the closed set of roles an Identity can carry.
var ValidRoles = []Role{RoleViewer, RoleStreamer}

// IsValidRole returns true if r is one of the known role tags.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// DefaultAvatarKey is the placeholder asset key assigned when a profile
// carries no avatar of its own.
const DefaultAvatarKey = "perfil"

// Identity is the normalized representation of the current viewer.
type Identity struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName"`
	// ProfileID identifies the viewer/streamer profile row used by the economy
	// features (chat, gifts, progress). Zero means absent; the session store
	// back-fills it from configured defaults after login.
	ProfileID   int    `json:"profileId,omitempty"`
	ChannelSlug string `json:"channelSlug,omitempty"`
	AvatarKey   string `json:"avatarKey"`
}

// Credential is the token pair associated with an Identity.
type Credential struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	// RefreshExpiresAt is informational only; the gateway never enforces
	// expiry client-side. Zero when the backend omitted it.
	RefreshExpiresAt time.Time `json:"refreshExpiresAt,omitzero"`
}

// RefreshExpired reports whether the refresh token's advertised lifetime has
// passed. Exposed for display purposes only; expiry is enforced server-side.
func (c Credential) RefreshExpired(now time.Time) bool {
	return !c.RefreshExpiresAt.IsZero() && now.After(c.RefreshExpiresAt)
}
