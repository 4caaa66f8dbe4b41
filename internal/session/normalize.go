package session

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
)

// Payload is a loosely shaped user object: a backend response body, a persisted
// blob written by an earlier release, or a partial profile update.
type Payload map[string]any

// placeholderName is assigned when neither a name nor an email is available.
const placeholderName = "Usuario"

// legacyViewerRole is the localized role tag older backend versions emit.
const legacyViewerRole = "espectador"

// fieldKeys enumerates the accepted key spellings per Identity field, resolved
// in order: canonical first, then the legacy localized names still produced by
// older backend endpoints and persisted by earlier releases.
var fieldKeys = map[string][]string{
	"id":          {"id", "usuarioId"},
	"email":       {"email"},
	"role":        {"role", "rol"},
	"displayName": {"displayName", "name", "nombre"},
	"profileId":   {"profileId", "perfilId", "perfil_id"},
	"channelSlug": {"channelSlug", "canal_slug"},
	"avatarKey":   {"avatarKey"},
}

// Normalize converts any object-shaped input into a fully populated Identity.
// It is pure and total: it never fails, and every field ends up with either a
// supplied value or a computed default. Persisted identities are re-run through
// it on restore so schema drift from older releases degrades to defaults
// instead of corrupt state.
func Normalize(raw Payload) domain.Identity {
	ident := domain.Identity{
		ID:          intField(raw, "id"),
		Email:       stringField(raw, "email"),
		ProfileID:   intField(raw, "profileId"),
		ChannelSlug: stringField(raw, "channelSlug"),
	}

	role := domain.Role(stringField(raw, "role"))
	if role == legacyViewerRole {
		role = domain.RoleViewer
	}
	if !domain.IsValidRole(role) {
		role = domain.RoleViewer
	}
	ident.Role = role

	ident.DisplayName = stringField(raw, "displayName")
	if ident.DisplayName == "" {
		ident.DisplayName = displayNameFromEmail(ident.Email)
	}

	ident.AvatarKey = stringField(raw, "avatarKey")
	if ident.AvatarKey == "" {
		ident.AvatarKey = domain.DefaultAvatarKey
	}

	return ident
}

// asPayload flattens an Identity back into canonical keys so a partial update
// can be merged over it and the result re-normalized.
func asPayload(ident domain.Identity) Payload {
	p := Payload{
		"id":          ident.ID,
		"email":       ident.Email,
		"role":        string(ident.Role),
		"displayName": ident.DisplayName,
		"avatarKey":   ident.AvatarKey,
	}
	if ident.ProfileID != 0 {
		p["profileId"] = ident.ProfileID
	}
	if ident.ChannelSlug != "" {
		p["channelSlug"] = ident.ChannelSlug
	}
	return p
}

func displayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		local = email
	}
	if local == "" {
		return placeholderName
	}
	return local
}

// stringField resolves the first non-empty string among the accepted key
// spellings for the given canonical field.
func stringField(raw Payload, field string) string {
	for _, key := range fieldKeys[field] {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// intField resolves the first usable integer among the accepted key spellings.
// JSON decoding hands numbers over as float64, persisted Go values as int, and
// sloppy backends as digit strings; all are accepted.
func intField(raw Payload, field string) int {
	for _, key := range fieldKeys[field] {
		if n, ok := coerceInt(raw[key]); ok && n != 0 {
			return n
		}
	}
	return 0
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
