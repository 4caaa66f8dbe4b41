package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage keys for the two independently persisted session blobs.
const (
	StateKeyUser   = "user"
	StateKeyTokens = "tokens"
)

// StateStore is the durable key-value substrate the session survives restarts in.
// Get returns (nil, nil) for an absent key; callers treat unparseable content
// the same as absence.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoginResponse is the platform API's answer to a credential login.
// User is kept loosely shaped on purpose: the backend mixes two field-naming
// conventions and the session store normalizes it into an Identity.
type LoginResponse struct {
	User             map[string]any
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
	// ProfileID is zero when the backend omitted it on this login.
	ProfileID   int
	ChannelSlug string
}

// RegisterResponse carries the profile id the backend may already have
// provisioned during account creation. Zero when omitted.
type RegisterResponse struct {
	ProfileID int
}

// AuthAPI is the remote authentication collaborator.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Register(ctx context.Context, name, email, password string, role Role) (*RegisterResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// SessionEventKind classifies session lifecycle notifications.
type SessionEventKind string

const (
	SessionStarted SessionEventKind = "session.started"
	SessionUpdated SessionEventKind = "session.updated"
	SessionEnded   SessionEventKind = "session.ended"
)

// SessionEvent is emitted by the session store after each completed mutation.
// The store never navigates or renders; subscribers (the HTTP layer, the UI
// shell) decide how to react.
type SessionEvent struct {
	ID   uuid.UUID        `json:"id"`
	Kind SessionEventKind `json:"kind"`
	At   time.Time        `json:"at"`
}
