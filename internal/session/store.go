package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/RayAntonyEnriquez/PrograWeb-StreamApp/internal/domain"
)

// logoutNotifyTimeout bounds the fire-and-forget backend notification; the
// local session is already cleared when it runs out.
const logoutNotifyTimeout = 10 * time.Second

// Defaults holds the configured fallback profile ids, one per broad role
// category. The economy features (chat, gifts, progress) need a profile id to
// function and the backend does not always supply one on first login.
type Defaults struct {
	StreamerProfileID int
	ViewerProfileID   int
}

// For returns the fallback profile id for the given role.
func (d Defaults) For(role domain.Role) int {
	if role == domain.RoleStreamer {
		return d.StreamerProfileID
	}
	return d.ViewerProfileID
}

// LoginOptions carries per-call overrides for Login.
type LoginOptions struct {
	// ProfileID is used as a fallback when the backend omits a profile id on
	// this login. Register forwards the id returned by account creation here.
	ProfileID int
}

// Store is the single writer of the session: the in-memory pair and the two
// persisted blobs. One mutex serializes all mutations so no reader ever
// observes an identity from one login paired with tokens from another.
type Store struct {
	api      domain.AuthAPI
	state    domain.StateStore
	defaults Defaults
	clock    clockwork.Clock

	mu       sync.Mutex
	identity *domain.Identity
	creds    *domain.Credential

	subMu   sync.Mutex
	subs    map[int]chan domain.SessionEvent
	nextSub int
}

// New constructs the store and synchronously restores any persisted session.
// Restoration never fails: missing or unparseable blobs degrade to an absent
// session. Callers must not serve UI traffic before New returns, so the first
// render already sees the restored identity.
func New(ctx context.Context, api domain.AuthAPI, state domain.StateStore, defaults Defaults, clock clockwork.Clock) *Store {
	s := &Store{
		api:      api,
		state:    state,
		defaults: defaults,
		clock:    clock,
		subs:     make(map[int]chan domain.SessionEvent),
	}
	s.restore(ctx)
	return s
}

// Identity returns the current identity, if any.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// Credential returns the current token pair, if any.
func (s *Store) Credential() (domain.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return domain.Credential{}, false
	}
	return *s.creds, true
}

// Login authenticates against the platform API and replaces any prior session.
// Collaborator failures propagate unchanged and leave the session untouched.
func (s *Store) Login(ctx context.Context, email, password string, opts *LoginOptions) (domain.Identity, error) {
	if email == "" || password == "" {
		return domain.Identity{}, domain.ErrEmptyCredentials
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}

	raw := Payload{}
	for k, v := range resp.User {
		raw[k] = v
	}
	switch {
	case resp.ProfileID != 0:
		raw["profileId"] = resp.ProfileID
	case opts != nil && opts.ProfileID != 0:
		raw["profileId"] = opts.ProfileID
	}
	if resp.ChannelSlug != "" {
		raw["channelSlug"] = resp.ChannelSlug
	}

	ident := Normalize(raw)
	if ident.ProfileID == 0 {
		ident.ProfileID = s.defaults.For(ident.Role)
	}
	creds := domain.Credential{
		AccessToken:      resp.AccessToken,
		RefreshToken:     resp.RefreshToken,
		RefreshExpiresAt: resp.RefreshExpiresAt,
	}

	s.mu.Lock()
	if err := s.persistPair(ctx, ident, creds); err != nil {
		s.mu.Unlock()
		return domain.Identity{}, err
	}
	s.identity = &ident
	s.creds = &creds
	s.mu.Unlock()

	s.emit(domain.SessionStarted)
	slog.InfoContext(ctx, "Session started", "user_id", ident.ID, "role", ident.Role, "profile_id", ident.ProfileID)
	return ident, nil
}

// Register creates an account, then performs a normal login with the same
// credentials, forwarding any profile id the registration returned as the
// login fallback. Registration alone never establishes a session: if the
// chained login fails the error propagates and no session exists.
func (s *Store) Register(ctx context.Context, email, password string, role domain.Role, name string) (domain.Identity, error) {
	if email == "" || password == "" {
		return domain.Identity{}, domain.ErrEmptyCredentials
	}
	if role == "" {
		role = domain.RoleViewer
	}
	if name == "" {
		name = displayNameFromEmail(email)
	}

	resp, err := s.api.Register(ctx, name, email, password, role)
	if err != nil {
		return domain.Identity{}, err
	}

	var opts *LoginOptions
	if resp != nil && resp.ProfileID != 0 {
		opts = &LoginOptions{ProfileID: resp.ProfileID}
	}
	return s.Login(ctx, email, password, opts)
}

// Logout clears the session. The backend notification is fire-and-forget: the
// local state is gone before the network call resolves, and its failure is
// discarded. Calling Logout without an active session is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	var refreshToken string
	if s.creds != nil {
		refreshToken = s.creds.RefreshToken
	}
	wasActive := s.identity != nil || s.creds != nil
	s.mu.Unlock()

	if refreshToken != "" {
		notifyCtx := context.WithoutCancel(ctx)
		go func() {
			ctx, cancel := context.WithTimeout(notifyCtx, logoutNotifyTimeout)
			defer cancel()
			if err := s.api.Logout(ctx, refreshToken); err != nil {
				slog.Debug("Logout notification failed", "error", err)
			}
		}()
	}

	s.mu.Lock()
	if err := s.state.Delete(ctx, domain.StateKeyUser); err != nil {
		slog.Warn("Failed to delete persisted identity", "error", err)
	}
	if err := s.state.Delete(ctx, domain.StateKeyTokens); err != nil {
		slog.Warn("Failed to delete persisted tokens", "error", err)
	}
	s.identity = nil
	s.creds = nil
	s.mu.Unlock()

	if wasActive {
		s.emit(domain.SessionEnded)
		slog.InfoContext(ctx, "Session ended")
	}
}

// UpdateProfile merges updates onto the current identity field-by-field,
// re-normalizes the result and persists it. The credential is untouched.
// Returns false without error when there is no session: merging into absent
// stays absent.
func (s *Store) UpdateProfile(ctx context.Context, updates Payload) (domain.Identity, bool, error) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return domain.Identity{}, false, nil
	}

	merged := asPayload(*s.identity)
	for k, v := range updates {
		merged[k] = v
	}
	ident := Normalize(merged)

	blob, err := json.Marshal(ident)
	if err != nil {
		s.mu.Unlock()
		return domain.Identity{}, false, fmt.Errorf("marshal identity: %w", err)
	}
	if err := s.state.Set(ctx, domain.StateKeyUser, blob); err != nil {
		s.mu.Unlock()
		return domain.Identity{}, false, fmt.Errorf("persist identity: %w", err)
	}
	s.identity = &ident
	s.mu.Unlock()

	s.emit(domain.SessionUpdated)
	return ident, true, nil
}

// Subscribe registers a lifecycle event listener. The returned cancel func
// must be called when done. A subscriber that falls behind loses events
// instead of blocking store operations.
func (s *Store) Subscribe() (<-chan domain.SessionEvent, func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.SessionEvent, 8)
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) emit(kind domain.SessionEventKind) {
	evt := domain.SessionEvent{ID: uuid.New(), Kind: kind, At: s.clock.Now()}
	s.subMu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	s.subMu.Unlock()
}

// persistPair writes both blobs. Both must succeed; a storage that accepts one
// key and rejects the other is a configuration fault, not something to recover
// from, so the error surfaces and the in-memory pair stays on the last fully
// written state.
func (s *Store) persistPair(ctx context.Context, ident domain.Identity, creds domain.Credential) error {
	userBlob, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	tokenBlob, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	if err := s.state.Set(ctx, domain.StateKeyUser, userBlob); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	if err := s.state.Set(ctx, domain.StateKeyTokens, tokenBlob); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	return nil
}

// restore reads the two persisted blobs. Each read tolerates missing keys and
// malformed content independently: a parse failure means absent, never an
// error. A found identity is re-run through Normalize to absorb schema drift.
func (s *Store) restore(ctx context.Context) {
	if raw := s.readBlob(ctx, domain.StateKeyUser); raw != nil {
		var payload Payload
		if err := json.Unmarshal(raw, &payload); err != nil {
			slog.Warn("Discarding malformed persisted identity", "error", err)
		} else {
			ident := Normalize(payload)
			s.identity = &ident
		}
	}

	if raw := s.readBlob(ctx, domain.StateKeyTokens); raw != nil {
		var creds domain.Credential
		if err := json.Unmarshal(raw, &creds); err != nil {
			slog.Warn("Discarding malformed persisted tokens", "error", err)
		} else {
			s.creds = &creds
		}
	}

	if s.identity != nil {
		slog.Info("Session restored", "user_id", s.identity.ID, "role", s.identity.Role)
	}
}

func (s *Store) readBlob(ctx context.Context, key string) []byte {
	raw, err := s.state.Get(ctx, key)
	if err != nil {
		slog.Warn("Failed to read persisted state", "key", key, "error", err)
		return nil
	}
	return raw
}
