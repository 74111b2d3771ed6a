// Package session binds browser cookies to server-side sessions.
//
// The cookie carries a signed token naming a session id; the session itself
// lives in a Store (Redis in production, memory otherwise) with a sliding idle
// timeout. A token that fails verification, or names a session the store no
// longer holds, leaves the request anonymous.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fitlog/fitlog/internal/model"
)

// ErrUnauthenticated is returned when a request carries no live session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves and manages the identity behind a request.
type Authenticator interface {
	Login(w http.ResponseWriter, r *http.Request, userID string) error
	Logout(w http.ResponseWriter, r *http.Request) error
	CurrentUser(r *http.Request) (string, error)
}

// Store persists sessions with an idle timeout.
// LoadSession returns nil, nil when the session is missing or expired and
// pushes the expiry of a live session ttl into the future.
type Store interface {
	SaveSession(ctx context.Context, sess *model.Session, ttl time.Duration) error
	LoadSession(ctx context.Context, id string, ttl time.Duration) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Config controls cookie and lifetime settings.
type Config struct {
	Secret       []byte
	IdleTimeout  time.Duration
	MaxAge       time.Duration
	CookieName   string
	CookieSecure bool
	SameSite     http.SameSite
}

// Manager implements Authenticator on top of a Store.
type Manager struct {
	store  Store
	cfg    Config
	codec  tokenCodec
	now    func() time.Time
	logger *slog.Logger
}

var _ Authenticator = (*Manager)(nil)

// NewManager creates a session manager.
func NewManager(store Store, cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "fitlog_session"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}

	m := &Manager{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.Default(),
	}
	m.codec = tokenCodec{secret: cfg.Secret, now: func() time.Time { return m.now() }}
	return m
}

// Login starts a new session for userID and sets the session cookie.
// Any session the request already carries is destroyed first.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID string) error {
	ctx := r.Context()

	if claims, err := m.claimsFromRequest(r); err == nil {
		if err := m.store.DeleteSession(ctx, claims.ID); err != nil {
			m.logger.Warn("failed to destroy previous session", "error", err)
		}
	}

	now := m.now().UTC()
	sess := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
	}

	if err := m.store.SaveSession(ctx, sess, m.cfg.IdleTimeout); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	expiresAt := now.Add(m.cfg.MaxAge)
	token, err := m.codec.sign(sess.ID, userID, now, expiresAt)
	if err != nil {
		_ = m.store.DeleteSession(ctx, sess.ID)
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, m.cookie(token, expiresAt))
	return nil
}

// Logout destroys the request's session and clears the cookie.
// Returns ErrUnauthenticated when there is no live session to end.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	claims, err := m.claimsFromRequest(r)
	if err != nil {
		return ErrUnauthenticated
	}

	if err := m.store.DeleteSession(r.Context(), claims.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	http.SetCookie(w, m.expiredCookie())
	return nil
}

// CurrentUser returns the user id bound to the request's session.
// Missing, tampered, expired, or destroyed sessions yield ErrUnauthenticated.
func (m *Manager) CurrentUser(r *http.Request) (string, error) {
	claims, err := m.claimsFromRequest(r)
	if err != nil {
		return "", ErrUnauthenticated
	}

	sess, err := m.store.LoadSession(r.Context(), claims.ID, m.cfg.IdleTimeout)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.UserID != claims.Subject {
		return "", ErrUnauthenticated
	}

	return sess.UserID, nil
}

func (m *Manager) claimsFromRequest(r *http.Request) (*sessionClaims, error) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrUnauthenticated
	}
	return m.codec.parse(c.Value)
}

func (m *Manager) cookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: m.cfg.SameSite,
	}
}

func (m *Manager) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: m.cfg.SameSite,
	}
}
