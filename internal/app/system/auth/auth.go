// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey   = "is_authenticated"
	uidKey      = "uid"
	emailKey    = "email"
	nameKey     = "display_name"
	providerKey = "provider"
)

// ErrNoSessionStore is returned when the manager was built without a cookie store.
var ErrNoSessionStore = errors.New("session store not initialized")

/*─────────────────────────────────────────────────────────────────────────────*
| Identity & snapshot                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// Identity is the authenticated principal kept in the session cookie.
// It never carries role or tier.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	Provider    string
}

// Snapshot is the session state observed by one request.
//
//   - Loading: the identity has not been resolved for this request yet.
//   - Identity nil and not Loading: signed out.
//   - Identity set, Profile nil: the profile could not be read; guards deny.
type Snapshot struct {
	Loading  bool
	Identity *Identity
	Profile  *models.Profile
}

// SignedIn reports whether an identity is present.
func (s Snapshot) SignedIn() bool { return !s.Loading && s.Identity != nil }

// UID returns the identity id or "".
func (s Snapshot) UID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.UID
}

// DisplayName prefers the profile name, then the identity name, then the email.
func (s Snapshot) DisplayName() string {
	if s.Profile != nil && s.Profile.DisplayName != "" {
		return s.Profile.DisplayName
	}
	if s.Identity != nil {
		if s.Identity.DisplayName != "" {
			return s.Identity.DisplayName
		}
		return s.Identity.Email
	}
	return ""
}

// ProfileLoader returns the profile for an identity, creating the default
// profile when none exists.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, id Identity) (*models.Profile, error)
}

// ProfileLoaderFunc adapts a function to ProfileLoader.
type ProfileLoaderFunc func(ctx context.Context, id Identity) (*models.Profile, error)

func (f ProfileLoaderFunc) LoadProfile(ctx context.Context, id Identity) (*models.Profile, error) {
	return f(ctx, id)
}

type ctxKey string

const snapshotKey ctxKey = "sessionSnapshot"

// CurrentSnapshot returns the snapshot resolved for r. A request that has not
// passed through LoadSession is reported as Loading.
func CurrentSnapshot(r *http.Request) Snapshot {
	return FromContext(r.Context())
}

// FromContext returns the snapshot carried by ctx, or a Loading snapshot.
// Contexts detached from a request with context.WithoutCancel keep it.
func FromContext(ctx context.Context) Snapshot {
	if s, ok := ctx.Value(snapshotKey).(Snapshot); ok {
		return s
	}
	return Snapshot{Loading: true}
}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey, s)
}

// WithSnapshot stores s on the request context.
func WithSnapshot(r *http.Request, s Snapshot) *http.Request {
	return r.WithContext(NewContext(r.Context(), s))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and resolves the snapshot for each request.
type SessionManager struct {
	store  *sessions.CookieStore
	name   string
	loader ProfileLoader
	log    *zap.Logger
}

// NewSessionManager builds a manager over a gorilla cookie store.
//
// In production (secure=true) cookies are Secure + SameSite=None; in local dev
// over http://localhost use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetProfileLoader sets the loader used by LoadSession. Without a loader the
// snapshot carries the identity only, so every guard beyond sign-in denies.
func (m *SessionManager) SetProfileLoader(l ProfileLoader) {
	m.loader = l
}

// Identity reads the identity from the session cookie. It returns (nil, nil)
// when the visitor is signed out and an error when the cookie cannot be decoded.
func (m *SessionManager) Identity(r *http.Request) (*Identity, error) {
	if m == nil || m.store == nil {
		return nil, ErrNoSessionStore
	}
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		return nil, err
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil, nil
	}
	id := &Identity{
		UID:         getString(sess, uidKey),
		Email:       getString(sess, emailKey),
		DisplayName: getString(sess, nameKey),
		Provider:    getString(sess, providerKey),
	}
	if id.UID == "" {
		return nil, nil
	}
	return id, nil
}

// SignIn stores the identity in a fresh session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, id Identity) error {
	if m == nil || m.store == nil {
		return ErrNoSessionStore
	}
	// A stale or tampered cookie yields an error along with a fresh session.
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("session cookie invalid, using fresh session",
				zap.String("user_id", id.UID), zap.Error(err))
		} else {
			m.log.Error("session store error during sign-in, using fresh session",
				zap.String("user_id", id.UID), zap.Error(err))
		}
	}
	sess.Values[isAuthKey] = true
	sess.Values[uidKey] = id.UID
	sess.Values[emailKey] = id.Email
	sess.Values[nameKey] = id.DisplayName
	sess.Values[providerKey] = id.Provider
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	if m == nil || m.store == nil {
		return ErrNoSessionStore
	}
	sess, _ := m.store.Get(r, m.name)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSession resolves the snapshot for every request: identity from the
// cookie, then the profile fresh from the store. Role and tier changes are
// therefore visible on the next request.
func (m *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, WithSnapshot(r, m.resolve(r)))
	})
}

func (m *SessionManager) resolve(r *http.Request) Snapshot {
	id, err := m.Identity(r)
	if err != nil {
		m.log.Warn("session cookie unreadable; treating as signed out",
			zap.String("path", r.URL.Path), zap.Error(err))
		return Snapshot{}
	}
	if id == nil {
		return Snapshot{}
	}
	if m.loader == nil {
		return Snapshot{Identity: id}
	}

	prof, err := m.loader.LoadProfile(r.Context(), *id)
	if err != nil {
		m.log.Error("profile load failed",
			zap.String("user_id", id.UID), zap.Error(err))
		return Snapshot{Identity: id}
	}
	return Snapshot{Identity: id, Profile: prof}
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
