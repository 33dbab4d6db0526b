package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/oklog/ulid/v2"
)

const (
	defaultCookieName = "primecuts_visitor"
	defaultCookiePath = "/"
	defaultLifetime   = 24 * time.Hour
)

// ErrExpired indicates the visitor cookie outlived its absolute lifetime.
var ErrExpired = errors.New("session expired")

// ErrInvalidConfig indicates the manager was initialised with missing or invalid options.
var ErrInvalidConfig = errors.New("session: invalid config")

// cookieData is the signed cookie payload. Only the visitor id travels to the
// browser; UI state stays on the server.
type cookieData struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Config controls cookie encoding for the visitor cookie.
type Config struct {
	CookieName     string
	HashKey        []byte
	BlockKey       []byte
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	Lifetime time.Duration
	Now      func() time.Time
}

// Manager maps requests to visitor ids through a signed (and optionally encrypted) cookie.
type Manager struct {
	cfg   Config
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// Visit is the decoded identity of the current visitor.
type Visit struct {
	ID        string
	CreatedAt time.Time
	// Fresh is true when no valid cookie was presented.
	Fresh bool
}

// NewManager constructs a Manager using the provided configuration.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.HashKey) == 0 {
		return nil, fmt.Errorf("%w: hash key is required", ErrInvalidConfig)
	}
	switch len(cfg.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: block key must be 16, 24 or 32 bytes", ErrInvalidConfig)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = defaultCookiePath
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultLifetime
	}
	// The zero value of http.SameSite omits the attribute entirely.
	if cfg.CookieSameSite == 0 || cfg.CookieSameSite == http.SameSiteDefaultMode {
		cfg.CookieSameSite = http.SameSiteLaxMode
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(cfg.Lifetime.Seconds()))

	return &Manager{cfg: cfg, codec: codec, now: nowFn}, nil
}

// CookieName returns the configured cookie name.
func (m *Manager) CookieName() string { return m.cfg.CookieName }

// Load decodes the visitor cookie. Missing or tampered cookies yield a fresh
// visit; a cookie older than the lifetime yields ErrExpired alongside a fresh visit.
func (m *Manager) Load(r *http.Request) (Visit, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return m.fresh(), nil
	}

	var stored cookieData
	if err := m.codec.Decode(m.cfg.CookieName, cookie.Value, &stored); err != nil || stored.ID == "" {
		return m.fresh(), nil
	}
	if m.now().Sub(stored.CreatedAt) > m.cfg.Lifetime {
		return m.fresh(), ErrExpired
	}
	return Visit{ID: stored.ID, CreatedAt: stored.CreatedAt}, nil
}

// Save writes the visitor cookie.
func (m *Manager) Save(w http.ResponseWriter, v Visit) error {
	if v.ID == "" {
		return errors.New("session: empty visitor id")
	}
	encoded, err := m.codec.Encode(m.cfg.CookieName, cookieData{ID: v.ID, CreatedAt: v.CreatedAt.UTC()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	expiry := v.CreatedAt.Add(m.cfg.Lifetime).UTC()
	cookie := &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    encoded,
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: m.cfg.CookieSameSite,
		Expires:  expiry,
	}
	if remaining := expiry.Sub(m.now()); remaining <= 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(remaining.Round(time.Second).Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// Destroy clears the visitor cookie immediately.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: m.cfg.CookieSameSite,
	})
}

func (m *Manager) fresh() Visit {
	now := m.now()
	return Visit{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		CreatedAt: now.UTC(),
		Fresh:     true,
	}
}
