package cookie

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrEmptyName = errors.New("cookie: name cannot be empty")
)

// DefaultMaxAge keeps the language choice for a year.
const DefaultMaxAge = 365 * 24 * time.Hour

// Manager reads and writes one named cookie.
type Manager struct {
	name     string
	domain   string
	path     string
	maxAge   time.Duration
	sameSite http.SameSite
	secure   bool
	httpOnly bool
}

// Option configures a Manager.
type Option func(*Manager)

// New creates a Manager for the cookie called name. Defaults: path "/",
// SameSite=Lax, one year max age, neither Secure nor HttpOnly.
func New(name string, opts ...Option) (*Manager, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	m := &Manager{
		name:     name,
		path:     "/",
		maxAge:   DefaultMaxAge,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.httpOnly = httpOnly }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

// WithMaxAge sets the cookie lifetime. Zero makes it a session cookie.
func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) { m.maxAge = max(d, 0) }
}

// Name returns the cookie name.
func (m *Manager) Name() string { return m.name }

// Get returns the cookie value, or ErrNotFound when absent or empty.
func (m *Manager) Get(r *http.Request) (string, error) {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return "", ErrNotFound
	}
	return c.Value, nil
}

// Set writes value to the response.
func (m *Manager) Set(w http.ResponseWriter, value string) {
	http.SetCookie(w, m.cookie(value, int(m.maxAge/time.Second)))
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
