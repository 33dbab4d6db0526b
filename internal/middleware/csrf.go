package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JospenWolongwo/barber-shop-website/internal/observability"
)

// CSRFConfig controls cookie/header behaviour.
type CSRFConfig struct {
	CookieName string
	CookiePath string
	HeaderName string
	MaxAge     time.Duration
	Secure     bool
}

// CSRF attaches double-submit cookie protection. Safe methods ensure a token is
// issued; unsafe methods must echo the cookie value in the header.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "primecuts_csrf"
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-CSRF-Token"
	}
	cookiePath := cfg.CookiePath
	if cookiePath == "" {
		cookiePath = "/"
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, issued, err := ensureCSRFToken(w, r, cookieName, cookiePath, maxAge, cfg.Secure)
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, "csrf token error")
				return
			}

			if isUnsafeMethod(r.Method) {
				if reason := checkCSRF(r.Header.Get(headerName), token, issued); reason != "" {
					observability.FromContext(r.Context()).Warn("csrf check failed",
						zap.String("reason", reason),
						zap.String("path", observability.SanitizeRoute(r.URL.Path)),
					)
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyCSRF, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// checkCSRF returns why submitted does not match the cookie token, or "" when it does.
// A token issued on this very request cannot have been echoed by the page.
func checkCSRF(submitted, token string, issued bool) string {
	switch {
	case issued:
		return "no csrf cookie"
	case submitted == "":
		return "missing header"
	case subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1:
		return "token mismatch"
	}
	return ""
}

// ensureCSRFToken returns the cookie token, issuing a new one when the
// request carries none. issued reports whether the token is new.
func ensureCSRFToken(w http.ResponseWriter, r *http.Request, cookieName, cookiePath string, maxAge time.Duration, secure bool) (token string, issued bool, err error) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, false, nil
	}

	token, err = generateToken(32)
	if err != nil {
		return "", false, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     cookiePath,
		HttpOnly: true,
		Secure:   secure || r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(maxAge.Seconds()),
	})

	return token, true, nil
}

func generateToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}
