package middleware

import (
	"context"

	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyHTMX    ctxKey = "htmx.info"
	ctxKeyVisitor ctxKey = "visitor"
	ctxKeyLang    ctxKey = "lang"
	ctxKeyCSRF    ctxKey = "csrf.token"
)

// WithVisitor stores the current visitor in context.
func WithVisitor(ctx context.Context, v *site.Visitor) context.Context {
	return context.WithValue(ctx, ctxKeyVisitor, v)
}

// VisitorFromContext returns the visitor attached by Session, if any.
func VisitorFromContext(ctx context.Context) (*site.Visitor, bool) {
	v, ok := ctx.Value(ctxKeyVisitor).(*site.Visitor)
	return v, ok && v != nil
}

// WithLang stores the resolved language in context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKeyLang, lang)
}

// Lang returns the resolved language, or fallback when Locale did not run.
func Lang(ctx context.Context, fallback string) string {
	if v, ok := ctx.Value(ctxKeyLang).(string); ok && v != "" {
		return v
	}
	return fallback
}

// CSRFTokenFromContext returns the token issued for the current request (to embed in meta tags).
func CSRFTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(ctxKeyCSRF).(string); ok {
		return token
	}
	return ""
}
