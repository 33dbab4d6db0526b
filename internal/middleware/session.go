package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/JospenWolongwo/barber-shop-website/internal/observability"
	"github.com/JospenWolongwo/barber-shop-website/internal/session"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

// VisitManager maps requests to visitor ids.
type VisitManager interface {
	Load(r *http.Request) (session.Visit, error)
	Save(w http.ResponseWriter, v session.Visit) error
}

// VisitorStore hands out per-visitor state.
type VisitorStore interface {
	GetOrCreate(id string) (*site.Visitor, bool)
}

// Session attaches the visitor for the current cookie, creating state and
// issuing a cookie for new visitors.
func Session(manager VisitManager, store VisitorStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := observability.FromContext(ctx)

			visit, err := manager.Load(r)
			if err != nil && !errors.Is(err, session.ErrExpired) {
				logger.Error("load visitor cookie", zap.Error(err))
				WriteError(w, r, http.StatusInternalServerError, "session error")
				return
			}
			if errors.Is(err, session.ErrExpired) {
				logger.Debug("visitor cookie expired, issuing a new one")
			}
			if visit.Fresh {
				if err := manager.Save(w, visit); err != nil {
					logger.Error("save visitor cookie", zap.Error(err))
					WriteError(w, r, http.StatusInternalServerError, "session error")
					return
				}
			}

			visitor, created := store.GetOrCreate(visit.ID)
			ctx = observability.With(ctx, zap.String("visitor_id", visit.ID))
			if created {
				observability.FromContext(ctx).Debug("visitor created", zap.Bool("fresh_cookie", visit.Fresh))
			}
			next.ServeHTTP(w, r.WithContext(WithVisitor(ctx, visitor)))
		})
	}
}
