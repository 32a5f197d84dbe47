package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const (
	sessionIDHeader   = "X-Session-Id"
	customerKeyHeader = "X-Customer-Key"
)

type contextKey string

const ctxScope contextKey = "session_scope"

// Session extracts the shopper session scope from request headers. Requests
// without a session id are rejected; the customer key is optional and
// identifies the logged-in shopper in the directory.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := session.Scope{
				SessionID:   r.Header.Get(sessionIDHeader),
				CustomerKey: r.Header.Get(customerKeyHeader),
			}
			if !scope.Valid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id header is required"))
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithSessionID(ctx, scope.SessionID)
			}
			ctx = context.WithValue(ctx, ctxScope, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ScopeFromContext returns the session scope injected by Session.
func ScopeFromContext(ctx context.Context) (session.Scope, bool) {
	if ctx == nil {
		return session.Scope{}, false
	}
	scope, ok := ctx.Value(ctxScope).(session.Scope)
	return scope, ok
}
