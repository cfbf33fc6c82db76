// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/accounts/internal/platform/constants"
	"github.com/taibuivan/accounts/internal/platform/ctxutil"
	"github.com/taibuivan/accounts/internal/platform/respond"
	"github.com/taibuivan/accounts/internal/platform/sec"
)

// SessionResolver turns an access token into the caller it belongs to.
//
// Defining it here keeps the middleware independent of the auth package and
// lets tests inject a stub.
type SessionResolver interface {
	ResolveSession(ctx context.Context, accessToken string) (sec.Identity, error)
}

// RequireSession resolves the caller from the access token cookie.
//
// # Flow
//  1. Read the 'access_token' cookie (missing → 401 UNAUTHENTICATED).
//  2. Resolve it through [SessionResolver] (bad token → 400, evicted session → 401).
//  3. Inject the [sec.Identity] into the request context and annotate the access log.
func RequireSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := ""
			if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil {
				token = cookie.Value
			}

			identity, err := resolver.ResolveSession(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if annotations := ctxutil.GetAnnotations(request.Context()); annotations != nil {
				annotations.UserID = identity.IdentityID()
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRoles blocks requests whose caller's role is not in roles.
//
// # Usage
//
// Must be registered in the router AFTER [RequireSession]. An anonymous
// request is rejected with 401 rather than 403.
func RequireRoles(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if err := sec.Authorize(ctxutil.GetIdentity(request.Context()), roles...); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
