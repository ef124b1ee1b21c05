// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
)

// User is the signed-in user of a request.
type User struct {
	// UID is the Firebase UID of the user.
	UID string

	// Email is the primary email of the user, empty if not known.
	Email string
}

type userContextKey struct{}

// WithUser returns a context holding the user.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user of the request. The UID is empty if the
// request is not authenticated.
func UserFromContext(ctx context.Context) User {
	u, _ := ctx.Value(userContextKey{}).(User)
	return u
}

// Middleware copies the user from the verified Firebase ID token into the
// context. It must run after the firebaseauth middleware.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := firebaseauth.TokenFromContext(r.Context())
			if tok == nil || tok.UID == "" {
				http.Error(w, "unauthenticated", http.StatusUnauthorized)
				return
			}

			u := User{UID: tok.UID}
			if id, ok := tok.Firebase.Identities["email"]; ok {
				if idAny, ok := id.([]any); ok && len(idAny) > 0 {
					if email, ok := idAny[0].(string); ok {
						u.Email = email
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// IsCurioSwitchUser checks if the user is a Curioswitch user based on their email.
// Administrative endpoints are only enabled for them.
func IsCurioSwitchUser(ctx context.Context) bool {
	return strings.HasSuffix(UserFromContext(ctx).Email, "@curioswitch.org")
}
