// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package i18n

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/text/language"

	"github.com/curioswitch/hamatcon/common/autofill"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Japanese,
})

type userLanguageContextKey struct{}

var userLanguageContextKeyInstance = userLanguageContextKey{}

// Middleware stores the best supported language of the Accept-Language
// header in the request context.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if lng := r.Header.Get("Accept-Language"); lng != "" {
				tag, _ := language.MatchStrings(matcher, lng)
				ctx = context.WithValue(ctx, userLanguageContextKeyInstance, tag)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserLanguage returns the language of the user, English by default.
func UserLanguage(ctx context.Context) language.Tag {
	if lng, ok := ctx.Value(userLanguageContextKeyInstance).(language.Tag); ok {
		return lng
	}
	return language.English
}

// FormatCookTime renders a stored cook time in the user's language.
func FormatCookTime(ctx context.Context, raw string) string {
	if base, _ := UserLanguage(ctx).Base(); base != japanese {
		return autofill.FormatCookTime(raw)
	}

	minutes, ok := autofill.ParseCookTime(raw)
	if !ok {
		return raw
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d分", m)
	case m == 0:
		return fmt.Sprintf("%d時間", h)
	default:
		return fmt.Sprintf("%d時間%d分", h, m)
	}
}

var japanese, _ = language.Japanese.Base()
