// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: "en"},
		{header: "ja", want: "ja"},
		{header: "ja-JP,ja;q=0.9,en;q=0.8", want: "ja"},
		{header: "fr-FR,en;q=0.5", want: "en"},
	}

	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			var got context.Context
			h := Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.Context()
			}))
			req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
			if tc.header != "" {
				req.Header.Set("Accept-Language", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			base, _ := UserLanguage(got).Base()
			require.Equal(t, tc.want, base.String())
		})
	}
}

func TestFormatCookTime(t *testing.T) {
	ja := context.WithValue(t.Context(), userLanguageContextKeyInstance, language.Japanese)

	require.Equal(t, "1 hr 35 min", FormatCookTime(t.Context(), "95 min"))
	require.Equal(t, "1時間35分", FormatCookTime(ja, "95 min"))
	require.Equal(t, "2時間", FormatCookTime(ja, "120 min"))
	require.Equal(t, "45分", FormatCookTime(ja, "45 min"))
	require.Empty(t, FormatCookTime(ja, ""))
}
