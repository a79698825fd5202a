package session

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSessionCookies_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		values []string
		want   string
	}{
		{"none", nil, ""},
		{"single", []string{"sid=abc; Path=/; HttpOnly"}, "sid=abc"},
		{"keeps_header_order", []string{"b=2; Secure", "a=1", "c=3; Max-Age=60"}, "b=2; a=1; c=3"},
		{"skips_invalid", []string{"=novalue", "ok=1"}, "ok=1"},
		{"empty_value", []string{"gone=; Max-Age=0"}, "gone="},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSessionCookies(tc.values))
		})
	}
}

func TestMergeCookie_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		base    string
		session string
		want    string
	}{
		{"both", "base=1", "sid=2", "base=1; sid=2"},
		{"base_trailing_separator", "base=1; ", "sid=2", "base=1; sid=2"},
		{"only_base", "base=1", "", "base=1"},
		{"only_session", "", "sid=2", "sid=2"},
		{"neither", "", "", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := make(http.Header)
			if tc.base != "" {
				h.Set("Cookie", tc.base)
			}
			mergeCookie(h, tc.session)
			assert.Equal(t, tc.want, h.Get("Cookie"))
		})
	}
}
