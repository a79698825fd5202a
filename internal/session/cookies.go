package session

import (
	"net/http"
	"strings"
)

// ParseSessionCookies turns raw Set-Cookie values into a Cookie header
// value, keeping header order. Unparseable values are skipped.
func ParseSessionCookies(values []string) string {
	pairs := make([]string, 0, len(values))
	for _, v := range values {
		c, err := http.ParseSetCookie(v)
		if err != nil {
			continue
		}
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// mergeCookie appends the session cookies to whatever Cookie value the
// header source already carries.
func mergeCookie(h http.Header, session string) {
	base := strings.TrimRight(strings.TrimSpace(h.Get("Cookie")), "; ")
	session = strings.TrimSpace(session)
	switch {
	case base == "" && session == "":
		h.Del("Cookie")
	case base == "":
		h.Set("Cookie", session)
	case session == "":
		h.Set("Cookie", base)
	default:
		h.Set("Cookie", base+"; "+session)
	}
}
