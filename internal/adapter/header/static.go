package header

import (
	"net/http"
	"strings"
)

// Static hands out copies of a fixed header set. The browser set mirrors
// what the mission site's own frontend sends.
type Static struct {
	list http.Header
}

func NewBrowser(authorization, cookie, origin string) *Static {
	origin = strings.TrimRight(origin, "/")
	h := http.Header{}
	h.Set("sec-ch-ua", `"Not)A;Brand";v="99", "Microsoft Edge";v="127", "Chromium";v="127"`)
	h.Set("sec-ch-ua-mobile", "?0")
	h.Set("sec-ch-ua-arch", `"x86"`)
	h.Set("sec-ch-ua-full-version", `"127.0.2651.105"`)
	h.Set("sec-ch-ua-platform-version", `"10.0.0"`)
	h.Set("sec-ch-ua-full-version-list", `"Not)A;Brand";v="99.0.0.0", "Microsoft Edge";v="127.0.2651.105", "Chromium";v="127.0.6533.120"`)
	h.Set("sec-ch-ua-bitness", `"64"`)
	h.Set("sec-ch-ua-model", `""`)
	h.Set("sec-ch-ua-platform", `"Windows"`)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36 Edg/127.0.0.0")
	h.Set("sec-fetch-site", "same-origin")
	h.Set("sec-fetch-mode", "cors")
	h.Set("sec-fetch-dest", "empty")
	h.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6")
	h.Set("priority", "u=1, i")
	if origin != "" {
		h.Set("Origin", origin)
		h.Set("Referer", origin+"/home")
	}
	if authorization != "" {
		h.Set("Authorization", authorization)
	}
	if c := strings.TrimSpace(cookie); c != "" {
		h.Set("Cookie", c)
	}
	return &Static{list: h}
}

// NewStaticWith is an extra constructor for tests/DI.
func NewStaticWith(list http.Header) *Static {
	return &Static{list: list}
}

// Headers returns a copy the caller may modify.
func (s *Static) Headers() http.Header {
	if s.list == nil {
		return http.Header{}
	}
	return s.list.Clone()
}
