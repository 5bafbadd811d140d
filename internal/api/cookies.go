package api

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
)

type cookieKey struct {
	name string
	path string
}

// issuedCookies mirrors the cookies the service has set, keyed by name and
// path. The jar cannot report a cookie's Path, so this is what callers
// persist and expire.
type issuedCookies struct {
	mu      sync.Mutex
	entries map[cookieKey]*http.Cookie
}

func (s *issuedCookies) record(target *url.URL, cookies []*http.Cookie, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[cookieKey]*http.Cookie)
	}
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		path := c.Path
		if path == "" || path[0] != '/' {
			path = defaultCookiePath(target.Path)
		}
		key := cookieKey{name: c.Name, path: path}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(s.entries, key)
			continue
		}
		kept := &http.Cookie{Name: c.Name, Value: c.Value, Path: path, Expires: c.Expires}
		if c.MaxAge > 0 {
			kept.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		s.entries[key] = kept
	}
}

func (s *issuedCookies) list(now time.Time) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*http.Cookie, 0, len(s.entries))
	for key, c := range s.entries {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			delete(s.entries, key)
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	slices.SortFunc(out, func(a, b *http.Cookie) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

// defaultCookiePath is the directory of the request path, which is where a
// cookie without a Path attribute applies.
func defaultCookiePath(requestPath string) string {
	if requestPath == "" || requestPath[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(requestPath, "/")
	if i == 0 {
		return "/"
	}
	return requestPath[:i]
}
