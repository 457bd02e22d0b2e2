package server

import (
	"net/http"
	"net/url"
)

// SameOriginCheck accepts WebSocket upgrades whose Origin matches the
// request host. Requests without an Origin header are accepted.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return originURL.Host == host
}
