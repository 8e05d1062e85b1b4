package main

import (
	"net/http"
	"strings"
)

// checkAuth accepts the shared token as a Bearer header or, for websocket
// clients that cannot set headers, a query parameter. An empty configured
// token disables auth.
func checkAuth(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	if v, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && v == token {
		return true
	}
	return r.URL.Query().Get("token") == token
}
