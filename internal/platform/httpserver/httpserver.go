// Package httpserver builds the process's http.Server with the timeouts the
// certification API needs.
package httpserver

import (
	"net/http"
	"time"
)

// New returns the API server. ReadHeaderTimeout guards against slow-header
// clients; per-request deadlines are applied by the middleware chain, not
// here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
