// Package httpserver builds the process's HTTP server. WriteTimeout is
// deliberately unset: the admin change feed holds its response open for as
// long as the operator keeps the dashboard up, and a write deadline would cut
// the stream mid-session.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server for the given handler. Header reads are bounded so a
// slow client cannot pin a connection pre-request; idle keep-alive connections
// are recycled.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
