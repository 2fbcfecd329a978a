package httpserver

import (
	"net/http"
	"time"
)

// New builds the screening HTTP server. Write timeouts stay generous because
// a full pipeline run waits on four vendor round-trips.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}
}
