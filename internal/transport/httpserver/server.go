package httpserver

import (
	"net/http"

	"github.com/Rishad-007/BRUDF/internal/config"
)

// New builds the server without an address; the caller serves it on a
// listener it has already bound.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
}
