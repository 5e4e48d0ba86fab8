package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/Rishad-007/BRUDF/internal/auth"
	"github.com/Rishad-007/BRUDF/internal/config"
	membersdomain "github.com/Rishad-007/BRUDF/internal/domain/members"
	membersrepo "github.com/Rishad-007/BRUDF/internal/repository/members"
	"github.com/Rishad-007/BRUDF/internal/transport/httpserver"
	"github.com/Rishad-007/BRUDF/internal/transport/httpserver/handler"
	"github.com/Rishad-007/BRUDF/internal/transport/httpserver/middleware"
	"github.com/Rishad-007/BRUDF/pkg/logger"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	store      *membersrepo.Store
	listen     func(network, address string) (net.Listener, error)
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, log)
}

func NewWithConfig(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing store", "driver", cfg.DB.Driver)
	store := membersrepo.NewStore(cfg.DB, log)
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}

	verifier, err := auth.FromConfig(cfg.Admin)
	if err != nil {
		_ = store.Shutdown()
		return nil, fmt.Errorf("admin secret: %w", err)
	}
	if _, ok := verifier.(auth.DenyAll); ok {
		log.Warn("app: no admin secret configured, admin endpoints will reject every request")
	}

	log.Info("app: initializing router")
	handlers := handler.New(membersdomain.NewService(store), log)
	router := httpserver.NewRouter(cfg, handlers, verifier, middleware.NewMetrics(), log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		store:      store,
		listen:     net.Listen,
	}, nil
}

func (a *App) Config() config.Config {
	return a.cfg
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Listen binds PORT, moving to the next port only while the address is
// in use, for at most PortFallbackAttempts extra tries.
func (a *App) Listen() (net.Listener, error) {
	port := a.cfg.HTTP.Port
	attempts := a.cfg.HTTP.PortFallbackAttempts

	var lastErr error
	for i := 0; i <= attempts; i++ {
		addr := a.cfg.HTTP.Addr(port + i)
		ln, err := a.listen("tcp", addr)
		if err == nil {
			if i > 0 {
				a.log.Warn("http: using fallback port", "requested", port, "addr", addr)
			}
			a.httpServer.Addr = ln.Addr().String()
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("listen %s: %w", addr, err)
		}

		lastErr = err
		if i < attempts {
			a.log.Warn("http: port in use, trying next", "addr", addr)
		}
	}

	return nil, fmt.Errorf("no free port in %d..%d: %w", port, port+attempts, lastErr)
}

// Close waits for in-flight store operations before closing the handle.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Shutdown()
}
