package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"idops-controlplane/internal/config"
)

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(Start),
)

// New builds the console's HTTP server around the composed handler. TLS is
// driven entirely by config; nothing else about the listener is tunable.
func New(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Start binds the listener when the fx app comes up and drains it on
// shutdown. A serve error other than a clean close is fatal: the console has
// no other transport to fall back to.
func Start(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, srv *http.Server) {
	serve := func() error {
		if cfg.TLS.Enable {
			return srv.ListenAndServeTLS(cfg.TLS.CertPath, cfg.TLS.KeyPath)
		}
		return srv.ListenAndServe()
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening",
					zap.String("addr", srv.Addr),
					zap.Bool("tls", cfg.TLS.Enable),
				)
				if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("http server draining", zap.String("addr", srv.Addr))
			return srv.Shutdown(ctx)
		},
	})
}
