package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pravdin97/minesweeper/internal/config"
	"github.com/pravdin97/minesweeper/internal/middleware"
	"github.com/pravdin97/minesweeper/internal/mines"
	"github.com/pravdin97/minesweeper/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log     *logrus.Logger
	cfg     *config.App
	router  *http.ServeMux
	store   *session.Store
	cookies *config.Cookies
	ws      *config.WebSocket
}

func New(
	log *logrus.Logger,
	cfg *config.App,
	dims mines.Dims,
	cookies *config.Cookies,
	ws *config.WebSocket,
) *App {
	app := &App{
		log:     log,
		cfg:     cfg,
		router:  http.NewServeMux(),
		store:   session.NewStore(log, dims, mines.NewRand()),
		cookies: cookies,
		ws:      ws,
	}

	app.loadRoutes()

	return app
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.log, a.cookies),
		middleware.Cors(a.cfg.Development),
		middleware.Logging(a.log),
	)
}

// Start serves until ctx is done, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Infof("ready to serve @ %s", a.cfg.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	g.Go(func() error {
		a.prune(gCtx)
		return nil
	})

	return g.Wait()
}

// prune drops idle games until ctx is done.
func (a *App) prune(ctx context.Context) {
	interval := a.cfg.SessionTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.store.Prune(a.cfg.SessionTTL)
		}
	}
}
