package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/database"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/session"
)

type App struct {
	logger   *logrus.Logger
	router   *http.ServeMux
	db       *pgxpool.Pool
	cookies  *config.Cookies
	ws       *config.WebSocket
	sessions *session.Registry
}

func New(logger *logrus.Logger) *App {
	return &App{
		logger:   logger,
		router:   http.NewServeMux(),
		sessions: session.NewRegistry(),
		ws:       config.NewWebSocket(),
	}
}

func (a *App) Start(ctx context.Context) error {
	db, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	a.db = db
	defer db.Close()

	jwt, err := config.NewJWT()
	if err != nil {
		return err
	}
	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return err
	}
	a.cookies = cookies

	ttl, err := config.SessionTTL()
	if err != nil {
		return err
	}

	a.loadRoutes(db)

	server := &http.Server{
		Addr:    config.Addr(),
		Handler: a.handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		a.sweep(gCtx, ttl, ttl/4)
		return nil
	})

	return g.Wait()
}

func (a *App) handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.logger, a.cookies),
		middleware.Logging(a.logger),
		middleware.Cors(),
	)
}

// sweep evicts idle sessions every interval until ctx is done.
func (a *App) sweep(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := a.sessions.Sweep(ttl); len(evicted) > 0 {
				a.logger.WithField("runs", evicted).Info("evicted idle sessions")
			}
		}
	}
}
