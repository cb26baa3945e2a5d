package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angelofallars/rentbill/app/auth"
	"github.com/angelofallars/rentbill/internal/service"
	"github.com/go-chi/chi/v5"
)

type App struct {
	host      string
	port      int
	staticDir string

	slog   *slog.Logger
	router chi.Router

	svcInvoice service.Invoice
	csrf       *auth.CSRF
}

func New(slog *slog.Logger, svcInvoice service.Invoice, csrf *auth.CSRF) *App {
	app := &App{
		host:      "localhost",
		port:      3000,
		staticDir: "app/static/",

		router: chi.NewRouter(),
		slog:   slog,

		svcInvoice: svcInvoice,
		csrf:       csrf,
	}

	app.RegisterRoutes()

	return app
}

func (a *App) WithHost(host string) *App {
	a.host = host
	return a
}

func (a *App) WithPort(port uint) *App {
	a.port = int(port)
	return a
}

func (a *App) WithStaticDir(dir string) *App {
	a.staticDir = dir
	return a
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler { return a.router }

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := http.Server{
		Addr:    addr,
		Handler: a.router,

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.slog.Info("server started listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.slog.Info("server shutting down", "addr", addr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
