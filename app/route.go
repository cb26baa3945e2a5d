package app

import (
	"net/http"

	"github.com/angelofallars/rentbill/app/route/invoice"
	"github.com/go-chi/chi/v5/middleware"
)

func (a *App) RegisterRoutes() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	invoice.NewHandlerGroup(a.svcInvoice, a.csrf, a.slog).Mount(a.router)

	a.router.Handle("/static/*", http.StripPrefix("/static/", http.HandlerFunc(a.serveStatic)))
}

// serveStatic reads the directory per request so WithStaticDir may be
// applied after New.
func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.Dir(a.staticDir)).ServeHTTP(w, r)
}
