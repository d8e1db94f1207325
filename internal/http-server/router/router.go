package router

import (
	"net/http"

	"pictiato/internal/http-server/handler/asset"
	"pictiato/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	AssetHandler *asset.AssetHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/{domain}", func(r chi.Router) {
		r.Post("/", h.AssetHandler.Upload)
		r.Get("/", h.AssetHandler.List)
		r.Get("/{id}/{filename}", h.AssetHandler.Serve)
		r.Delete("/{id}/{filename}", h.AssetHandler.Delete)
	})

	return r
}
