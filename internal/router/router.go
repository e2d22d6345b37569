package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dyastin-0/relay/internal/config"
	"github.com/Dyastin-0/relay/internal/cors"
	"github.com/Dyastin-0/relay/internal/forwarder"
	"github.com/Dyastin-0/relay/internal/health"
	"github.com/Dyastin-0/relay/internal/logger"
	"github.com/Dyastin-0/relay/internal/requestid"
	"github.com/go-chi/chi/v5"
)

// New wires the inbound surface: diagnostic endpoints first, everything
// else falls through to the forwarder.
func New(fwd *forwarder.Forwarder) chi.Router {
	router := chi.NewRouter()

	router.Use(requestid.Handler)
	router.Use(logger.Handler)
	router.Use(cors.Handler)

	router.Get("/routes", listRoutes(fwd))
	router.Get("/health", getHealth())
	router.Handle("/*", fwd)

	return router
}

type routeEntry struct {
	Prefix   string `json:"prefix"`
	Upstream string `json:"upstream"`
}

func listRoutes(fwd *forwarder.Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := fwd.Table().List()

		entries := make([]routeEntry, 0, len(list))
		for _, route := range list {
			entries = append(entries, routeEntry{
				Prefix:   route.Prefix,
				Upstream: route.Target.Display(),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

func getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := struct {
			Uptime    int64          `json:"uptime"`
			Upstreams map[string]int `json:"upstreams"`
		}{
			Uptime:    int64(time.Since(config.StartTime).Seconds()),
			Upstreams: health.Snapshot(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&data)
	}
}
