package server

import (
	"net/http"

	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/fetch"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/query"
	"github.com/matst80/slask-storefront/pkg/urlsync"
)

// WebServer is the thin HTTP edge over the query composition engine. The
// product listing endpoint is stateless against the URL (the URL is the
// shareable filter representation), the state endpoints drive a per-session
// FilterStore the way the storefront UI would.
type WebServer struct {
	Compiler *query.Compiler
	Fetcher  *fetch.Fetcher
	Sessions *SessionRegistry
	Cache    *fetch.Cache
	SyncOpts urlsync.SyncOptions

	// Announce publishes a catalog change to peer replicas, nil when no
	// broker is configured.
	Announce func(messaging.CatalogChange) error

	MinQueryLength int
}

func (ws *WebServer) Handler() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/products", common.JsonHandler(ws.Search))
	mux.HandleFunc("GET /api/suggest", common.JsonHandler(ws.Suggest))
	mux.HandleFunc("POST /api/invalidate", common.JsonHandler(ws.Invalidate))

	mux.HandleFunc("GET /api/state", common.JsonHandler(ws.GetState))
	mux.HandleFunc("POST /api/state/category", common.JsonHandler(ws.SetCategory))
	mux.HandleFunc("POST /api/state/price", common.JsonHandler(ws.SetPriceRange))
	mux.HandleFunc("POST /api/state/rating", common.JsonHandler(ws.SetRatingFloor))
	mux.HandleFunc("POST /api/state/flag", common.JsonHandler(ws.ToggleFlag))
	mux.HandleFunc("POST /api/state/search", common.JsonHandler(ws.SetSearchQuery))
	mux.HandleFunc("POST /api/state/sort", common.JsonHandler(ws.SetSort))
	mux.HandleFunc("POST /api/state/page", common.JsonHandler(ws.SetPage))
	mux.HandleFunc("POST /api/state/clear", common.JsonHandler(ws.ClearAll))
	mux.HandleFunc("POST /api/state/remove", common.JsonHandler(ws.RemoveFacet))

	return mux
}
