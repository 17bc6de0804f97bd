package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/types"
	"github.com/matst80/slask-storefront/pkg/urlsync"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_searches_total",
		Help: "The total number of processed product searches",
	})
	noSuggests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_suggest_total",
		Help: "The total number of processed suggestions",
	})
	noFailedFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_failed_fetches_total",
		Help: "The total number of repository queries that failed",
	})
)

type searchResponse struct {
	Data []types.Product `json:"data"`
	Meta struct {
		Pagination types.Pagination `json:"pagination"`
	} `json:"meta"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, enc *json.Encoder, status int, err error) error {
	w.WriteHeader(status)
	return enc.Encode(errorResponse{Error: err.Error()})
}

// Search lists products for the filter state carried by the URL query
// string. Missing or invalid parameters silently fall back to defaults so a
// shared link never fails to render.
func (ws *WebServer) Search(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	noSearches.Inc()
	state := urlsync.Parse(r.URL.Query(), ws.SyncOpts)
	cq := ws.Compiler.Compile(state)

	result, err := ws.Fetcher.FetchSync(r.Context(), cq)
	if err != nil {
		noFailedFetches.Inc()
		return writeError(w, enc, http.StatusBadGateway, err)
	}
	response := searchResponse{Data: result.Items}
	if response.Data == nil {
		response.Data = []types.Product{}
	}
	response.Meta.Pagination = result.Pagination
	return enc.Encode(response)
}

// Invalidate drops the result cache and announces the change to peer
// replicas, the manual counterpart of a catalog change event from the
// repository pipeline.
func (ws *WebServer) Invalidate(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	var change messaging.CatalogChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil && !errors.Is(err, io.EOF) {
		return writeError(w, enc, http.StatusBadRequest, err)
	}
	if ws.Cache != nil {
		if err := ws.Cache.Flush(r.Context()); err != nil {
			return writeError(w, enc, http.StatusInternalServerError, err)
		}
	}
	if ws.Announce != nil {
		if err := ws.Announce(change); err != nil {
			return writeError(w, enc, http.StatusBadGateway, err)
		}
	}
	return enc.Encode(map[string]bool{"ok": true})
}

// Suggest serves the search dropdown. Terms shorter than the minimum query
// length are treated as cleared and answered without touching the
// repository.
func (ws *WebServer) Suggest(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	noSuggests.Inc()
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(term)) < ws.MinQueryLength {
		return enc.Encode(searchResponse{Data: []types.Product{}})
	}

	state := types.DefaultFilterState()
	state.SearchQuery = term
	state.PageSize = 6
	cq := ws.Compiler.Compile(state)

	result, err := ws.Fetcher.FetchSync(r.Context(), cq)
	if err != nil {
		noFailedFetches.Inc()
		return writeError(w, enc, http.StatusBadGateway, err)
	}
	response := searchResponse{Data: result.Items}
	if response.Data == nil {
		response.Data = []types.Product{}
	}
	response.Meta.Pagination = result.Pagination
	return enc.Encode(response)
}
