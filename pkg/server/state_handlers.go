package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/matst80/slask-storefront/pkg/types"
	"github.com/matst80/slask-storefront/pkg/urlsync"
)

// stateResponse mirrors every successful mutation back to the client
// together with the canonical query string so the address bar can be kept
// in sync.
type stateResponse struct {
	State types.FilterState `json:"state"`
	Query string            `json:"query"`
}

func (ws *WebServer) respondState(enc *json.Encoder, state types.FilterState) error {
	return enc.Encode(stateResponse{State: state, Query: urlsync.Encode(state)})
}

// mutate decodes the request body into args, applies fn against the
// session's store and answers with the resulting state. Validation errors
// never partially apply and come back as 400s.
func mutate[V any](ws *WebServer, w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder, fn func(s *session, args V) error) error {
	var args V
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		return writeError(w, enc, http.StatusBadRequest, err)
	}
	session := ws.Sessions.get(sessionId)
	if err := fn(session, args); err != nil {
		return writeError(w, enc, http.StatusBadRequest, err)
	}
	return ws.respondState(enc, session.store.State())
}

func (ws *WebServer) GetState(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return ws.respondState(enc, ws.Sessions.get(sessionId).store.State())
}

type categoryArgs struct {
	Slug string `json:"slug"`
}

func (ws *WebServer) SetCategory(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args categoryArgs) error {
		return s.store.SetCategory(args.Slug)
	})
}

type priceArgs struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func (ws *WebServer) SetPriceRange(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args priceArgs) error {
		return s.store.SetPriceRange(args.Min, args.Max)
	})
}

type ratingArgs struct {
	Value int `json:"value"`
}

func (ws *WebServer) SetRatingFloor(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args ratingArgs) error {
		return s.store.SetRatingFloor(args.Value)
	})
}

type flagArgs struct {
	Name types.FlagName `json:"name"`
}

func (ws *WebServer) ToggleFlag(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args flagArgs) error {
		return s.store.ToggleFlag(args.Name)
	})
}

type searchArgs struct {
	Query string `json:"q"`
}

// SetSearchQuery routes raw input through the session debouncer, the store
// mutation happens once the term settles. The response carries the state as
// it is right now.
func (ws *WebServer) SetSearchQuery(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args searchArgs) error {
		s.debouncer.Set(args.Query)
		return nil
	})
}

type sortArgs struct {
	Field     types.SortField     `json:"field"`
	Direction types.SortDirection `json:"direction"`
}

func (ws *WebServer) SetSort(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args sortArgs) error {
		return s.store.SetSort(args.Field, args.Direction)
	})
}

type pageArgs struct {
	Page *int `json:"page"`
	Size *int `json:"size"`
}

func (ws *WebServer) SetPage(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args pageArgs) error {
		if args.Size != nil {
			if err := s.store.SetPageSize(*args.Size); err != nil {
				return err
			}
		}
		if args.Page != nil {
			return s.store.SetPage(*args.Page)
		}
		return nil
	})
}

func (ws *WebServer) ClearAll(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, _ struct{}) error {
		return s.store.ClearAll()
	})
}

type removeArgs struct {
	Facet types.FacetKey `json:"facet"`
}

func (ws *WebServer) RemoveFacet(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	return mutate(ws, w, r, sessionId, enc, func(s *session, args removeArgs) error {
		return s.store.RemoveFacet(args.Facet)
	})
}
