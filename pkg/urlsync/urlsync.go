package urlsync

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/matst80/slask-storefront/pkg/types"
)

// queryParams is the shareable query-string surface. Absent parameters mean
// "no constraint / default", unknown parameters are ignored.
type queryParams struct {
	Category string   `schema:"category"`
	MinPrice *float64 `schema:"minPrice"`
	MaxPrice *float64 `schema:"maxPrice"`
	Rating   int      `schema:"rating"`
	InStock  bool     `schema:"inStock"`
	Featured bool     `schema:"featured"`
	Trending bool     `schema:"trending"`
	Query    string   `schema:"q"`
	Sort     string   `schema:"sort"`
	Dir      string   `schema:"dir"`
	Page     int      `schema:"page"`
	Size     int      `schema:"size"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type SyncOptions struct {
	// Fallback upper bound when the URL carries only minPrice, mirrors the
	// store's one-sided normalization.
	MaxPrice float64
}

func DefaultSyncOptions() SyncOptions {
	return SyncOptions{MaxPrice: 10000}
}

// Parse builds a FilterState from URL query parameters. Missing or invalid
// values fall back to defaults silently, parsing never fails.
func Parse(values url.Values, opts SyncOptions) types.FilterState {
	if opts.MaxPrice <= 0 {
		opts.MaxPrice = DefaultSyncOptions().MaxPrice
	}
	p := queryParams{}
	// Partially decoded fields are kept, anything malformed stays zero.
	_ = decoder.Decode(&p, values)

	state := types.DefaultFilterState()
	state.Category = strings.TrimSpace(p.Category)
	state.SearchQuery = strings.TrimSpace(p.Query)
	if p.Rating >= 1 && p.Rating <= 5 {
		state.RatingFloor = p.Rating
	}
	state.InStock = p.InStock
	state.Featured = p.Featured
	state.Trending = p.Trending

	if p.MinPrice != nil || p.MaxPrice != nil {
		lo := 0.0
		hi := opts.MaxPrice
		if p.MinPrice != nil {
			lo = *p.MinPrice
		}
		if p.MaxPrice != nil {
			hi = *p.MaxPrice
		}
		if lo <= hi {
			state.PriceRange = &types.PriceRange{Min: lo, Max: hi}
		}
	}

	if types.ValidSortField(types.SortField(p.Sort)) {
		state.Sort.Field = types.SortField(p.Sort)
	}
	if types.ValidSortDirection(types.SortDirection(p.Dir)) {
		state.Sort.Direction = types.SortDirection(p.Dir)
	}
	if p.Page > 0 {
		state.Page = p.Page
	}
	if p.Size > 0 {
		state.PageSize = p.Size
	}
	return state
}

// Values serializes a FilterState to query parameters, omitting absent
// facets and default values so parsing the result reconstructs an equal
// state.
func Values(s types.FilterState) url.Values {
	values := url.Values{}
	if s.Category != "" {
		values.Set("category", s.Category)
	}
	if s.PriceRange != nil {
		values.Set("minPrice", formatPrice(s.PriceRange.Min))
		values.Set("maxPrice", formatPrice(s.PriceRange.Max))
	}
	if s.RatingFloor > 0 {
		values.Set("rating", strconv.Itoa(s.RatingFloor))
	}
	if s.InStock {
		values.Set("inStock", "true")
	}
	if s.Featured {
		values.Set("featured", "true")
	}
	if s.Trending {
		values.Set("trending", "true")
	}
	if s.SearchQuery != "" {
		values.Set("q", s.SearchQuery)
	}
	if s.Sort != types.DefaultSort() {
		values.Set("sort", string(s.Sort.Field))
		values.Set("dir", string(s.Sort.Direction))
	}
	if s.Page > types.DefaultPage {
		values.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize != types.DefaultPageSize {
		values.Set("size", strconv.Itoa(s.PageSize))
	}
	return values
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Encode returns the canonical query string for a state, "" when everything
// is at its default.
func Encode(s types.FilterState) string {
	return Values(s).Encode()
}

// ParseURL is a convenience wrapper for page-entry parsing.
func ParseURL(raw string, opts SyncOptions) (types.FilterState, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return types.DefaultFilterState(), fmt.Errorf("invalid url: %w", err)
	}
	return Parse(u.Query(), opts), nil
}
