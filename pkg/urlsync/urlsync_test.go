package urlsync

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matst80/slask-storefront/pkg/types"
)

func TestRoundTrip(t *testing.T) {
	state := types.DefaultFilterState()
	state.Category = "fashion"
	state.PriceRange = &types.PriceRange{Min: 50, Max: 200}
	state.RatingFloor = 4
	state.Sort = types.Sort{Field: types.SortPrice, Direction: types.SortAsc}
	state.Page = 1

	parsed := Parse(Values(state), DefaultSyncOptions())
	if diff := cmp.Diff(state, parsed); diff != "" {
		t.Errorf("Round trip changed the state: %s", diff)
	}
}

func TestRoundTripAllFacets(t *testing.T) {
	state := types.DefaultFilterState()
	state.Category = "electronics"
	state.PriceRange = &types.PriceRange{Min: 0, Max: 99.99}
	state.RatingFloor = 3
	state.InStock = true
	state.Featured = true
	state.Trending = true
	state.SearchQuery = "wireless"
	state.Sort = types.Sort{Field: types.SortTrendScore, Direction: types.SortAsc}
	state.Page = 4
	state.PageSize = 24

	parsed := Parse(Values(state), DefaultSyncOptions())
	if diff := cmp.Diff(state, parsed); diff != "" {
		t.Errorf("Round trip changed the state: %s", diff)
	}
}

func TestDefaultStateSerializesToNothing(t *testing.T) {
	if got := Encode(types.DefaultFilterState()); got != "" {
		t.Errorf("Expected empty query string for defaults, got %q", got)
	}
}

func TestParseDefaults(t *testing.T) {
	state := Parse(url.Values{}, DefaultSyncOptions())
	if !state.Equal(types.DefaultFilterState()) {
		t.Errorf("Expected default state from empty query, got %+v", state)
	}
}

func TestParseIgnoresUnknownParams(t *testing.T) {
	values := url.Values{
		"category": []string{"fashion"},
		"utm":      []string{"campaign"},
		"gclid":    []string{"abc"},
	}
	state := Parse(values, DefaultSyncOptions())
	if state.Category != "fashion" {
		t.Errorf("Expected category fashion, got %q", state.Category)
	}
}

func TestParseInvalidFallsBackSilently(t *testing.T) {
	values := url.Values{
		"rating":   []string{"17"},
		"page":     []string{"-2"},
		"minPrice": []string{"banana"},
		"sort":     []string{"popularity"},
		"dir":      []string{"sideways"},
	}
	state := Parse(values, DefaultSyncOptions())
	if state.RatingFloor != 0 {
		t.Errorf("Expected out-of-range rating dropped, got %d", state.RatingFloor)
	}
	if state.Page != 1 {
		t.Errorf("Expected invalid page to fall back to 1, got %d", state.Page)
	}
	if state.PriceRange != nil {
		t.Errorf("Expected malformed price ignored, got %+v", state.PriceRange)
	}
	if state.Sort != types.DefaultSort() {
		t.Errorf("Expected default sort, got %+v", state.Sort)
	}
}

func TestParseOneSidedPrice(t *testing.T) {
	values := url.Values{"minPrice": []string{"100"}}
	state := Parse(values, SyncOptions{MaxPrice: 5000})
	if state.PriceRange == nil || state.PriceRange.Min != 100 || state.PriceRange.Max != 5000 {
		t.Errorf("Expected (100,5000), got %+v", state.PriceRange)
	}
}

func TestParseInvertedPriceDropped(t *testing.T) {
	values := url.Values{"minPrice": []string{"200"}, "maxPrice": []string{"50"}}
	state := Parse(values, DefaultSyncOptions())
	if state.PriceRange != nil {
		t.Errorf("Expected inverted range dropped, got %+v", state.PriceRange)
	}
}
