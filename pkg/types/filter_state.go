package types

import (
	"errors"
	"strings"
)

type SortField string

const (
	SortCreatedAt  SortField = "createdAt"
	SortPrice      SortField = "price"
	SortRating     SortField = "rating"
	SortTrendScore SortField = "trendScore"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Sort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type FlagName string

const (
	FlagInStock  FlagName = "inStock"
	FlagFeatured FlagName = "featured"
	FlagTrending FlagName = "trending"
)

type FacetKey string

const (
	FacetCategory FacetKey = "category"
	FacetPrice    FacetKey = "price"
	FacetRating   FacetKey = "rating"
	FacetInStock  FacetKey = FacetKey(FlagInStock)
	FacetFeatured FacetKey = FacetKey(FlagFeatured)
	FacetTrending FacetKey = FacetKey(FlagTrending)
	FacetQuery    FacetKey = "q"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
)

var (
	ErrPriceRangeInverted = errors.New("price range min is larger than max")
	ErrInvalidPage        = errors.New("page must be a positive integer")
	ErrInvalidPageSize    = errors.New("page size must be a positive integer")
	ErrInvalidRating      = errors.New("rating floor must be between 1 and 5")
	ErrInvalidSort        = errors.New("unknown sort field or direction")
	ErrUnknownFlag        = errors.New("unknown flag")
	ErrUnknownFacet       = errors.New("unknown facet key")
)

// FilterState is the full snapshot of active facets plus sort and pagination.
// A facet is either absent (zero value) or holds a valid value, absence is
// the canonical "no constraint". Values are replaced, never mutated in place.
type FilterState struct {
	Category    string      `json:"category,omitempty"`
	PriceRange  *PriceRange `json:"priceRange,omitempty"`
	RatingFloor int         `json:"ratingFloor,omitempty"`
	InStock     bool        `json:"inStock,omitempty"`
	Featured    bool        `json:"featured,omitempty"`
	Trending    bool        `json:"trending,omitempty"`
	SearchQuery string      `json:"searchQuery,omitempty"`
	Sort        Sort        `json:"sort"`
	Page        int         `json:"page"`
	PageSize    int         `json:"pageSize"`
}

func DefaultSort() Sort {
	return Sort{Field: SortCreatedAt, Direction: SortDesc}
}

func DefaultFilterState() FilterState {
	return FilterState{
		Sort:     DefaultSort(),
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

func ValidSortField(f SortField) bool {
	switch f {
	case SortCreatedAt, SortPrice, SortRating, SortTrendScore:
		return true
	}
	return false
}

func ValidSortDirection(d SortDirection) bool {
	return d == SortAsc || d == SortDesc
}

func (s FilterState) Equal(o FilterState) bool {
	if s.Category != o.Category ||
		s.RatingFloor != o.RatingFloor ||
		s.InStock != o.InStock ||
		s.Featured != o.Featured ||
		s.Trending != o.Trending ||
		s.SearchQuery != o.SearchQuery ||
		s.Sort != o.Sort ||
		s.Page != o.Page ||
		s.PageSize != o.PageSize {
		return false
	}
	if (s.PriceRange == nil) != (o.PriceRange == nil) {
		return false
	}
	if s.PriceRange != nil && *s.PriceRange != *o.PriceRange {
		return false
	}
	return true
}

// HasFacet reports whether the given facet is currently active, sort and
// pagination are not facets.
func (s FilterState) HasFacet(key FacetKey) bool {
	switch key {
	case FacetCategory:
		return s.Category != ""
	case FacetPrice:
		return s.PriceRange != nil
	case FacetRating:
		return s.RatingFloor > 0
	case FacetInStock:
		return s.InStock
	case FacetFeatured:
		return s.Featured
	case FacetTrending:
		return s.Trending
	case FacetQuery:
		return strings.TrimSpace(s.SearchQuery) != ""
	}
	return false
}
