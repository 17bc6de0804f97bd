package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

// SearchFields are the text fields a free-text term is matched against,
// combined with OR inside the clause and AND against every other facet.
var SearchFields = []string{"name", "description", "shortDescription"}

type RangeClause struct {
	Gte float64 `json:"gte"`
	Lte float64 `json:"lte"`
}

type FloorClause struct {
	Gte int `json:"gte"`
}

type StockClause struct {
	Gt int `json:"gt"`
}

type TextClause struct {
	Term   string   `json:"term"`
	Fields []string `json:"fields"`
}

// Filters is the closed set of facet clauses. Every present clause narrows
// the result set, there is no OR-combination across distinct facets.
type Filters struct {
	Category string       `json:"category,omitempty"`
	Price    *RangeClause `json:"price,omitempty"`
	Rating   *FloorClause `json:"rating,omitempty"`
	Stock    *StockClause `json:"stock,omitempty"`
	Featured bool         `json:"featured,omitempty"`
	Trending bool         `json:"trending,omitempty"`
	Search   *TextClause  `json:"search,omitempty"`
}

type Window struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// CompiledQuery is the repository-ready structure derived from a FilterState
// snapshot. Structurally equal snapshots compile to deeply equal values,
// Key() is the identity the result cache is keyed on.
type CompiledQuery struct {
	Filters    Filters `json:"filters"`
	Sort       string  `json:"sort"`
	Pagination Window  `json:"pagination"`
}

type CompilerOptions struct {
	// Terms shorter than this compile to no search clause, so a short term
	// shares its cache key with the unfiltered listing and never triggers an
	// extra repository query.
	MinQueryLength int
}

func DefaultCompilerOptions() CompilerOptions {
	return CompilerOptions{MinQueryLength: 2}
}

type Compiler struct {
	opts CompilerOptions
}

func NewCompiler(opts CompilerOptions) *Compiler {
	if opts.MinQueryLength < 1 {
		opts.MinQueryLength = 1
	}
	return &Compiler{opts: opts}
}

// Compile is pure and never fails for well-formed state. Invariant
// violations that slip past the store (inverted price range, non-positive
// page) are clamped or dropped rather than crashing the request.
func (c *Compiler) Compile(s types.FilterState) CompiledQuery {
	cq := CompiledQuery{
		Sort:       sortKey(s.Sort),
		Pagination: Window{Page: clamp(s.Page, 1, 10000), PageSize: clamp(s.PageSize, 1, 1000)},
	}
	if s.PageSize < 1 {
		cq.Pagination.PageSize = types.DefaultPageSize
	}

	if s.Category != "" {
		cq.Filters.Category = s.Category
	}
	if s.PriceRange != nil && s.PriceRange.Min <= s.PriceRange.Max {
		cq.Filters.Price = &RangeClause{Gte: s.PriceRange.Min, Lte: s.PriceRange.Max}
	}
	if s.RatingFloor > 0 {
		cq.Filters.Rating = &FloorClause{Gte: clamp(s.RatingFloor, 1, 5)}
	}
	if s.InStock {
		cq.Filters.Stock = &StockClause{Gt: 0}
	}
	cq.Filters.Featured = s.Featured
	cq.Filters.Trending = s.Trending

	if term := strings.TrimSpace(s.SearchQuery); len([]rune(term)) >= c.opts.MinQueryLength {
		cq.Filters.Search = &TextClause{Term: term, Fields: SearchFields}
	}
	return cq
}

func sortKey(s types.Sort) string {
	field := s.Field
	if !types.ValidSortField(field) {
		field = types.SortCreatedAt
	}
	dir := s.Direction
	if !types.ValidSortDirection(dir) {
		dir = types.SortDesc
	}
	return fmt.Sprintf("%s:%s", field, dir)
}

// Key returns a canonical identity string. Clauses are written in a fixed
// order so equal queries always produce the same key, user-influenced
// values are escaped so they cannot forge the delimiters.
func (q CompiledQuery) Key() string {
	var b strings.Builder
	if q.Filters.Category != "" {
		fmt.Fprintf(&b, "cat=%s;", url.QueryEscape(q.Filters.Category))
	}
	if q.Filters.Price != nil {
		fmt.Fprintf(&b, "price=%g-%g;", q.Filters.Price.Gte, q.Filters.Price.Lte)
	}
	if q.Filters.Rating != nil {
		fmt.Fprintf(&b, "rating=%d;", q.Filters.Rating.Gte)
	}
	if q.Filters.Stock != nil {
		fmt.Fprintf(&b, "stock=%d;", q.Filters.Stock.Gt)
	}
	if q.Filters.Featured {
		b.WriteString("featured;")
	}
	if q.Filters.Trending {
		b.WriteString("trending;")
	}
	if q.Filters.Search != nil {
		fmt.Fprintf(&b, "q=%s;", url.QueryEscape(q.Filters.Search.Term))
	}
	fmt.Fprintf(&b, "sort=%s;page=%d;size=%d", q.Sort, q.Pagination.Page, q.Pagination.PageSize)
	return b.String()
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
