package store

import (
	"strings"
	"sync"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Subscriber receives every successful mutation's resulting snapshot, in
// mutation order. Subscribers must not call back into the store.
type Subscriber func(types.FilterState)

type StoreOptions struct {
	// Upper bound substituted when only a minimum price is given. Business
	// configuration, not an algorithmic constant.
	MaxPrice float64
	Initial  *types.FilterState
}

func DefaultStoreOptions() StoreOptions {
	return StoreOptions{MaxPrice: 10000}
}

// FilterStore is the single owner of the current FilterState. All facet
// changes pass through it, invalid mutations are rejected without applying
// anything and every facet mutation except SetPage resets the page to 1.
type FilterStore struct {
	mu          sync.Mutex
	state       types.FilterState
	maxPrice    float64
	subscribers map[int]Subscriber
	nextSub     int
}

func NewFilterStore(opts StoreOptions) *FilterStore {
	if opts.MaxPrice <= 0 {
		opts.MaxPrice = DefaultStoreOptions().MaxPrice
	}
	state := types.DefaultFilterState()
	if opts.Initial != nil {
		state = *opts.Initial
	}
	return &FilterStore{
		state:       state,
		maxPrice:    opts.MaxPrice,
		subscribers: map[int]Subscriber{},
	}
}

// Subscribe registers fn and returns an unsubscribe function.
func (f *FilterStore) Subscribe(fn Subscriber) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subscribers[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, id)
	}
}

func (f *FilterStore) State() types.FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// apply runs the mutation under the lock so validate, apply and notify
// complete before the next mutation starts.
func (f *FilterStore) apply(resetPage bool, mutate func(*types.FilterState) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.state
	if err := mutate(&next); err != nil {
		return err
	}
	if resetPage {
		next.Page = 1
	}
	f.state = next
	for _, fn := range f.subscribers {
		fn(next)
	}
	return nil
}

// SetCategory replaces the category, or clears it when slug equals the
// current one (toggle semantics).
func (f *FilterStore) SetCategory(slug string) error {
	return f.apply(true, func(s *types.FilterState) error {
		if s.Category == slug {
			s.Category = ""
		} else {
			s.Category = slug
		}
		return nil
	})
}

// SetPriceRange normalizes one-sided input: a missing max falls back to the
// configured upper bound, a missing min to 0. An inverted range is rejected
// and nothing is applied.
func (f *FilterStore) SetPriceRange(min, max *float64) error {
	return f.apply(true, func(s *types.FilterState) error {
		if min == nil && max == nil {
			s.PriceRange = nil
			return nil
		}
		lo := 0.0
		hi := f.maxPrice
		if min != nil {
			lo = *min
		}
		if max != nil {
			hi = *max
		}
		if lo > hi {
			return types.ErrPriceRangeInverted
		}
		s.PriceRange = &types.PriceRange{Min: lo, Max: hi}
		return nil
	})
}

// SetRatingFloor has the same toggle semantics as SetCategory.
func (f *FilterStore) SetRatingFloor(n int) error {
	return f.apply(true, func(s *types.FilterState) error {
		if n < 1 || n > 5 {
			return types.ErrInvalidRating
		}
		if s.RatingFloor == n {
			s.RatingFloor = 0
		} else {
			s.RatingFloor = n
		}
		return nil
	})
}

// ToggleFlag flips a boolean facet between set-true and absent.
func (f *FilterStore) ToggleFlag(flag types.FlagName) error {
	return f.apply(true, func(s *types.FilterState) error {
		switch flag {
		case types.FlagInStock:
			s.InStock = !s.InStock
		case types.FlagFeatured:
			s.Featured = !s.Featured
		case types.FlagTrending:
			s.Trending = !s.Trending
		default:
			return types.ErrUnknownFlag
		}
		return nil
	})
}

// SetSearchQuery stores the trimmed term, an empty result clears the facet.
// Callers are expected to debounce raw keystrokes before calling this.
func (f *FilterStore) SetSearchQuery(text string) error {
	return f.apply(true, func(s *types.FilterState) error {
		s.SearchQuery = strings.TrimSpace(text)
		return nil
	})
}

func (f *FilterStore) SetSort(field types.SortField, direction types.SortDirection) error {
	return f.apply(true, func(s *types.FilterState) error {
		if !types.ValidSortField(field) || !types.ValidSortDirection(direction) {
			return types.ErrInvalidSort
		}
		s.Sort = types.Sort{Field: field, Direction: direction}
		return nil
	})
}

// SetPage is the only mutation that does not reset the page.
func (f *FilterStore) SetPage(n int) error {
	return f.apply(false, func(s *types.FilterState) error {
		if n < 1 {
			return types.ErrInvalidPage
		}
		s.Page = n
		return nil
	})
}

// SetPageSize is explicit pagination control, facet changes never touch the
// page size.
func (f *FilterStore) SetPageSize(n int) error {
	return f.apply(true, func(s *types.FilterState) error {
		if n < 1 {
			return types.ErrInvalidPageSize
		}
		s.PageSize = n
		return nil
	})
}

// ClearAll resets every facet and the sort to defaults. Applying it twice
// yields the same state as applying it once.
func (f *FilterStore) ClearAll() error {
	return f.apply(true, func(s *types.FilterState) error {
		size := s.PageSize
		*s = types.DefaultFilterState()
		s.PageSize = size
		return nil
	})
}

// RemoveFacet clears one active facet regardless of its current value,
// used by "remove chip" style controls.
func (f *FilterStore) RemoveFacet(key types.FacetKey) error {
	return f.apply(true, func(s *types.FilterState) error {
		switch key {
		case types.FacetCategory:
			s.Category = ""
		case types.FacetPrice:
			s.PriceRange = nil
		case types.FacetRating:
			s.RatingFloor = 0
		case types.FacetInStock:
			s.InStock = false
		case types.FacetFeatured:
			s.Featured = false
		case types.FacetTrending:
			s.Trending = false
		case types.FacetQuery:
			s.SearchQuery = ""
		default:
			return types.ErrUnknownFacet
		}
		return nil
	})
}
