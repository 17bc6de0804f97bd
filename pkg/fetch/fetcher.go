package fetch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/matst80/slask-storefront/pkg/query"
	"github.com/matst80/slask-storefront/pkg/types"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_result_cache_hits_total",
		Help: "The number of fetches served from the result cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_result_cache_misses_total",
		Help: "The number of fetches that reached the repository",
	})
	staleDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_stale_responses_dropped_total",
		Help: "The number of late responses discarded for superseded queries",
	})
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Source executes a compiled query against the content repository.
type Source interface {
	Query(ctx context.Context, cq query.CompiledQuery) ([]types.Product, types.Pagination, error)
}

type Result struct {
	Status     Status           `json:"status"`
	Items      []types.Product  `json:"items"`
	Pagination types.Pagination `json:"pagination"`
	Err        error            `json:"-"`
}

type cachedResult struct {
	Items      []types.Product  `json:"items"`
	Pagination types.Pagination `json:"pagination"`
}

type FetcherOptions struct {
	// Freshness window: repeated fetches for the same key inside it never
	// re-issue the repository request.
	TTL time.Duration
}

func DefaultFetcherOptions() FetcherOptions {
	return FetcherOptions{TTL: time.Minute}
}

// Fetcher maps compiled queries to cached or in-flight results. Identity is
// the query's Key(), concurrent fetches for one key share a single request
// and the most recently requested key always owns the displayed result.
type Fetcher struct {
	mu         sync.Mutex
	source     Source
	cache      *Cache
	ttl        time.Duration
	group      singleflight.Group
	currentKey string
	current    Result
}

func NewFetcher(source Source, cache *Cache, opts FetcherOptions) *Fetcher {
	if opts.TTL <= 0 {
		opts.TTL = DefaultFetcherOptions().TTL
	}
	return &Fetcher{
		source:  source,
		cache:   cache,
		ttl:     opts.TTL,
		current: Result{Status: StatusIdle},
	}
}

// Fetch makes cq the current query and returns the immediately available
// result. On a cache miss the previous items stay visible with a loading
// status while the request resolves in the background, a late resolution
// for a key that is no longer current is dropped.
func (f *Fetcher) Fetch(ctx context.Context, cq query.CompiledQuery) Result {
	key := cq.Key()
	f.mu.Lock()
	f.currentKey = key
	var cached cachedResult
	if f.cache.Get(ctx, key, &cached) == nil {
		f.current = Result{Status: StatusSuccess, Items: cached.Items, Pagination: cached.Pagination}
		snapshot := f.current
		f.mu.Unlock()
		cacheHits.Inc()
		return snapshot
	}
	f.current.Status = StatusLoading
	f.current.Err = nil
	snapshot := f.current
	f.mu.Unlock()
	cacheMisses.Inc()

	go f.resolve(ctx, key, cq)
	return snapshot
}

// FetchSync resolves cq and waits for the answer, used by request-scoped
// callers like the HTTP edge. It shares the cache and in-flight requests
// with Fetch but never touches the current handle.
func (f *Fetcher) FetchSync(ctx context.Context, cq query.CompiledQuery) (Result, error) {
	key := cq.Key()
	var cached cachedResult
	if f.cache.Get(ctx, key, &cached) == nil {
		cacheHits.Inc()
		return Result{Status: StatusSuccess, Items: cached.Items, Pagination: cached.Pagination}, nil
	}
	cacheMisses.Inc()
	entry, err := f.load(ctx, key, cq)
	if err != nil {
		return Result{Status: StatusError, Err: err}, err
	}
	return Result{Status: StatusSuccess, Items: entry.Items, Pagination: entry.Pagination}, nil
}

// Current returns the result for the most recently fetched key. A failed
// fetch keeps the previous items visible alongside the error status.
func (f *Fetcher) Current() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *Fetcher) load(ctx context.Context, key string, cq query.CompiledQuery) (cachedResult, error) {
	v, err, _ := f.group.Do(key, func() (any, error) {
		// another flight may have filled the cache between the miss and now
		var cached cachedResult
		if f.cache.Get(ctx, key, &cached) == nil {
			return cached, nil
		}
		items, pagination, err := f.source.Query(ctx, cq)
		if err != nil {
			return nil, err
		}
		entry := cachedResult{Items: items, Pagination: pagination}
		if cacheErr := f.cache.Set(ctx, key, entry, f.ttl); cacheErr != nil {
			log.Printf("Failed to cache result for %s: %v", key, cacheErr)
		}
		return entry, nil
	})
	if err != nil {
		return cachedResult{}, err
	}
	return v.(cachedResult), nil
}

func (f *Fetcher) resolve(ctx context.Context, key string, cq query.CompiledQuery) {
	entry, err := f.load(ctx, key, cq)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.currentKey != key {
		staleDropped.Inc()
		return
	}
	if err != nil {
		f.current.Status = StatusError
		f.current.Err = err
		return
	}
	f.current = Result{Status: StatusSuccess, Items: entry.Items, Pagination: entry.Pagination}
}
