package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/matst80/slask-storefront/pkg/query"
	"github.com/matst80/slask-storefront/pkg/types"
)

// Client talks to the content repository over its query endpoint. It is the
// only wire boundary in scope, everything else treats the repository as an
// opaque collaborator.
type Client struct {
	baseUrl string
	client  *http.Client
}

type ClientOptions struct {
	Timeout time.Duration
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{Timeout: 10 * time.Second}
}

func NewClient(baseUrl string, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultClientOptions().Timeout
	}
	return &Client{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

type wireRequest struct {
	Filters    map[string]any `json:"filters"`
	Sort       string         `json:"sort"`
	Pagination query.Window   `json:"pagination"`
}

type wireResponse struct {
	Data []types.Product `json:"data"`
	Meta struct {
		Pagination types.Pagination `json:"pagination"`
	} `json:"meta"`
}

// wireFilters flattens the compiled clause set into the repository's facet
// clause map. The free-text clause becomes an OR of contains-matches across
// its fields, every other clause conjoins.
func wireFilters(f query.Filters) map[string]any {
	filters := map[string]any{}
	if f.Category != "" {
		filters["category"] = f.Category
	}
	if f.Price != nil {
		filters["price"] = map[string]any{"gte": f.Price.Gte, "lte": f.Price.Lte}
	}
	if f.Rating != nil {
		filters["rating"] = map[string]any{"gte": f.Rating.Gte}
	}
	if f.Stock != nil {
		filters["stock"] = map[string]any{"gt": f.Stock.Gt}
	}
	if f.Featured {
		filters["featured"] = true
	}
	if f.Trending {
		filters["trending"] = true
	}
	if f.Search != nil {
		or := make([]map[string]any, 0, len(f.Search.Fields))
		for _, field := range f.Search.Fields {
			or = append(or, map[string]any{field: map[string]any{"contains": f.Search.Term}})
		}
		filters["$or"] = or
	}
	return filters
}

// Query executes a compiled query and returns the page of products plus
// pagination metadata. Errors are surfaced as-is, retrying is the caller's
// decision.
func (c *Client) Query(ctx context.Context, cq query.CompiledQuery) ([]types.Product, types.Pagination, error) {
	body, err := sonic.Marshal(wireRequest{
		Filters:    wireFilters(cq.Filters),
		Sort:       cq.Sort,
		Pagination: cq.Pagination,
	})
	if err != nil {
		return nil, types.Pagination{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/api/products/query", bytes.NewReader(body))
	if err != nil {
		return nil, types.Pagination{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, types.Pagination{}, fmt.Errorf("repository query failed with status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	var parsed wireResponse
	if err := sonic.Unmarshal(data, &parsed); err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to decode repository response: %w", err)
	}
	return parsed.Data, parsed.Meta.Pagination, nil
}
