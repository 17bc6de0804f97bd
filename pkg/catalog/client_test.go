package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matst80/slask-storefront/pkg/query"
	"github.com/matst80/slask-storefront/pkg/types"
)

func TestQuerySendsWireFormat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/query" {
			t.Errorf("Expected query endpoint, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Expected json body, got %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":1,"name":"Buds","price":59.5,"quantity":3,"createdAt":"2024-01-02T00:00:00Z"}],"meta":{"pagination":{"page":1,"pageSize":12,"pageCount":1,"total":1}}}`))
	}))
	defer srv.Close()

	compiler := query.NewCompiler(query.DefaultCompilerOptions())
	state := types.DefaultFilterState()
	state.Category = "electronics"
	state.PriceRange = &types.PriceRange{Min: 50, Max: 200}
	state.RatingFloor = 4
	state.InStock = true
	state.SearchQuery = "buds"

	client := NewClient(srv.URL, DefaultClientOptions())
	items, pagination, err := client.Query(context.Background(), compiler.Compile(state))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].Name != "Buds" {
		t.Errorf("Expected one product Buds, got %+v", items)
	}
	if pagination.Total != 1 || pagination.PageSize != 12 {
		t.Errorf("Expected pagination meta parsed, got %+v", pagination)
	}

	filters, ok := body["filters"].(map[string]any)
	if !ok {
		t.Fatalf("Expected filters map, got %v", body["filters"])
	}
	if filters["category"] != "electronics" {
		t.Errorf("Expected category clause, got %v", filters["category"])
	}
	price, ok := filters["price"].(map[string]any)
	if !ok || price["gte"] != 50.0 || price["lte"] != 200.0 {
		t.Errorf("Expected price range clause, got %v", filters["price"])
	}
	rating, ok := filters["rating"].(map[string]any)
	if !ok || rating["gte"] != 4.0 {
		t.Errorf("Expected rating floor clause, got %v", filters["rating"])
	}
	stock, ok := filters["stock"].(map[string]any)
	if !ok || stock["gt"] != 0.0 {
		t.Errorf("Expected stock clause, got %v", filters["stock"])
	}
	or, ok := filters["$or"].([]any)
	if !ok || len(or) != 3 {
		t.Fatalf("Expected free text OR over 3 fields, got %v", filters["$or"])
	}
	first, ok := or[0].(map[string]any)
	if !ok {
		t.Fatalf("Expected contains clause, got %v", or[0])
	}
	name, ok := first["name"].(map[string]any)
	if !ok || name["contains"] != "buds" {
		t.Errorf("Expected name contains buds, got %v", or[0])
	}

	if body["sort"] != "createdAt:desc" {
		t.Errorf("Expected sort passthrough, got %v", body["sort"])
	}
	pg, ok := body["pagination"].(map[string]any)
	if !ok || pg["page"] != 1.0 || pg["pageSize"] != 12.0 {
		t.Errorf("Expected pagination passthrough, got %v", body["pagination"])
	}
}

func TestQuerySurfacesRepositoryErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultClientOptions())
	compiler := query.NewCompiler(query.DefaultCompilerOptions())
	_, _, err := client.Query(context.Background(), compiler.Compile(types.DefaultFilterState()))
	if err == nil {
		t.Fatal("Expected an error for a failed repository query")
	}
}
