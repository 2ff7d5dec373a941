// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fashionrec/internal/catalog"
)

// fakeCatalog serves recommendations from memory.
type fakeCatalog struct {
	mu       sync.Mutex
	rows     map[int64][]catalog.Product
	err      error
	pingErr  error
	calls    int
	lastSize int
}

func newFakeCatalog() *fakeCatalog {
	f := &fakeCatalog{rows: map[int64][]catalog.Product{}}
	for rank := 1; rank <= 30; rank++ {
		f.rows[101] = append(f.rows[101], catalog.Product{
			ID: int64(rank), InputItemID: 101, Rank: rank, ProductItemID: int64(200 + rank),
			ProductCategory: "Dresses", ProductName: "Dress", AvgPrice: ptr(10.0),
		})
	}
	f.rows[102] = []catalog.Product{{ID: 31, InputItemID: 102, Rank: 1, ProductItemID: 101, ProductCategory: "Tops", ProductName: "Top"}}
	return f
}

func (f *fakeCatalog) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.pingErr
}

func (f *fakeCatalog) InputItems(context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []int64{101, 102}, nil
}

func (f *fakeCatalog) ByInputItem(_ context.Context, id int64, limit int) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastSize = limit
	if f.err != nil {
		return nil, f.err
	}
	rows := f.rows[id]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return append([]catalog.Product{}, rows...), nil
}

func newTestRouter(c Catalog) http.Handler {
	return NewRouter(NewHandler(c, 20, "test"), RateLimitConfig{Disabled: true})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    struct {
		RequestID string `json:"request_id"`
		Count     *int   `json:"count"`
		Limit     int    `json:"limit"`
	} `json:"meta"`
}

func doRequest(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v (body %s)", target, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestRecommendations_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantRows  int
		wantLimit int
	}{
		{"default is max rows", "", 20, 20},
		{"smaller limit", "?limit=5", 5, 5},
		{"larger limit is capped", "?limit=500", 20, 20},
		{"zero means default", "?limit=0", 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fc := newFakeCatalog()
			rec, env := doRequest(t, newTestRouter(fc), "/api/v1/items/101/recommendations"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var body RecommendationsResponse
			if err := json.Unmarshal(env.Data, &body); err != nil {
				t.Fatal(err)
			}
			if len(body.Recommendations) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(body.Recommendations), tt.wantRows)
			}
			if fc.lastSize != tt.wantLimit || env.Meta.Limit != tt.wantLimit {
				t.Errorf("limit = (catalog %d, meta %d), want %d", fc.lastSize, env.Meta.Limit, tt.wantLimit)
			}
			if body.InputItemID != 101 {
				t.Errorf("input_itemid = %d, want 101", body.InputItemID)
			}
			for i, p := range body.Recommendations {
				if p.Rank != i+1 {
					t.Fatalf("row %d has rank %d", i, p.Rank)
				}
			}
		})
	}
}

func TestRecommendations_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"non numeric item", "/api/v1/items/abc/recommendations", http.StatusBadRequest, ErrCodeBadRequest},
		{"non numeric limit", "/api/v1/items/101/recommendations?limit=ten", http.StatusBadRequest, ErrCodeBadRequest},
		{"negative limit", "/api/v1/items/101/recommendations?limit=-1", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown item", "/api/v1/items/999/recommendations", http.StatusNotFound, ErrCodeNotFound},
		{"unknown route", "/api/v1/nothing", http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := doRequest(t, newTestRouter(newFakeCatalog()), tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if env.Success || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", env.Error, tt.code)
			}
			if env.Error != nil && env.Error.RequestID == "" {
				t.Error("error response carries no request id")
			}
		})
	}
}

func TestItems(t *testing.T) {
	t.Parallel()

	rec, env := doRequest(t, newTestRouter(newFakeCatalog()), "/api/v1/items")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ItemsResponse
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Items) != 2 || body.Items[0] != 101 || body.Items[1] != 102 {
		t.Errorf("items = %v, want [101 102]", body.Items)
	}
	if env.Meta.Count == nil || *env.Meta.Count != 2 {
		t.Errorf("meta count = %v, want 2", env.Meta.Count)
	}
}

func TestCatalogFailure(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	fc.err = errors.New("connection reset")
	rec, env := doRequest(t, newTestRouter(fc), "/api/v1/items")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeDatabaseError {
		t.Errorf("error = %+v", env.Error)
	}
	if env.Error != nil && env.Error.Message == "connection reset" {
		t.Error("internal error text leaked to the client")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	rec, env := doRequest(t, newTestRouter(fc), "/api/v1/health")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("healthy: status %d success %v", rec.Code, env.Success)
	}

	fc.pingErr = errors.New("down")
	rec, env = doRequest(t, newTestRouter(fc), "/api/v1/health")
	if rec.Code != http.StatusServiceUnavailable || env.Success {
		t.Fatalf("unhealthy: status %d success %v", rec.Code, env.Success)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	newTestRouter(newFakeCatalog()).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Errorf("response request id = %q, want req-123", got)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Meta.RequestID != "req-123" {
		t.Errorf("meta request id = %q, want req-123", env.Meta.RequestID)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	h := NewRouter(NewHandler(newFakeCatalog(), 20, "test"), RateLimitConfig{Requests: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		if rec, _ := doRequest(t, h, "/api/v1/items"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rec.Code)
		}
	}
	rec, env := doRequest(t, h, "/api/v1/items")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", env.Error)
	}

	// Health stays available.
	if rec, _ := doRequest(t, h, "/api/v1/health"); rec.Code != http.StatusOK {
		t.Errorf("health status %d while rate limited", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestRouter(newFakeCatalog())
	doRequest(t, h, "/api/v1/items")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !containsLine(body, "fashionrec_api_requests_total") {
		t.Error("api request counter not exposed")
	}
}

func containsLine(body, prefix string) bool {
	for i := 0; i+len(prefix) <= len(body); i++ {
		if (i == 0 || body[i-1] == '\n') && body[i:i+len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T { return &v }
