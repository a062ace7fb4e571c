package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/terryberlin/carbonmenu/internal/catalog"
	"github.com/terryberlin/carbonmenu/internal/menu"
	"github.com/terryberlin/carbonmenu/internal/resolve"
	"github.com/terryberlin/carbonmenu/pkg/config"
	"github.com/terryberlin/carbonmenu/pkg/logger"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	itemID := uuid.New()
	cat, err := catalog.Build(&menu.Menu{Items: []menu.Item{
		{ID: itemID, LongName: "Taco", Price: 299, Tags: []string{"taco"}},
	}})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	cfg := &config.Config{
		App:   config.AppConfig{Env: "dev", Port: "8080"},
		Menu:  config.MenuConfig{Version: "test"},
		Quote: config.QuoteConfig{CacheTTL: time.Minute},
	}
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(cfg, logg, cat, resolve.New(cat), nil, prometheus.NewRegistry())
}

func TestRouterWiring(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/menu/items", http.StatusOK},
		{http.MethodGet, "/api/v1/menu/categories", http.StatusOK},
		{http.MethodGet, "/api/v1/menu/discounts", http.StatusOK},
		{http.MethodGet, "/api/v1/menu/pricing", http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.target, resp.Code, tc.status)
		}
	}
}

func TestRouterQuoteAndRequestID(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(`{"lines":[]}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("empty lines should 400, got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("request id header missing")
	}
}
