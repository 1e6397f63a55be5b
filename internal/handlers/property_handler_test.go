package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bmizerany/pat"
	_ "modernc.org/sqlite"

	"propertyBack/internal/cache"
	"propertyBack/internal/models"
	"propertyBack/internal/repositories"
	"propertyBack/internal/services"
)

type testEnv struct {
	mux   *pat.PatternServeMux
	mr    *miniredis.Miniredis
	db    *sql.DB
	store *cache.RedisStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := repositories.EnsureSchema(context.Background(), db, "sqlite"); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	mr := miniredis.RunT(t)
	store := cache.NewRedisStore(cache.RedisOptions{Addr: mr.Addr()})
	t.Cleanup(func() { _ = store.Close() })

	h := &PropertyHandler{Service: &services.PropertyService{
		PropertyRepo: repositories.NewPropertyRepository(db, "sqlite"),
		Cache:        store,
	}}
	health := &HealthHandler{DB: db, Cache: store}

	mux := pat.New()
	mux.Get("/properties/:id", http.HandlerFunc(h.GetPropertyByID))
	mux.Get("/properties/", http.HandlerFunc(h.ListProperties))
	mux.Post("/properties/", http.HandlerFunc(h.CreateProperty))
	mux.Del("/properties/:id", http.HandlerFunc(h.DeleteProperty))
	mux.Get("/healthz", http.HandlerFunc(health.Healthz))

	return &testEnv{mux: mux, mr: mr, db: db, store: store}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func TestListPropertiesEnvelope(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/properties/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var resp models.PropertyListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Fatalf("expected the two sample properties, got %+v", resp)
	}
	if !env.mr.Exists(services.AllPropertiesKey) {
		t.Fatal("expected query-level cache to be populated")
	}

	// second call is served from the cache even if the table disappears
	if _, err := env.db.Exec(`DROP TABLE properties`); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	rec = env.do(t, http.MethodGet, "/properties/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cached 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected cached count 2, got %d", resp.Count)
	}
}

func TestListPropertiesStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.db.Exec(`DROP TABLE properties`); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/properties/", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCreateGetDeleteProperty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/properties/", `{"property_id":"villa-1","title":"Villa","description":"Sea view","price":250000,"location":"Coast"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/properties/", `{"property_id":"villa-1","title":"Villa again"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate id, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/properties/", `{"title":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/properties/", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/properties/villa-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var p models.Property
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Title != "Villa" || p.Price != 250000 {
		t.Fatalf("unexpected property %+v", p)
	}

	rec = env.do(t, http.MethodDelete, "/properties/villa-1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/properties/villa-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/properties/villa-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	env.mr.Close()
	rec = env.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with cache down, got %d", rec.Code)
	}
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", models.ErrNoRecord, http.StatusNotFound},
		{"invalid", models.ErrInvalidProperty, http.StatusBadRequest},
		{"duplicate", models.ErrDuplicateProperty, http.StatusConflict},
		{"stats unsupported", cache.ErrStatsUnsupported, http.StatusNotImplemented},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorStatus(tc.err); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
