// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee/internal/auth"
	"github.com/marqueehq/marquee/internal/compose"
	"github.com/marqueehq/marquee/internal/config"
	"github.com/marqueehq/marquee/internal/database"
	"github.com/marqueehq/marquee/internal/models"
	"github.com/marqueehq/marquee/internal/recommend"
)

// testDBSemaphore serializes database-backed handler tests; concurrent
// DuckDB CGO calls can hang under resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

type testEnv struct {
	db     *database.DB
	router http.Handler
}

func testConfig(authMode string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8480,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"},
		Compose: config.ComposeConfig{
			SectionTimeout:   5 * time.Second,
			DefaultItemLimit: 0,
			MaxItemLimit:     200,
			CacheTTL:         time.Minute,
		},
		Security: config.SecurityConfig{
			AuthMode:          authMode,
			JWTSecret:         "test-secret-key-that-is-long-enough!",
			SessionTimeout:    time.Hour,
			AdminUsername:     "admin",
			AdminPassword:     "correct-horse-battery",
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
	}
}

func setupTestAPI(t *testing.T, authMode string) *testEnv {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := testConfig(authMode)

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	composeSvc := compose.New(db, recommend.NewDBProvider(db), &cfg.Compose)

	var jwtManager *auth.JWTManager
	if authMode == "jwt" {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			t.Fatalf("failed to create JWT manager: %v", err)
		}
	}

	handler := NewHandler(db, composeSvc, cfg, jwtManager)
	authMW := auth.NewMiddleware(jwtManager, nil, authMode)
	router := NewRouter(handler, authMW, NewChiMiddleware(NewChiMiddlewareConfig(&cfg.Security)))

	return &testEnv{db: db, router: router.Setup()}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

// seedHomePage creates a page with one section and two active placements.
func seedHomePage(t *testing.T, env *testEnv) (models.Page, models.Section, []models.Content) {
	t.Helper()
	ctx := context.Background()

	page := models.Page{Name: "home", Title: "Home"}
	if err := env.db.InsertPage(ctx, &page); err != nil {
		t.Fatalf("failed to insert page: %v", err)
	}

	section := models.Section{PageID: page.ID, Name: "featured", Title: "Featured", Position: 0}
	if err := env.db.InsertSection(ctx, &section); err != nil {
		t.Fatalf("failed to insert section: %v", err)
	}

	var entries []models.Content
	for i, title := range []string{"Alpha", "Beta"} {
		c := models.Content{Title: title, Category: models.ContentCategoryMovie, Status: models.ContentStatusPublished}
		if err := env.db.InsertContent(ctx, &c); err != nil {
			t.Fatalf("failed to insert content: %v", err)
		}
		p := models.ContentPlacement{ContentID: c.ID, SectionID: section.ID, Priority: i}
		if err := env.db.InsertPlacement(ctx, &p); err != nil {
			t.Fatalf("failed to insert placement: %v", err)
		}
		entries = append(entries, c)
	}

	return page, section, entries
}

func TestComposePageEndpoint(t *testing.T) {
	env := setupTestAPI(t, "none")
	_, _, entries := seedHomePage(t, env)

	rec := env.do(t, http.MethodGet, "/api/v1/pages/home", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if resp.Status != "success" {
		t.Fatalf("expected success, got %+v", resp)
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("failed to re-marshal data: %v", err)
	}
	var view models.PageView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("failed to decode page view: %v", err)
	}

	if view.Name != "home" {
		t.Errorf("expected page home, got %q", view.Name)
	}
	if len(view.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(view.Sections))
	}
	items := view.Sections[0].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ContentID != entries[0].ID {
		t.Errorf("expected priority 0 item first, got %s", items[0].Title)
	}
}

func TestComposePageNotFound(t *testing.T) {
	env := setupTestAPI(t, "none")

	rec := env.do(t, http.MethodGet, "/api/v1/pages/missing", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND error, got %+v", resp.Error)
	}
}

func TestComposePageMalformedInstant(t *testing.T) {
	env := setupTestAPI(t, "none")
	seedHomePage(t, env)

	rec := env.do(t, http.MethodGet, "/api/v1/pages/home?at=yesterday", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %+v", resp.Error)
	}
}

func TestComposePagePreviewInstant(t *testing.T) {
	env := setupTestAPI(t, "none")
	_, section, _ := seedHomePage(t, env)

	// Placement that only becomes active next week.
	ctx := context.Background()
	future := models.Content{Title: "Upcoming", Category: models.ContentCategoryMovie, Status: models.ContentStatusPublished}
	if err := env.db.InsertContent(ctx, &future); err != nil {
		t.Fatalf("failed to insert content: %v", err)
	}
	start := time.Now().UTC().Add(7 * 24 * time.Hour)
	p := models.ContentPlacement{ContentID: future.ID, SectionID: section.ID, Priority: -1, StartDate: &start}
	if err := env.db.InsertPlacement(ctx, &p); err != nil {
		t.Fatalf("failed to insert placement: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/pages/home", nil, nil)
	resp := decodeResponse(t, rec)
	if countItems(t, resp) != 2 {
		t.Errorf("expected 2 items before window opens, got %d", countItems(t, resp))
	}

	at := start.Add(time.Hour).Format(time.RFC3339)
	rec = env.do(t, http.MethodGet, "/api/v1/pages/home?at="+at, nil, nil)
	resp = decodeResponse(t, rec)
	if countItems(t, resp) != 3 {
		t.Errorf("expected 3 items at preview instant, got %d", countItems(t, resp))
	}
}

func countItems(t *testing.T, resp models.APIResponse) int {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("failed to re-marshal data: %v", err)
	}
	var view models.PageView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("failed to decode page view: %v", err)
	}
	total := 0
	for _, s := range view.Sections {
		total += len(s.Items)
	}
	return total
}

func TestSectionItemsEndpoint(t *testing.T) {
	env := setupTestAPI(t, "none")
	_, section, _ := seedHomePage(t, env)

	rec := env.do(t, http.MethodGet, "/api/v1/sections/"+section.ID.String()+"/items?limit=1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var body struct {
		Items []models.RenderedItem `json:"items"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("failed to decode section items: %v", err)
	}
	if len(body.Items) != 1 {
		t.Errorf("expected limit to cap items at 1, got %d", len(body.Items))
	}
}

func TestListSectionsAndPlacements(t *testing.T) {
	env := setupTestAPI(t, "none")
	page, section, entries := seedHomePage(t, env)

	rec := env.do(t, http.MethodGet, "/api/v1/catalog/sections?page_id="+page.ID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list sections: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("failed to re-marshal data: %v", err)
	}
	var sections []models.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		t.Fatalf("failed to decode sections: %v", err)
	}
	if len(sections) != 1 || sections[0].ID != section.ID {
		t.Errorf("expected the seeded section, got %+v", sections)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/catalog/placements?section_id="+section.ID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list placements: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeResponse(t, rec)
	views, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("expected a list of placements, got %T", resp.Data)
	}
	if len(views) != len(entries) {
		t.Errorf("expected %d placements, got %d", len(entries), len(views))
	}

	// A missing filter parameter is a validation error, not an empty list.
	for _, path := range []string{"/api/v1/catalog/sections", "/api/v1/catalog/placements"} {
		rec = env.do(t, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s: expected 400, got %d", path, rec.Code)
		}
	}

	// An unknown parent is a 404.
	rec = env.do(t, http.MethodGet, "/api/v1/catalog/sections?page_id="+uuid.New().String(), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown page, got %d", rec.Code)
	}
}

func TestNonPositiveLimitRejected(t *testing.T) {
	env := setupTestAPI(t, "none")
	_, section, _ := seedHomePage(t, env)

	paths := []string{
		"/api/v1/pages/home",
		"/api/v1/sections/" + section.ID.String() + "/items",
	}
	for _, path := range paths {
		for _, limit := range []string{"0", "-1", "abc"} {
			rec := env.do(t, http.MethodGet, path+"?limit="+limit, nil, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s?limit=%s: expected 400, got %d", path, limit, rec.Code)
				continue
			}
			resp := decodeResponse(t, rec)
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("%s?limit=%s: expected VALIDATION_ERROR, got %+v", path, limit, resp.Error)
			}
		}
	}
}

func TestSectionItemsBadUUID(t *testing.T) {
	env := setupTestAPI(t, "none")

	rec := env.do(t, http.MethodGet, "/api/v1/sections/not-a-uuid/items", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreatePageConflict(t *testing.T) {
	env := setupTestAPI(t, "none")

	body := models.CreatePageRequest{Name: "kids", Title: "Kids"}
	rec := env.do(t, http.MethodPost, "/api/v1/catalog/pages", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/catalog/pages", body, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate page name, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT error, got %+v", resp.Error)
	}
}

func TestCreatePageValidation(t *testing.T) {
	env := setupTestAPI(t, "none")

	tests := []struct {
		name string
		body models.CreatePageRequest
	}{
		{"empty name", models.CreatePageRequest{Title: "X"}},
		{"uppercase name", models.CreatePageRequest{Name: "Home", Title: "X"}},
		{"missing title", models.CreatePageRequest{Name: "home"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/catalog/pages", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreatePlacementWindowValidation(t *testing.T) {
	env := setupTestAPI(t, "none")
	_, section, entries := seedHomePage(t, env)

	start := time.Now().UTC()
	end := start.Add(-time.Hour)
	body := models.CreatePlacementRequest{
		ContentID: entries[0].ID,
		SectionID: section.ID,
		StartDate: &start,
		EndDate:   &end,
	}

	rec := env.do(t, http.MethodPost, "/api/v1/catalog/placements", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted window, got %d", rec.Code)
	}
}

func TestCreatePlacementDuplicate(t *testing.T) {
	env := setupTestAPI(t, "none")
	_, section, entries := seedHomePage(t, env)

	body := models.CreatePlacementRequest{ContentID: entries[0].ID, SectionID: section.ID}
	rec := env.do(t, http.MethodPost, "/api/v1/catalog/placements", body, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate placement, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreatePlacementDefaultPriority(t *testing.T) {
	env := setupTestAPI(t, "none")
	page, _, entries := seedHomePage(t, env)
	ctx := context.Background()

	extra := models.Section{PageID: page.ID, Name: "extra", Title: "Extra", Position: 1}
	if err := env.db.InsertSection(ctx, &extra); err != nil {
		t.Fatalf("failed to insert section: %v", err)
	}

	body := models.CreatePlacementRequest{ContentID: entries[0].ID, SectionID: extra.ID}
	rec := env.do(t, http.MethodPost, "/api/v1/catalog/placements", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Placement models.ContentPlacement `json:"placement"`
		State     string                  `json:"state"`
	}
	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("failed to round-trip response data: %v", err)
	}
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("failed to decode placement: %v", err)
	}
	if created.Placement.Priority != models.DefaultPlacementPriority {
		t.Errorf("expected default priority %d, got %d", models.DefaultPlacementPriority, created.Placement.Priority)
	}
	if created.State != string(models.PlacementActive) {
		t.Errorf("expected active placement, got %q", created.State)
	}
}

func TestCreatePlacementMissingReferences(t *testing.T) {
	env := setupTestAPI(t, "none")
	seedHomePage(t, env)

	body := models.CreatePlacementRequest{ContentID: uuid.New(), SectionID: uuid.New()}
	rec := env.do(t, http.MethodPost, "/api/v1/catalog/placements", body, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown references, got %d", rec.Code)
	}
}

func TestUpsertRecommendationsPersonalizesPage(t *testing.T) {
	env := setupTestAPI(t, "none")
	ctx := context.Background()

	page := models.Page{Name: "home", Title: "Home"}
	if err := env.db.InsertPage(ctx, &page); err != nil {
		t.Fatalf("failed to insert page: %v", err)
	}
	section := models.Section{PageID: page.ID, Name: "for-you", Title: "For You", Personalized: true}
	if err := env.db.InsertSection(ctx, &section); err != nil {
		t.Fatalf("failed to insert section: %v", err)
	}

	var ids []uuid.UUID
	for i, title := range []string{"First", "Second", "Third"} {
		c := models.Content{Title: title, Category: models.ContentCategoryMovie, Status: models.ContentStatusPublished}
		if err := env.db.InsertContent(ctx, &c); err != nil {
			t.Fatalf("failed to insert content: %v", err)
		}
		p := models.ContentPlacement{ContentID: c.ID, SectionID: section.ID, Priority: i}
		if err := env.db.InsertPlacement(ctx, &p); err != nil {
			t.Fatalf("failed to insert placement: %v", err)
		}
		ids = append(ids, c.ID)
	}

	body := models.UpsertRecommendationsRequest{
		ProfileID: "viewer-1",
		Scores: []models.RecommendationScore{
			{ContentID: ids[0], Score: 0.1},
			{ContentID: ids[2], Score: 0.9},
		},
	}
	rec := env.do(t, http.MethodPost, "/api/v1/recommendations/", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/pages/home?profile_id=viewer-1", nil, nil)
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var view models.PageView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("failed to decode page view: %v", err)
	}

	items := view.Sections[0].Items
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	// Scored items swap into score order; the unscored middle item stays put.
	if items[0].ContentID != ids[2] || items[1].ContentID != ids[1] || items[2].ContentID != ids[0] {
		t.Errorf("unexpected personalized order: %s, %s, %s", items[0].Title, items[1].Title, items[2].Title)
	}
}

func TestHealthReady(t *testing.T) {
	env := setupTestAPI(t, "none")

	rec := env.do(t, http.MethodGet, "/api/v1/health/ready", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoginAndProtectedRoute(t *testing.T) {
	env := setupTestAPI(t, "jwt")

	// Unauthenticated catalog access is rejected.
	rec := env.do(t, http.MethodGet, "/api/v1/catalog/pages", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Wrong credentials.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Username: "admin", Password: "wrong"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}

	// Valid login issues a token.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Username: "admin", Password: "correct-horse-battery"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid login, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var login models.LoginResponse
	if err := json.Unmarshal(data, &login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if login.Token == "" {
		t.Fatal("expected a token")
	}

	// Token grants catalog access.
	rec = env.do(t, http.MethodGet, "/api/v1/catalog/pages", nil, map[string]string{"Authorization": "Bearer " + login.Token})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	env := setupTestAPI(t, "jwt")
	seedHomePage(t, env)

	rec := env.do(t, http.MethodGet, "/api/v1/pages/home", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public page endpoint to skip auth, got %d", rec.Code)
	}
}

func TestDeleteContentInvalidatesCompose(t *testing.T) {
	env := setupTestAPI(t, "none")
	_, _, entries := seedHomePage(t, env)

	// Prime the cache.
	rec := env.do(t, http.MethodGet, "/api/v1/pages/home", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/catalog/content/"+entries[0].ID.String(), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/pages/home", nil, nil)
	resp := decodeResponse(t, rec)
	if got := countItems(t, resp); got != 1 {
		t.Errorf("expected 1 item after deletion, got %d", got)
	}
}
