package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/baraholka-be/internal/api/handlers"
	"github.com/isdelr/baraholka-be/internal/auth"
	"github.com/isdelr/baraholka-be/internal/models"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/isdelr/baraholka-be/internal/storage"
	"github.com/isdelr/baraholka-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminPassword = "admin-pass"

type testAPI struct {
	t       *testing.T
	handler http.Handler
	events  *services.EventService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := storage.NewMemoryStore()
	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	events := services.NewEventService(store, 100, hub)
	users := services.NewUserService(store, services.UserConfig{AdminUsername: "jessieinberg", AdminPassword: adminPassword}, nil, events)
	require.NoError(t, users.Init(context.Background()))
	listings := services.NewListingService(store, services.ListingConfig{SeedSampleListings: true}, events)
	moderation := services.NewModerationService(listings, events)

	router := NewRouter(Options{CORSOrigins: []string{"http://localhost:3000"}}, hub,
		auth.NewIssuer("test-secret", time.Hour), users, listings, moderation, events)
	return &testAPI{t: t, handler: router, events: events}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) register(username string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", handlers.RegisterPayload{
		Username: username, Password: "secret1", ConfirmPassword: "secret1",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[handlers.SessionResponse](a.t, rec).Token
}

func (a *testAPI) loginAdmin() string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/login", "", handlers.AuthPayload{Username: "JessieInberg", Password: adminPassword})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[handlers.SessionResponse](a.t, rec)
	require.True(a.t, resp.IsAdmin)
	return resp.Token
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		payload handlers.RegisterPayload
		status  int
	}{
		{"mismatch", handlers.RegisterPayload{Username: "bob", Password: "secret1", ConfirmPassword: "secret2"}, http.StatusBadRequest},
		{"short", handlers.RegisterPayload{Username: "bob", Password: "abc", ConfirmPassword: "abc"}, http.StatusBadRequest},
		{"blank username", handlers.RegisterPayload{Username: "  ", Password: "secret1", ConfirmPassword: "secret1"}, http.StatusBadRequest},
		{"ok", handlers.RegisterPayload{Username: "bob", Password: "secret1", ConfirmPassword: "secret1"}, http.StatusCreated},
		{"duplicate", handlers.RegisterPayload{Username: "BOB", Password: "secret1", ConfirmPassword: "secret1"}, http.StatusConflict},
		{"reserved admin name", handlers.RegisterPayload{Username: "jessieinberg", Password: "secret1", ConfirmPassword: "secret1"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/v1/auth/register", "", tt.payload)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	api := newTestAPI(t)
	api.register("carol")

	rec := api.do(http.MethodPost, "/api/v1/auth/login", "", handlers.AuthPayload{Username: "carol", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth/login", "", handlers.AuthPayload{Username: "CAROL", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handlers.SessionResponse](t, rec)
	assert.Empty(t, resp.User.Password)
	assert.False(t, resp.IsAdmin)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.TokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/auth/me", "", nil).Code)
	rec = api.do(http.MethodGet, "/api/v1/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[handlers.SessionResponse](t, rec)
	assert.Equal(t, "carol", me.User.Username)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/v1/auth/logout", resp.Token, nil).Code)
}

func TestListingLifecycle(t *testing.T) {
	api := newTestAPI(t)
	seller := api.register("seller")
	admin := api.loginAdmin()

	public := decode[[]models.Product](t, api.do(http.MethodGet, "/api/v1/listings", "", nil))
	assert.Len(t, public, 3)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/listings", "", models.ProductInput{Title: "X"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		api.do(http.MethodPost, "/api/v1/listings", seller, models.ProductInput{Title: "", City: "Kyiv"}).Code)

	rec := api.do(http.MethodPost, "/api/v1/listings", seller, models.ProductInput{
		Title: "Lamp", Price: 50, Category: "other", Subcategory: "misc", City: "Lviv",
		Condition: models.ConditionUsed, Status: models.StatusActive, UserID: "someone-else",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Product](t, rec)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.NotEqual(t, "someone-else", created.UserID)

	// Pending listings are hidden from anonymous visitors but visible to the owner.
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/listings/"+created.ID, "", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/listings/"+created.ID, seller, nil).Code)

	mine := decode[[]models.Product](t, api.do(http.MethodGet, "/api/v1/me/listings?status=pending", seller, nil))
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/me/listings?status=sold", seller, nil).Code)

	// Only administrators moderate.
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/v1/admin/listings/"+created.ID+"/approve", seller, nil).Code)

	rec = api.do(http.MethodPost, "/api/v1/admin/listings/"+created.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusActive, decode[models.Product](t, rec).Status)
	public = decode[[]models.Product](t, api.do(http.MethodGet, "/api/v1/listings", "", nil))
	assert.Len(t, public, 4)
	assert.Equal(t, created.ID, public[0].ID, "newest first")

	rec = api.do(http.MethodPost, "/api/v1/admin/listings/"+created.ID+"/reject", admin, map[string]string{"reason": "bad photo"})
	require.Equal(t, http.StatusOK, rec.Code)
	rejected := decode[models.Product](t, rec)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "bad photo", rejected.RejectionReason)

	// The owner's edit sends it back to the queue.
	title := "Desk lamp"
	rec = api.do(http.MethodPut, "/api/v1/listings/"+created.ID, seller, models.ProductUpdate{Title: &title})
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decode[models.Product](t, rec)
	assert.Equal(t, models.StatusPending, edited.Status)
	assert.Empty(t, edited.RejectionReason)

	other := api.register("other")
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/api/v1/listings/"+created.ID, other, models.ProductUpdate{Title: &title}).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/v1/listings/"+created.ID, other, nil).Code)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/listings/"+created.ID, seller, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/listings/"+created.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/v1/admin/listings/"+created.ID+"/approve", admin, nil).Code)
}

func TestAdminViews(t *testing.T) {
	api := newTestAPI(t)
	api.register("dave")
	admin := api.loginAdmin()

	all := decode[[]models.Product](t, api.do(http.MethodGet, "/api/v1/admin/listings", admin, nil))
	assert.Len(t, all, 5)
	pending := decode[[]models.Product](t, api.do(http.MethodGet, "/api/v1/admin/listings?status=pending", admin, nil))
	assert.Len(t, pending, 1)
	byUser := decode[[]models.Product](t, api.do(http.MethodGet, "/api/v1/admin/listings?userId="+services.SampleUserID3, admin, nil))
	assert.Len(t, byUser, 2)

	users := decode[[]models.User](t, api.do(http.MethodGet, "/api/v1/admin/users?search=DAV", admin, nil))
	require.Len(t, users, 1)
	assert.Equal(t, "dave", users[0].Username)
	assert.Empty(t, users[0].Password)

	recent := decode[[]models.User](t, api.do(http.MethodGet, "/api/v1/admin/users?filter=last24h", admin, nil))
	assert.Len(t, recent, 2)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/admin/users?filter=lastyear", admin, nil).Code)

	events := decode[[]models.Event](t, api.do(http.MethodGet, "/api/v1/admin/events?limit=1", admin, nil))
	require.Len(t, events, 1)
	assert.Equal(t, "user.login", events[0].Type)
}

func TestCatalogEndpoints(t *testing.T) {
	api := newTestAPI(t)

	categories := decode[[]models.Category](t, api.do(http.MethodGet, "/api/v1/categories", "", nil))
	assert.Equal(t, models.Categories, categories)
	cities := decode[[]string](t, api.do(http.MethodGet, "/api/v1/cities", "", nil))
	assert.Equal(t, "Kyiv", cities[0])
}

func TestEditRejectsInvalidFields(t *testing.T) {
	api := newTestAPI(t)
	seller := api.register("seller")

	rec := api.do(http.MethodPost, "/api/v1/listings", seller, models.ProductInput{
		Title: "Lamp", Price: 50, Category: "other", Subcategory: "misc", City: "Lviv", Condition: models.ConditionUsed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Product](t, rec)
	path := "/api/v1/listings/" + created.ID

	negative, blank := -100.0, ""
	rec = api.do(http.MethodPut, path, seller, models.ProductUpdate{Price: &negative})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	rec = api.do(http.MethodPut, path, seller, models.ProductUpdate{Price: &negative, Title: &blank, City: &blank})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	stored := decode[models.Product](t, api.do(http.MethodGet, path, seller, nil))
	assert.Equal(t, 50.0, stored.Price)
	assert.Equal(t, "Lamp", stored.Title)
	assert.Equal(t, "Lviv", stored.City)

	price := 75.0
	rec = api.do(http.MethodPut, path, seller, models.ProductUpdate{Price: &price})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 75.0, decode[models.Product](t, rec).Price)
}
