package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emel-04/FlatmateHarmony/internal/auth"
	"github.com/emel-04/FlatmateHarmony/internal/chat"
	"github.com/emel-04/FlatmateHarmony/internal/household"
	"github.com/emel-04/FlatmateHarmony/internal/ledger"
	"github.com/emel-04/FlatmateHarmony/internal/storage/sqlite"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	broker := chat.NewBroker()
	t.Cleanup(broker.Close)

	tokens := auth.NewJWTManager(testJWTSecret, time.Hour)
	chatSvc := chat.NewService(store, broker)
	handler := NewHandler(
		auth.NewPasswordAuthenticator(store),
		tokens,
		household.NewService(store),
		ledger.NewService(store),
		chatSvc,
		chat.NewHandler(chatSvc, store, nil),
		store,
	)
	return NewRouter(handler, tokens, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

// registerUser registers an account and returns its token and user ID.
func registerUser(t *testing.T, router http.Handler, email, name string) (string, string) {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "name": name, "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[authResponse](t, rec)
	return resp.Token, resp.User.ID
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	token, _ := registerUser(t, router, "an@example.com", "An")
	assert.NotEmpty(t, token)

	t.Run("duplicate email", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "an@example.com", "name": "An", "password": "correct-horse",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "binh@example.com", "name": "Binh", "password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "an@example.com", "password": "correct-horse",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[authResponse](t, rec)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "an@example.com", "password": "wrong-horse",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected route without token", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/households", "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected route with garbage token", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/households", "not.a.token", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHouseholdEndpoints(t *testing.T) {
	router := newTestRouter(t)
	anToken, anID := registerUser(t, router, "an@example.com", "An")

	rec := doRequest(t, router, http.MethodPost, "/api/households", anToken, map[string]interface{}{
		"address": "5 Tran Phu", "rent": 1200000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	house := decodeBody[householdResponse](t, rec)
	assert.NotEmpty(t, house.HomeCode)
	assert.Equal(t, anID, house.OwnerID)

	t.Run("join by code", func(t *testing.T) {
		binhToken, _ := registerUser(t, router, "binh@example.com", "Binh")
		rec := doRequest(t, router, http.MethodPost, "/api/households/join", binhToken, map[string]string{
			"homeCode": house.HomeCode, "name": "Binh",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[joinResponse](t, rec)
		assert.Equal(t, house.ID, resp.Household.ID)
		assert.Equal(t, "Binh", resp.Member.Name)
	})

	t.Run("join with bad code", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/households/join", anToken, map[string]string{
			"homeCode": "XXXXXX", "name": "Chi",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("roster order", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/members", house.ID), anToken,
			map[string]string{"name": "Chi"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/households/%s/members", house.ID), anToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		members := decodeBody[[]memberResponse](t, rec)
		require.Len(t, members, 3)
		assert.Equal(t, "An", members[0].Name)
		assert.Equal(t, "Binh", members[1].Name)
		assert.Equal(t, "Chi", members[2].Name)
	})

	t.Run("missing household is 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/households/nope", anToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFinanceEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "an@example.com", "An")

	rec := doRequest(t, router, http.MethodPost, "/api/households", token, map[string]interface{}{
		"address": "5 Tran Phu",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	house := decodeBody[householdResponse](t, rec)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/members", house.ID), token,
		map[string]string{"name": "Binh"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/households/%s/members", house.ID), token, nil)
	members := decodeBody[[]memberResponse](t, rec)
	require.Len(t, members, 2)

	now := time.Now()
	financePath := fmt.Sprintf("/api/households/%s/finance/%d/%d", house.ID, now.Year(), int(now.Month()))

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/transactions", house.ID), token,
		map[string]interface{}{"description": "groceries", "amount": 100, "payerId": members[0].ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, financePath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[snapshotResponse](t, rec)
	assert.Equal(t, int64(100), snap.TotalAmount)
	assert.Equal(t, int64(50), snap.Balances[members[0].ID])
	assert.Equal(t, int64(-50), snap.Balances[members[1].ID])
	require.Len(t, snap.Transfers, 1)
	assert.Equal(t, transferResponse{From: members[1].ID, To: members[0].ID, Amount: 50}, snap.Transfers[0])

	t.Run("confirm payment settles the month", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/payments", house.ID), token,
			map[string]interface{}{"from": members[1].ID, "to": members[0].ID, "amount": 50})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doRequest(t, router, http.MethodGet, financePath, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		snap := decodeBody[snapshotResponse](t, rec)
		assert.Empty(t, snap.Transfers)
		for _, b := range snap.Balances {
			assert.Zero(t, b)
		}
	})

	t.Run("invalid amount is 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/transactions", house.ID), token,
			map[string]interface{}{"description": "bad", "amount": -5, "payerId": members[0].ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing payer is 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/transactions", house.ID), token,
			map[string]interface{}{"description": "bad", "amount": 100})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing household is 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			fmt.Sprintf("/api/households/nope/finance/%d/%d", now.Year(), int(now.Month())), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad month is 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			fmt.Sprintf("/api/households/%s/finance/2026/13", house.ID), token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty household is 422", func(t *testing.T) {
		// A household whose members were all removed.
		rec := doRequest(t, router, http.MethodPost, "/api/households", token, map[string]interface{}{
			"address": "empty"})
		require.Equal(t, http.StatusCreated, rec.Code)
		empty := decodeBody[householdResponse](t, rec)

		rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/households/%s/members", empty.ID), token, nil)
		only := decodeBody[[]memberResponse](t, rec)
		require.Len(t, only, 1)
		rec = doRequest(t, router, http.MethodDelete,
			fmt.Sprintf("/api/households/%s/members/%s", empty.ID, only[0].ID), token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, router, http.MethodGet,
			fmt.Sprintf("/api/households/%s/finance/%d/%d", empty.ID, now.Year(), int(now.Month())), token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestChoreAndShoppingEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token, _ := registerUser(t, router, "an@example.com", "An")

	rec := doRequest(t, router, http.MethodPost, "/api/households", token, map[string]interface{}{
		"address": "5 Tran Phu"})
	require.Equal(t, http.StatusCreated, rec.Code)
	house := decodeBody[householdResponse](t, rec)

	t.Run("shuffle and list", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/chores/shuffle", house.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		board := decodeBody[[]choreAssignmentResponse](t, rec)
		assert.Len(t, board, len(household.DefaultTasks))

		rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/households/%s/chores", house.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listed := decodeBody[[]choreAssignmentResponse](t, rec)
		assert.Equal(t, board, listed)
	})

	t.Run("shopping list flow", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/shopping", house.ID), token,
			map[string]string{"name": "Rice", "note": "5kg"})
		require.Equal(t, http.StatusCreated, rec.Code)
		item := decodeBody[shoppingItemResponse](t, rec)

		rec = doRequest(t, router, http.MethodPost,
			fmt.Sprintf("/api/households/%s/shopping/%s/toggle", house.ID, item.ID), token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/households/%s/shopping", house.ID), token, nil)
		items := decodeBody[[]shoppingItemResponse](t, rec)
		require.Len(t, items, 1)
		assert.True(t, items[0].Bought)

		rec = doRequest(t, router, http.MethodDelete,
			fmt.Sprintf("/api/households/%s/shopping/%s", house.ID, item.ID), token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestMessageEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token, userID := registerUser(t, router, "an@example.com", "An")

	rec := doRequest(t, router, http.MethodPost, "/api/households", token, map[string]interface{}{
		"address": "5 Tran Phu"})
	require.Equal(t, http.StatusCreated, rec.Code)
	house := decodeBody[householdResponse](t, rec)

	rec = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/messages", house.ID), token,
		map[string]string{"content": "who bought the milk?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decodeBody[messageResponse](t, rec)
	assert.Equal(t, userID, sent.SenderID)
	assert.Equal(t, "An", sent.SenderName)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/households/%s/messages", house.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msgs := decodeBody[[]messageResponse](t, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "who bought the milk?", msgs[0].Content)

	t.Run("empty message is 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/households/%s/messages", house.ID), token,
			map[string]string{"content": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
