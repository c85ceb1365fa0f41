package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/dgotpservice/dg-social-panel/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerStub struct {
	mu         sync.Mutex
	placeCalls int
	orderID    string
	server     *httptest.Server
}

// startProviderStub serves a one-service catalog and accepts orders,
// counting how often place-order is hit.
func startProviderStub(t *testing.T, orderID string) *providerStub {
	t.Helper()

	stub := &providerStub{orderID: orderID}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/get-services":
			fmt.Fprint(w, `[{"id":"101","name":"Instagram Followers","category":"Instagram","price":20,"min":100,"max":10000,"refill":true}]`)
		case "/place-order":
			stub.mu.Lock()
			stub.placeCalls++
			stub.mu.Unlock()
			fmt.Fprintf(w, `{"success":true,"orderId":%q,"message":"ok"}`, stub.orderID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(stub.server.Close)

	os.Setenv("PROVIDER_BASE_URL", stub.server.URL)
	services.RefreshCatalog()
	return stub
}

func (s *providerStub) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeCalls
}

func newOrderApp(userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Post("/orders", authAs(userID, "user"), PlaceOrder)
	return app
}

func TestPlaceOrderDebitsAndRecords(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, services.SetCommission(10))
	stub := startProviderStub(t, "PO-1001")
	user := createTestUser(t, 100)
	app := newOrderApp(user.ID)

	resp := doJSON(t, app, http.MethodPost, "/orders",
		[]byte(`{"service_id":"101","link":"https://instagram.com/someuser","quantity":500}`), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Commission 10% on a base rate of 20 charges 22 per 1000, so 500
	// units cost 11.00.
	var body struct {
		RemainingBalance float64      `json:"remaining_balance"`
		Order            models.Order `json:"order"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.InDelta(t, 89.0, body.RemainingBalance, 1e-9)
	assert.InDelta(t, 11.0, body.Order.Amount, 1e-9)
	assert.Equal(t, "pending", body.Order.Status)

	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", user.ID).Error)
	assert.InDelta(t, 89.0, stored.Balance, 1e-9)

	var orderCount int64
	database.DB.Model(&models.Order{}).Where("provider_order_id = ?", "PO-1001").Count(&orderCount)
	assert.EqualValues(t, 1, orderCount)
	assert.Equal(t, 1, stub.calls())
}

func TestPlaceOrderInsufficientBalance(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, services.SetCommission(10))
	stub := startProviderStub(t, "PO-2001")
	user := createTestUser(t, 5)
	app := newOrderApp(user.ID)

	resp := doJSON(t, app, http.MethodPost, "/orders",
		[]byte(`{"service_id":"101","link":"https://instagram.com/someuser","quantity":500}`), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Insufficient balance! You need ₹11.00 but have only ₹5.00", body.Error)

	// Nothing went upstream and nothing was charged.
	assert.Equal(t, 0, stub.calls())
	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", user.ID).Error)
	assert.InDelta(t, 5.0, stored.Balance, 1e-9)
}

func TestPlaceOrderKeepsIdempotencyKeyWhenRecordingFails(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, services.SetCommission(10))
	stub := startProviderStub(t, "PO-3001")

	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { database.Redis = nil })

	user := createTestUser(t, 100)
	app := newOrderApp(user.ID)

	// A row already holding the provider order id makes the local insert
	// fail after the upstream call succeeded.
	existing := models.Order{
		ID:              uuid.New(),
		UserID:          user.ID,
		ServiceID:       "101",
		ServiceName:     "Instagram Followers",
		Link:            "https://instagram.com/other",
		Quantity:        100,
		Amount:          2.2,
		Status:          "pending",
		ProviderOrderID: &stub.orderID,
	}
	require.NoError(t, database.DB.Create(&existing).Error)

	payload := []byte(`{"service_id":"101","link":"https://instagram.com/someuser","quantity":500}`)
	headers := map[string]string{"Idempotency-Key": "retry-1"}

	resp := doJSON(t, app, http.MethodPost, "/orders", payload, headers)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, stub.calls())

	// The debit rolled back with the failed insert.
	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", user.ID).Error)
	assert.InDelta(t, 100.0, stored.Balance, 1e-9)

	// A retry with the same key must not reach the provider again.
	resp = doJSON(t, app, http.MethodPost, "/orders", payload, headers)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1, stub.calls())
}
