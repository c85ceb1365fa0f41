package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPendingPayment(t *testing.T, userID uuid.UUID, amount float64) models.PaymentRequest {
	t.Helper()

	request := models.PaymentRequest{
		ID:     uuid.New(),
		UserID: userID,
		Amount: amount,
		UTR:    fmt.Sprintf("UTR%s", uuid.New().String()[:12]),
		Status: "pending",
	}
	require.NoError(t, database.DB.Create(&request).Error)
	return request
}

func newAdminApp(adminID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Post("/admin/payment-requests/:requestId/process", authAs(adminID, "admin"), ProcessPaymentRequest)
	return app
}

func processURL(requestID uuid.UUID) string {
	return "/admin/payment-requests/" + requestID.String() + "/process"
}

func TestProcessPaymentRequestConcurrentApprovalsBothCredit(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 0)
	admin := createTestUser(t, 0)
	first := createPendingPayment(t, user.ID, 50)
	second := createPendingPayment(t, user.ID, 30)
	app := newAdminApp(admin.ID)

	var wg sync.WaitGroup
	for _, requestID := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, processURL(id), strings.NewReader(`{"decision":"approve"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, 10000)
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
		}(requestID)
	}
	wg.Wait()

	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", user.ID).Error)
	assert.InDelta(t, 80.0, stored.Balance, 1e-9)

	for _, requestID := range []uuid.UUID{first.ID, second.ID} {
		var request models.PaymentRequest
		require.NoError(t, database.DB.First(&request, "id = ?", requestID).Error)
		assert.Equal(t, "approved", request.Status)
		assert.NotNil(t, request.ProcessedAt)
	}
}

func TestProcessPaymentRequestApprovalIsTerminal(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 0)
	admin := createTestUser(t, 0)
	request := createPendingPayment(t, user.ID, 50)
	app := newAdminApp(admin.ID)

	resp := doJSON(t, app, http.MethodPost, processURL(request.ID), []byte(`{"decision":"approve"}`), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, processURL(request.ID), []byte(`{"decision":"approve"}`), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var stored models.User
	require.NoError(t, database.DB.First(&stored, "id = ?", user.ID).Error)
	assert.InDelta(t, 50.0, stored.Balance, 1e-9)
}

func TestProcessPaymentRequestRejectKeepsRecord(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, 0)
	admin := createTestUser(t, 0)
	request := createPendingPayment(t, user.ID, 75)
	app := newAdminApp(admin.ID)

	resp := doJSON(t, app, http.MethodPost, processURL(request.ID), []byte(`{"decision":"reject","admin_notes":"UTR not found"}`), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.PaymentRequest
	require.NoError(t, database.DB.First(&stored, "id = ?", request.ID).Error)
	assert.Equal(t, "rejected", stored.Status)
	assert.NotNil(t, stored.ProcessedAt)

	var user2 models.User
	require.NoError(t, database.DB.First(&user2, "id = ?", user.ID).Error)
	assert.InDelta(t, 0.0, user2.Balance, 1e-9)
}
