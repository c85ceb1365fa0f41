package notifications

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBrevo(t *testing.T, got *brevoPayload) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"messageId":"msg-1"}`))
	}))
	t.Cleanup(server.Close)

	oldURL := brevoURL
	brevoURL = server.URL
	oldClient := EmailClient
	EmailClient = &BrevoService{
		APIKey:      "test-key",
		SenderEmail: "noreply@example.com",
		SenderName:  "DG Social Service",
	}
	t.Cleanup(func() {
		brevoURL = oldURL
		EmailClient = oldClient
	})
}

func TestSendEmailDoesNotLogMessageBody(t *testing.T) {
	var got brevoPayload
	stubBrevo(t, &got)

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	htmlContent := "<h1>Funds Added</h1><p>A credit of ₹500.00 has been added.</p>"
	SendEmail("Asha", "asha@example.com", "Your Top-Up Has Been Approved", htmlContent)

	assert.Equal(t, "asha@example.com", got.To[0]["email"])
	assert.Equal(t, "Asha", got.To[0]["name"])
	assert.Equal(t, "Your Top-Up Has Been Approved", got.Subject)
	assert.Equal(t, htmlContent, got.HTMLContent)

	assert.NotContains(t, logs.String(), htmlContent)
	assert.NotContains(t, logs.String(), "Funds Added")
}

func TestSendEmailFallsBackToAddressLocalPart(t *testing.T) {
	var got brevoPayload
	stubBrevo(t, &got)

	SendEmail("", "bob@example.com", "Welcome", "<p>hi</p>")

	assert.Equal(t, "bob", got.To[0]["name"])
}
