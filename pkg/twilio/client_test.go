package twilio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

func newTestClient(t *testing.T, serviceSID string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(environments.TwilioConfig{
		AccountSID:          "AC123",
		AuthToken:           "token",
		FromNumber:          "+14155238886",
		MessagingServiceSID: serviceSID,
		BaseURL:             srv.URL,
		Timeout:             time.Second,
	})
}

func TestClient_SendNow(t *testing.T) {
	var form url.Values
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)

		require.NoError(t, r.ParseForm())
		form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	})

	receipt, err := client.SendNow(context.Background(), "+15551234567", "Hi Ana")
	require.NoError(t, err)

	assert.Equal(t, "SM1", receipt.SID)
	assert.Equal(t, "queued", receipt.Status)
	assert.Equal(t, "whatsapp:+15551234567", form.Get("To"))
	assert.Equal(t, "whatsapp:+14155238886", form.Get("From"))
	assert.Equal(t, "Hi Ana", form.Get("Body"))
	assert.Empty(t, form.Get("MessagingServiceSid"))
}

func TestClient_SendScheduled(t *testing.T) {
	var form url.Values
	client := newTestClient(t, "MG1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM2","status":"scheduled"}`))
	})

	sendAt := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	receipt, err := client.SendScheduled(context.Background(), "whatsapp:+393331234567", "Review us", sendAt)
	require.NoError(t, err)

	assert.Equal(t, "scheduled", receipt.Status)
	assert.Equal(t, "whatsapp:+393331234567", form.Get("To"))
	assert.Equal(t, "MG1", form.Get("MessagingServiceSid"))
	assert.Equal(t, "fixed", form.Get("ScheduleType"))
	assert.Equal(t, "2024-01-02T09:00:00Z", form.Get("SendAt"))
	assert.Empty(t, form.Get("From"))
}

func TestClient_SendScheduledWithoutService(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	assert.False(t, client.SupportsScheduling())

	_, err := client.SendScheduled(context.Background(), "+1555", "x", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrSchedulingUnavailable)
}

func TestClient_ErrorResponse(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number","status":400}`))
	})

	_, err := client.SendNow(context.Background(), "+1", "hi")
	require.Error(t, err)

	var transportErr *domain.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "send", transportErr.Op)
	assert.Equal(t, http.StatusBadRequest, transportErr.StatusCode)
	assert.Equal(t, 21211, transportErr.Code)
	assert.Equal(t, "Invalid 'To' Phone Number", transportErr.Message)
}

func TestClient_RetriesWhenThrottled(t *testing.T) {
	calls := 0
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":20429,"message":"Too Many Requests","status":429}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM3","status":"queued"}`))
	})

	receipt, err := client.SendNow(context.Background(), "+1555", "hi")
	require.NoError(t, err)
	assert.Equal(t, "SM3", receipt.SID)
	assert.Equal(t, 2, calls)
}

func TestSchedulableAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, SchedulableAt(now, now.Add(10*time.Minute)))
	assert.True(t, SchedulableAt(now, now.Add(15*time.Minute)))
	assert.True(t, SchedulableAt(now, now.Add(2*time.Hour)))
	assert.False(t, SchedulableAt(now, now.Add(36*24*time.Hour)))

	withService := NewClient(environments.TwilioConfig{MessagingServiceSID: "MG1"})
	assert.True(t, withService.CanScheduleAt(now, now.Add(2*time.Hour)))
	assert.False(t, withService.CanScheduleAt(now, now.Add(time.Minute)))

	withoutService := NewClient(environments.TwilioConfig{})
	assert.False(t, withoutService.CanScheduleAt(now, now.Add(2*time.Hour)))
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "whatsapp:+15551234567", Address("+15551234567"))
	assert.Equal(t, "whatsapp:+15551234567", Address("15551234567"))
	assert.Equal(t, "whatsapp:+15551234567", Address("whatsapp:+15551234567"))
	assert.Equal(t, "", Address("  "))
}

func TestSignature_RoundTrip(t *testing.T) {
	params := url.Values{
		"Body":        {"Ciao Trattoria Roma"},
		"From":        {"whatsapp:+393331234567"},
		"ProfileName": {"Giulia"},
	}
	const fullURL = "https://concierge.example.com/api/v1/whatsapp/webhook"

	sig := ComputeSignature("secret", fullURL, params)
	assert.NotEmpty(t, sig)
	assert.True(t, ValidateSignature("secret", fullURL, params, sig))

	assert.False(t, ValidateSignature("other", fullURL, params, sig))
	assert.False(t, ValidateSignature("secret", fullURL+"?x=1", params, sig))

	tampered := url.Values{"Body": {"Ciao Other"}, "From": params["From"], "ProfileName": params["ProfileName"]}
	assert.False(t, ValidateSignature("secret", fullURL, tampered, sig))
	assert.False(t, ValidateSignature("", fullURL, params, sig))
}
