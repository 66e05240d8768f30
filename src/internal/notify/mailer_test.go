package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailerSendsTextEmail(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	t.Cleanup(server.Close)

	client := resend.NewClient("re_test")
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	mailer := NewResendMailer(client, "Paylio <no-reply@example.com>")
	require.NoError(t, mailer.SendMessage(context.Background(), []string{"a@example.com"}, "Debit Alert: -$5.00", "body"))

	assert.Equal(t, "Paylio <no-reply@example.com>", got["from"])
	assert.Equal(t, []any{"a@example.com"}, got["to"])
	assert.Equal(t, "Debit Alert: -$5.00", got["subject"])
	assert.Equal(t, "body", got["text"])
}

func TestResendMailerWrapsProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"invalid from"}`))
	}))
	t.Cleanup(server.Close)

	client := resend.NewClient("re_test")
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	err = NewResendMailer(client, "bad").SendMessage(context.Background(), []string{"a@example.com"}, "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resend send email")
}
