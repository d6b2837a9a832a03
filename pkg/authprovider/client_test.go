package authprovider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/school-portal/admin-api/pkg/config"
)

func TestDeleteAccountPostsUserID(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(config.AuthProviderConfig{Endpoint: server.URL, Timeout: time.Second}, zap.NewNop())
	require.True(t, client.Enabled())

	err := client.DeleteAccount(context.Background(), "user-42")
	require.NoError(t, err)
	assert.Equal(t, "user-42", gotBody["user_id"])
}

func TestDeleteAccountProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(config.AuthProviderConfig{Endpoint: server.URL, Timeout: time.Second}, zap.NewNop())
	err := client.DeleteAccount(context.Background(), "user-42")
	assert.Error(t, err)
}

func TestDeleteAccountDisabled(t *testing.T) {
	client := New(config.AuthProviderConfig{}, zap.NewNop())
	assert.False(t, client.Enabled())
	assert.NoError(t, client.DeleteAccount(context.Background(), "user-42"))
}
