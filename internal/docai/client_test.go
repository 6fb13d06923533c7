package docai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTClientProcess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req processRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "application/pdf", req.RawDocument.MimeType)
		assert.NotEmpty(t, req.RawDocument.Content)

		w.Header().Set("X-Processor-Version", "pretrained-v2")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client, err := NewRESTClient(srv.URL+"/v1/processors/p1", WithToken("test-token"))
	require.NoError(t, err)

	resp, err := client.Process(context.Background(), []byte("%PDF-1.4 fake"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "pretrained-v2", resp.ProcessorVersion)
	assert.Len(t, resp.Entities, 2)
}

func TestRESTClientProcessServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewRESTClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Process(context.Background(), []byte("doc"), "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRESTClientValidation(t *testing.T) {
	_, err := NewRESTClient("")
	assert.Error(t, err)

	client, err := NewRESTClient("http://localhost:1")
	require.NoError(t, err)
	_, err = client.Process(context.Background(), nil, "application/pdf")
	assert.ErrorContains(t, err, "empty document")
}
