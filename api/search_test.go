package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	return NewClient("secret").WithBaseURL(u)
}

func TestGetPage(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/gifs/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "@acme", q.Get("q"))
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "0", q.Get("offset"))
		assert.Equal(t, "g", q.Get("rating"))

		b, err := os.ReadFile("testdata/search.json")
		assert.NoError(t, err)
		w.Header().Set("content-type", "application/json")
		_, err = w.Write(b)
		assert.NoError(t, err)
	})

	client := newTestClient(t, mux)
	items, err := client.Search.Page(context.TODO(), &SearchOptions{
		Category: CategoryGIF,
		Query:    "@acme",
		Rating:   "g",
		Limit:    50,
	})
	require.NoError(t, err)
	require.Len(t, items, 2, "unexpected decoded response")
	assert.Equal(t, "Happy Dance GIF by Acme Studio", items[0].Title, "unexpected decoded title")
}

func TestGetPageStatusError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"meta":{"status":401,"msg":"No API key found in request."}}`))
	}))

	_, err := client.Search.Page(context.TODO(), &SearchOptions{Category: CategoryGIF, Limit: 50})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatusCode)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "No API key found in request.", se.Message)
	assert.Contains(t, err.Error(), "No API key found in request.")
}

func TestGetPageMalformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>rate limited</html>"},
		{"no data", `{"meta":{"status":200}}`},
		{"data is not an array", `{"data":{"id":"x"}}`},
		{"bad images", `{"data":[{"id":"x","images":[1,2]}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := client.Search.Page(context.TODO(), &SearchOptions{Category: CategoryGIF, Limit: 50})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestRemoteMessage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Invalid authentication credentials", remoteMessage([]byte(`{"message":"Invalid authentication credentials"}`)))
	assert.Equal(t, "Forbidden", remoteMessage([]byte(`{"meta":{"msg":"Forbidden"},"message":"other"}`)))
	assert.Empty(t, remoteMessage([]byte(`not json`)))
}
