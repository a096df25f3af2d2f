package forex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRate_Success(t *testing.T) {
	var gotPath, gotQuery, gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":{"PKR":278.6543}}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, "test-key", time.Second)
	rate, err := source.FetchRate(context.Background(), "USD", "PKR")

	require.NoError(t, err)
	assert.Equal(t, "278.6543", rate.String())
	assert.Equal(t, "/latest", gotPath)
	assert.Equal(t, "base=USD&symbols=PKR", gotQuery)
	assert.Equal(t, "test-key", gotAPIKey)
}

func TestFetchRate_MissingConfiguration(t *testing.T) {
	for name, source := range map[string]*HTTPSource{
		"no base URL": NewHTTPSource("", "test-key", time.Second),
		"no API key":  NewHTTPSource("http://localhost:1", "", time.Second),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := source.FetchRate(context.Background(), "USD", "PKR")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConversionConfig)
		})
	}
}

func TestFetchRate_UpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, "test-key", time.Second)
	_, err := source.FetchRate(context.Background(), "USD", "PKR")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConversionUpstream)
}

func TestFetchRate_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening any more

	source := NewHTTPSource(server.URL, "test-key", time.Second)
	_, err := source.FetchRate(context.Background(), "USD", "PKR")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConversionUpstream)
}

func TestFetchRate_UnusableResponses(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"rates":`},
		{"missing rates object", `{"success":true}`},
		{"missing requested symbol", `{"rates":{"USD":1}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			source := NewHTTPSource(server.URL, "test-key", time.Second)
			_, err := source.FetchRate(context.Background(), "USD", "PKR")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConversionConfig)
		})
	}
}

func TestFetchRate_HonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	source := NewHTTPSource(server.URL, "test-key", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := source.FetchRate(ctx, "USD", "PKR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConversionUpstream)
}
