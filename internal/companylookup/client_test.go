package companylookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPClient(ClientConfig{BaseURL: server.URL + "/cnpj/", Timeout: time.Second, HTTPClient: server.Client()})
}

func TestHTTPClient_ResolveCompanyName(t *testing.T) {
	var requested string
	client := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cnpj_raiz":"11222333","razao_social":"  ACME INDUSTRIA LTDA "}`))
	})

	name, err := client.ResolveCompanyName(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "ACME INDUSTRIA LTDA", name)
	assert.Equal(t, "/cnpj/11222333000181", requested)
}

func TestHTTPClient_MissingNameIsNotInformed(t *testing.T) {
	for _, body := range []string{`{}`, `{"razao_social":null}`, `{"razao_social":"   "}`} {
		client := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		name, err := client.ResolveCompanyName(context.Background(), "11222333000181")
		require.NoError(t, err, body)
		assert.Equal(t, NotInformed, name, body)
	}
}

func TestHTTPClient_FailureCategories(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category Category
	}{
		{"not found", http.StatusNotFound, `{"status":404}`, CategoryNotFound},
		{"rate limited", http.StatusTooManyRequests, ``, CategoryRateLimited},
		{"server error", http.StatusBadGateway, ``, CategoryOutage},
		{"gateway timeout", http.StatusGatewayTimeout, ``, CategoryTimeout},
		{"unexpected client error", http.StatusBadRequest, ``, CategoryBadData},
		{"malformed json", http.StatusOK, `{"razao_social":`, CategoryBadData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.ResolveCompanyName(context.Background(), "11222333000181")
			require.Error(t, err)

			var le *LookupError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.category, le.Category)
		})
	}
}

func TestHTTPClient_RejectsMalformedTaxID(t *testing.T) {
	called := false
	client := newRegistry(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := client.ResolveCompanyName(context.Background(), "1122")
	assert.Equal(t, CategoryBadData, CategoryOf(err))
	assert.False(t, called)
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ResolveCompanyName(ctx, "11222333000181")
	assert.Equal(t, CategoryTimeout, CategoryOf(err))
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewHTTPClient(ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := client.ResolveCompanyName(context.Background(), "11222333000181")
	assert.Equal(t, CategoryOutage, CategoryOf(err))
}
