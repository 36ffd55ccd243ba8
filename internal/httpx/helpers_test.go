package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/juju/clock/testclock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv      *httptest.Server
	sessions *session.Manager
	mr       *miniredis.Miniredis
}

func newTestServer(t *testing.T, src catalog.Source) *testServer {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clk := testclock.NewClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	sessions := session.NewManager(session.RedisRepositories{Client: client}, clk)

	router := httpx.NewRouter()
	if src != nil {
		(&httpx.CatalogHandler{Source: src}).Register(router)
	}
	router.Group(func(r chi.Router) {
		r.Use(httpx.WithSession(sessions, time.Hour))
		(&httpx.StorefrontHandler{Checkout: checkout.NewService(clk, 0, nil, "storefront-api")}).Register(r)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, sessions: sessions, mr: mr}
}

// do sends body as JSON and decodes the response into out when out is set.
func (s *testServer) do(t *testing.T, sessionID, method, path string, body any, out any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, s.srv.URL+path, rd)
	require.NoError(t, err)
	if sessionID != "" {
		req.Header.Set(httpx.SessionHeader, sessionID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

type errResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
