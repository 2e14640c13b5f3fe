package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caretrack/pkg/testutil"
)

var (
	testLogger     = slog.New(slog.NewTextHandler(io.Discard, nil))
	protectedPaths = []string{"/store-home", "/store-sensor", "/store-senior", "/assign-sensor", "/get-senior"}
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type stubVerifier struct {
	err error
}

func (v stubVerifier) Verify(string) error { return v.err }

func TestRequireAPIKey(t *testing.T) {
	gate := APIKeyGate{Enabled: true, Header: "api-key", Value: "secret", ProtectedPaths: protectedPaths}
	handler := RequireAPIKey(gate, testLogger, nil)(okHandler())

	t.Run("valid key passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/store-home", nil)
		req.Header.Set("api-key", "secret")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("missing key rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/store-home", nil)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertDetail(t, rr, "Api-key in headers missing or incorrect.")
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/store-home", nil)
		req.Header.Set("api-key", "not-the-secret")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertDetail(t, rr, "Api-key in headers missing or incorrect.")
	})

	t.Run("unprotected path passes without key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/create-jwt", nil)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("query string stays behind the gate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/get-senior?seniorId=100", nil)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestRequireAPIKeyDisabled(t *testing.T) {
	gate := APIKeyGate{Enabled: false, Header: "api-key", Value: "secret", ProtectedPaths: protectedPaths}
	handler := RequireAPIKey(gate, testLogger, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/store-home", nil)
	rr := testutil.DoRequest(handler, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestRequireToken(t *testing.T) {
	gate := TokenGate{Enabled: true, ProtectedPaths: protectedPaths}

	t.Run("valid token passes", func(t *testing.T) {
		handler := RequireToken(gate, stubVerifier{}, testLogger, nil)(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/store-sensor", nil)
		req.Header.Set(TokenHeader, "some-token")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		handler := RequireToken(gate, stubVerifier{}, testLogger, nil)(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/store-sensor", nil)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertDetail(t, rr, "No 'token' key in headers.")
	})

	t.Run("failed verification rejected", func(t *testing.T) {
		handler := RequireToken(gate, stubVerifier{err: errors.New("bad signature")}, testLogger, nil)(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/store-sensor", nil)
		req.Header.Set(TokenHeader, "forged")
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertDetail(t, rr, "Token failed.")
	})

	t.Run("unprotected path never consults the verifier", func(t *testing.T) {
		handler := RequireToken(gate, stubVerifier{err: errors.New("bad signature")}, testLogger, nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/create-jwt", nil)
		rr := testutil.DoRequest(handler, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
	})
}

func TestRequireTokenDisabled(t *testing.T) {
	gate := TokenGate{Enabled: false, ProtectedPaths: protectedPaths}
	handler := RequireToken(gate, stubVerifier{err: errors.New("bad signature")}, testLogger, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPut, "/assign-sensor", nil)
	rr := testutil.DoRequest(handler, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestProtectedPath(t *testing.T) {
	prefixes := []string{"/get-senior", "/store-home"}
	assert.True(t, protectedPath("/get-senior", prefixes))
	assert.True(t, protectedPath("/get-senior/extra", prefixes))
	assert.True(t, protectedPath("/store-home", prefixes))
	assert.False(t, protectedPath("/create-jwt", prefixes))
	assert.False(t, protectedPath("/", prefixes))
}

func TestRequestIDHonorsInboundHeader(t *testing.T) {
	handler := RequestID(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/create-jwt", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	rr := testutil.DoRequest(handler, req)
	assert.Equal(t, "req-abc", rr.Header().Get("X-Request-ID"))

	rr = testutil.DoRequest(handler, httptest.NewRequest(http.MethodGet, "/create-jwt", nil))
	require.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
