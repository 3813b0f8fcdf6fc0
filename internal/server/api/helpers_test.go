package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/server/catalog"
	"github.com/dmitrijs2005/flock/internal/server/config"
	"github.com/dmitrijs2005/flock/internal/server/users"
)

const testSecret = "test-secret"

type testEnv struct {
	srv   *httptest.Server
	users *users.Service
	reg   *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{SecretKey: testSecret, TokenTTL: time.Hour}
	us := users.NewService(users.NewMemoryRepository(), cfg, users.WithHashCost(bcrypt.MinCost))
	reg := prometheus.NewRegistry()
	s := NewServer("", logging.Discard(), us, catalog.NewStore(catalog.DefaultSeed()), reg)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: ts, users: us, reg: reg}
}

func (e *testEnv) post(t *testing.T, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(t, req)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(t, err)
	return e.do(t, req)
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func registrationBody() map[string]any {
	return map[string]any{
		"first_name":         "Grace",
		"last_name":          "Hopper",
		"email":              "grace@example.com",
		"password":           "longpassword",
		"birthday":           "1906-12-09",
		"outreach_id":        1,
		"phone_number":       "+1 555 0100",
		"cell_leader_id":     nil,
		"is_leader":          false,
		"is_primary":         false,
		"is_pastor":          false,
		"is_ministry_leader": false,
	}
}
