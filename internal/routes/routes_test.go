package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/corebank/internal/config"
	"github.com/corebank/corebank/internal/logging"
	"github.com/corebank/corebank/internal/middleware"
)

func newApp(t *testing.T, cache *redis.Client) *fiber.App {
	t.Helper()
	logger := logging.Discard()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	cfg := config.Config{
		AppEnv:               "test",
		DefaultAccountAmount: 1000,
		TransferCommission:   0.1,
		CreateUserRateLimit:  3,
	}
	require.NoError(t, Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logger}))
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestSetupRequiresBackendsOutsideDev(t *testing.T) {
	app := fiber.New()
	err := Setup(app, Deps{Cfg: config.Config{AppEnv: "production"}, Logger: logging.Discard()})
	assert.ErrorContains(t, err, "database is required")
}

func TestBankingRoutesInMemory(t *testing.T) {
	app := newApp(t, nil)

	status, _ := send(t, app, fiber.MethodPost, "/api/v1/users", `{"login":"ann"}`, nil)
	require.Equal(t, http.StatusCreated, status)
	status, _ = send(t, app, fiber.MethodPost, "/api/v1/users", `{"login":"bob"}`, nil)
	require.Equal(t, http.StatusCreated, status)
	status, _ = send(t, app, fiber.MethodPost, "/api/v1/accounts", `{"login":"ann"}`, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body := send(t, app, fiber.MethodPost, "/api/v1/accounts/transfer",
		`{"from_account_id":1,"to_account_id":2,"amount":100}`, nil)
	require.Equal(t, http.StatusOK, status, body)

	status, _ = send(t, app, fiber.MethodPost, "/api/v1/accounts/1/deposit", `{"amount":100}`, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = send(t, app, fiber.MethodPost, "/api/v1/accounts/3/withdraw", `{"amount":50}`, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = send(t, app, fiber.MethodDelete, "/api/v1/accounts/3", "", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = send(t, app, fiber.MethodGet, "/api/v1/users/1/accounts", "", nil)
	require.Equal(t, http.StatusOK, status)
	var accounts []struct {
		ID      int64 `json:"id"`
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(1950), accounts[0].Balance)

	status, body = send(t, app, fiber.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"account_ids":[1]`)
	assert.Contains(t, body, `"account_ids":[2]`)

	status, _ = send(t, app, fiber.MethodGet, "/api/v1/accounts/3", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndPing(t *testing.T) {
	app := newApp(t, nil)

	status, body := send(t, app, fiber.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"postgres":"disabled"`)

	status, body = send(t, app, fiber.MethodGet, "/api/v1/ping", "", map[string]string{"X-Request-ID": "req-1"})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"request_id":"req-1"`)
}

func TestRoutesWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	app := newApp(t, client)

	idem := map[string]string{"Idempotency-Key": "dep-1"}
	status, _ := send(t, app, fiber.MethodPost, "/api/v1/users", `{"login":"ann"}`, nil)
	require.Equal(t, http.StatusCreated, status)

	status, first := send(t, app, fiber.MethodPost, "/api/v1/accounts/1/deposit", `{"amount":10}`, idem)
	require.Equal(t, http.StatusOK, status)
	status, replay := send(t, app, fiber.MethodPost, "/api/v1/accounts/1/deposit", `{"amount":10}`, idem)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, first, replay)

	status, body := send(t, app, fiber.MethodGet, "/api/v1/accounts/1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"balance":1010`)

	status, body = send(t, app, fiber.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"redis":"ok"`)

	send(t, app, fiber.MethodPost, "/api/v1/users", `{"login":"bob"}`, nil)
	send(t, app, fiber.MethodPost, "/api/v1/users", `{"login":"carol"}`, nil)
	status, _ = send(t, app, fiber.MethodPost, "/api/v1/users", `{"login":"dave"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
}
