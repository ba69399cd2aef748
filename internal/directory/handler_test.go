package directory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/corebank/internal/logging"
	"github.com/corebank/corebank/internal/middleware"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	users, _ := newTestServices(t)
	h := NewHandler(users)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logging.Discard())})
	app.Post("/users", h.Create)
	app.Get("/users", h.List)
	app.Get("/users/:userId", h.Get)
	return app
}

func postUser(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHandlerCreateAndGet(t *testing.T) {
	app := newTestApp(t)

	resp := postUser(t, app, `{"login":"ann"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "ann", created.Login)
	assert.Equal(t, []int64{1}, created.AccountIDs)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/users/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/users/2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlerCreateErrors(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, postUser(t, app, `{"login":"ann"}`).StatusCode)

	assert.Equal(t, http.StatusConflict, postUser(t, app, `{"login":"ann"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, postUser(t, app, `{}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, postUser(t, app, `{"login":"   "}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, postUser(t, app, `{"login":`).StatusCode)
}

func TestHandlerList(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/users", nil))
	require.NoError(t, err)
	var users []userResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	assert.Empty(t, users)

	postUser(t, app, `{"login":"ann"}`)
	postUser(t, app, `{"login":"bob"}`)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/users", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Login)
	assert.Equal(t, []int64{2}, users[1].AccountIDs)
}
