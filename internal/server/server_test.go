package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank/corebank/internal/config"
	"github.com/corebank/corebank/internal/logging"
)

func TestNewInDevelopmentUsesMemoryStores(t *testing.T) {
	cfg := config.Config{AppName: "test", AppEnv: "development", Port: "0", DefaultAccountAmount: 1000, TransferCommission: 0.1}
	srv, err := New(cfg, nil, nil, logging.Discard())
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/users", strings.NewReader(`{"login":"ann"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = srv.App().Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/users/5", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewRejectsMissingBackendsInProduction(t *testing.T) {
	_, err := New(config.Config{AppEnv: "production"}, nil, nil, logging.Discard())
	assert.Error(t, err)
}
