package log

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"giftible/internal/domain"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })
	return logs
}

func TestRequestFields(t *testing.T) {
	logs := observe(t)

	app := fiber.New()
	app.Get("/cart", func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-1")
		c.Locals("user", &domain.User{ID: "u-9"})
		Audit(c, "cart.view", map[string]any{"items": 2})
		Security(c, "access.denied", nil)
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/cart", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)

	audit := entries[0]
	assert.Equal(t, "cart.view", audit.Message)
	assert.Equal(t, zapcore.InfoLevel, audit.Level)
	ctx := audit.ContextMap()
	assert.Equal(t, "audit", ctx["kind"])
	assert.Equal(t, "GET", ctx["method"])
	assert.Equal(t, "/cart", ctx["path"])
	assert.Equal(t, "req-1", ctx["req_id"])
	assert.Equal(t, "u-9", ctx["user_id"])
	assert.Equal(t, map[string]any{"items": 2}, ctx["fields"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "security", entries[1].ContextMap()["kind"])
}

func TestErrorWithoutRequest(t *testing.T) {
	logs := observe(t)
	Error(nil, "startup.fail", assert.AnError, nil)

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, e.Level)
	assert.Equal(t, "error", e.ContextMap()["kind"])
	assert.Equal(t, assert.AnError.Error(), e.ContextMap()["error"])
	_, hasPath := e.ContextMap()["path"]
	assert.False(t, hasPath)
}

func TestNewWritesFile(t *testing.T) {
	path := t.TempDir() + "/app.log"
	l, err := New(path)
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"action":"hello"`)
}
