// HTTP 服务器生命周期测试。
package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	return NewManager(handler, Config{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestManager_StartAndShutdown(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Start())

	resp, err := http.Get("http://" + m.listener.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	require.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_StartTwice(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Start())
	defer m.Shutdown(context.Background())

	err := m.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestManager_StartAfterClose(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Start())
	require.NoError(t, m.Shutdown(context.Background()))

	err := m.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestManager_ShutdownIdempotent(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Start())
	require.NoError(t, m.Shutdown(context.Background()))
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_ListenError(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Start())
	defer m.Shutdown(context.Background())

	other := NewManager(http.NotFoundHandler(), Config{
		Addr:            m.listener.Addr().String(),
		ShutdownTimeout: time.Second,
	}, zap.NewNop())
	assert.Error(t, other.Start())
}

func TestManager_Addr(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, "127.0.0.1:0", m.Addr())
}
