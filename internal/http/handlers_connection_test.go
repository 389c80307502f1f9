package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmocks "github.com/lovenote/lovenote-web/internal/mocks/auth"
	"github.com/lovenote/lovenote-web/internal/service/connection"
)

type probeFunc func(ctx context.Context) error

func (f probeFunc) Probe(ctx context.Context) error { return f(ctx) }

func newConnectionRouter(t *testing.T, probeErr *atomic.Value, retries *atomic.Int32) (http.Handler, *authmocks.MemoryFlagStore) {
	t.Helper()
	flags := authmocks.NewMemoryFlagStore()
	reg, err := connection.NewRegistry(connection.Options{
		Prober: probeFunc(func(context.Context) error {
			if e, ok := probeErr.Load().(error); ok {
				return e
			}
			return nil
		}),
		Flags:   flags,
		OnRetry: func(context.Context) { retries.Add(1) },
	})
	require.NoError(t, err)
	return NewRouter(RouterServices{Connection: reg}), flags
}

func connectionCall(t *testing.T, h http.Handler, method, path string) connection.View {
	t.Helper()
	rec := serve(h, gateRequest(method, path, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v connection.View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestConnectionHandlers_OfflineThenRetry(t *testing.T) {
	var probeErr atomic.Value
	var retries atomic.Int32
	router, flags := newConnectionRouter(t, &probeErr, &retries)

	v := connectionCall(t, router, http.MethodGet, "/api/connection")
	assert.False(t, v.Visible)

	v = connectionCall(t, router, http.MethodPost, "/api/connection/offline")
	assert.Equal(t, connection.StateOffline, v.State)
	assert.Equal(t, connection.MessageOffline, v.Message)
	_, seen, _ := flags.Get(t.Context(), testTab, connection.FlagErrorSeen)
	assert.True(t, seen)

	v = connectionCall(t, router, http.MethodPost, "/api/connection/online")
	assert.True(t, v.Visible, "coming back online does not hide the banner")

	probeErr.Store(errors.New("unreachable"))
	v = connectionCall(t, router, http.MethodPost, "/api/connection/retry")
	assert.Equal(t, connection.StateServerUnreachable, v.State)
	assert.Equal(t, connection.MessageUnreachable, v.Message)
	assert.GreaterOrEqual(t, retries.Load(), int32(1))

	v = connectionCall(t, router, http.MethodPost, "/api/connection/dismiss")
	assert.False(t, v.Visible)
	_, seen, _ = flags.Get(t.Context(), testTab, connection.FlagErrorSeen)
	assert.False(t, seen)
}

func TestConnectionHandlers_FlagRestoresBanner(t *testing.T) {
	var probeErr atomic.Value
	var retries atomic.Int32
	router, flags := newConnectionRouter(t, &probeErr, &retries)
	require.NoError(t, flags.Set(t.Context(), testTab, connection.FlagErrorSeen, "1"))

	v := connectionCall(t, router, http.MethodGet, "/api/connection")
	assert.Equal(t, connection.StateOffline, v.State)
}

func TestConnectionHandlers_RequiresTab(t *testing.T) {
	h := &ConnectionHandlers{}
	rec := serve(http.HandlerFunc(h.Get), requestAs(http.MethodGet, "/api/connection", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectionHandlers_RetryWhileReportedOfflineHides(t *testing.T) {
	var probeErr atomic.Value
	var retries atomic.Int32
	router, flags := newConnectionRouter(t, &probeErr, &retries)

	connectionCall(t, router, http.MethodPost, "/api/connection/offline")
	v := connectionCall(t, router, http.MethodPost, "/api/connection/retry")
	assert.Equal(t, connection.StateHidden, v.State)
	assert.False(t, v.Visible)
	_, seen, _ := flags.Get(t.Context(), testTab, connection.FlagErrorSeen)
	assert.False(t, seen)
}
