package httpx

import (
	"context"
	"net/http"

	"github.com/lovenote/lovenote-web/internal/service/connection"
)

// BannerRegistry hands out the connection banner of a browser tab.
type BannerRegistry interface {
	Banner(ctx context.Context, tabID string) *connection.Banner
}

// ConnectionHandlers drive the connection banner of the requesting tab.
type ConnectionHandlers struct {
	Registry BannerRegistry
}

func (h *ConnectionHandlers) banner(w http.ResponseWriter, r *http.Request) *connection.Banner {
	tabID := GetTabID(r.Context())
	if tabID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_tab"})
		return nil
	}
	return h.Registry.Banner(r.Context(), tabID)
}

func (h *ConnectionHandlers) handle(act func(*connection.Banner, context.Context) connection.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := h.banner(w, r)
		if b == nil {
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		WriteJSON(w, http.StatusOK, act(b, r.Context()))
	}
}

// Get reports the banner. GET /api/connection.
func (h *ConnectionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	h.handle(func(b *connection.Banner, _ context.Context) connection.View { return b.View() })(w, r)
}

// Offline records a browser "offline" event. POST /api/connection/offline.
func (h *ConnectionHandlers) Offline(w http.ResponseWriter, r *http.Request) {
	h.handle((*connection.Banner).HandleOffline)(w, r)
}

// Online records a browser "online" event. POST /api/connection/online.
func (h *ConnectionHandlers) Online(w http.ResponseWriter, r *http.Request) {
	h.handle((*connection.Banner).HandleOnline)(w, r)
}

// Dismiss hides the banner. POST /api/connection/dismiss.
func (h *ConnectionHandlers) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.handle((*connection.Banner).Dismiss)(w, r)
}

// Retry probes now and fires the retry callback. POST /api/connection/retry.
func (h *ConnectionHandlers) Retry(w http.ResponseWriter, r *http.Request) {
	h.handle((*connection.Banner).Retry)(w, r)
}
