package httpx

import (
	"log/slog"
	"net/http"

	"github.com/lovenote/lovenote-web/internal/domain/access"
	"github.com/lovenote/lovenote-web/internal/observability/metrics"
	"github.com/lovenote/lovenote-web/internal/ports"
)

// FlagGateKey is the tab flag holding the validated key of the gated page.
const FlagGateKey = "me_page_key"

// KeyGateHandler serves Page behind a static shared secret.
//
// GET evaluates ?key= and the key remembered for the tab. POST handles the
// prompt: field "key" submits a key, action=cancel rejects the visitor.
type KeyGateHandler struct {
	Secret       string
	FallbackPath string
	Flags        ports.FlagStore
	Guards       *Guards
	Page         http.Handler
	Logger       *slog.Logger
}

func (h *KeyGateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tabID := GetTabID(ctx)
	gate := access.NewKeyGate(h.Secret, h.FallbackPath)

	stored, storeErr := h.storedKey(r, tabID)
	persist := gate.Mount(r.URL.Query().Get("key"), stored)

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
			return
		}
		if r.PostForm.Get("action") == "cancel" {
			gate.Deny()
		} else {
			// A tab that is already authorized has no prompt to answer.
			prompting := gate.ModalVisible()
			ok := gate.Submit(r.PostForm.Get("key"))
			persist = persist || ok
			if prompting {
				result := "accepted"
				if !ok {
					result = "rejected"
				}
				metrics.Count(h.Guards.Metrics, metrics.KeyGateAttempt, metrics.Tags{"result": result})
			}
		}
	} else if storeErr != nil && gate.State() != access.GateAuthorized {
		// Whether the tab already unlocked the page is unknown.
		h.Guards.Respond(w, r, access.Result{Outcome: access.ShowLoading}, h.Page)
		return
	}

	persisted := false
	if persist {
		persisted = h.persist(r, tabID)
	}

	view := gate.View()
	switch {
	case view.Outcome == access.ShowPrompt:
		data := newPageData(r, "Accès protégé", contentPrompt)
		data.FormAction = r.URL.Path
		data.PromptErr = gate.Error()
		w.Header().Set("Cache-Control", "no-store")
		h.Guards.render(w, http.StatusUnauthorized, data)
	case r.Method == http.MethodPost && view.Outcome == access.RenderChildren && persisted:
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
	default:
		h.Guards.Respond(w, r, view, h.Page)
	}
}

func (h *KeyGateHandler) storedKey(r *http.Request, tabID string) (string, error) {
	if h.Flags == nil || tabID == "" {
		return "", nil
	}
	v, _, err := h.Flags.Get(r.Context(), tabID, FlagGateKey)
	if err != nil {
		h.logger().WarnContext(r.Context(), "read gate key failed", slog.Any("error", err))
		return "", err
	}
	return v, nil
}

func (h *KeyGateHandler) persist(r *http.Request, tabID string) bool {
	if h.Flags == nil || tabID == "" {
		return false
	}
	if err := h.Flags.Set(r.Context(), tabID, FlagGateKey, h.Secret); err != nil {
		h.logger().WarnContext(r.Context(), "persist gate key failed", slog.Any("error", err))
		return false
	}
	return true
}

func (h *KeyGateHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
