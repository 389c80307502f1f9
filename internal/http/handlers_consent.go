package httpx

import (
	"log/slog"
	"net/http"

	"github.com/lovenote/lovenote-web/internal/domain/model"
	"github.com/lovenote/lovenote-web/internal/service/consent"
)

// ConsentHandlers manage the cookie consent cookies.
type ConsentHandlers struct {
	Cookies Cookies
	Logger  *slog.Logger
}

func (h *ConsentHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *ConsentHandlers) state(r *http.Request) model.ConsentState {
	return consent.Resolve(cookieValue(r, consent.CookieName), cookieValue(r, consent.BannerClosedCookieName) != "")
}

// Get reports the visitor's consent. GET /api/consent.
func (h *ConsentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.state(r))
}

// Update merges the submitted categories over the stored preferences.
// Categories absent from the body keep their current value. PUT /api/consent.
func (h *ConsentHandlers) Update(w http.ResponseWriter, r *http.Request) {
	p := h.state(r).Preferences
	if !DecodeJSON(w, r, &p) {
		return
	}
	h.write(w, r, func() (consent.Choice, error) { return consent.Save(p) })
}

// AcceptAll consents to every category. POST /api/consent/accept-all.
func (h *ConsentHandlers) AcceptAll(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, consent.AcceptAll)
}

// RejectAll keeps necessary cookies only. POST /api/consent/reject-all.
func (h *ConsentHandlers) RejectAll(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, consent.RejectAll)
}

// Close hides the banner for a day without consenting. POST /api/consent/close.
func (h *ConsentHandlers) Close(w http.ResponseWriter, r *http.Request) {
	h.Cookies.set(w, r, cookieSpec{
		Name:     consent.BannerClosedCookieName,
		Value:    "true",
		MaxAge:   consent.BannerClosedMaxAge,
		Readable: true,
	})
	st := consent.Resolve(cookieValue(r, consent.CookieName), true)
	WriteJSON(w, http.StatusOK, st)
}

func (h *ConsentHandlers) write(w http.ResponseWriter, r *http.Request, choose func() (consent.Choice, error)) {
	choice, err := choose()
	if err != nil {
		h.logger().ErrorContext(r.Context(), "encode consent failed", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "consent_failed"})
		return
	}
	h.Cookies.set(w, r, cookieSpec{
		Name:     consent.CookieName,
		Value:    choice.Value,
		MaxAge:   consent.CookieMaxAge,
		Readable: true,
	})
	WriteJSON(w, http.StatusOK, choice.State)
}
