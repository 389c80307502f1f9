package httpx

import (
	"net/http"
)

// renderPage renders data, degrading to a plain-text body without a renderer.
func renderPage(renderer *TemplateRenderer, w http.ResponseWriter, status int, data PageData) {
	if renderer == nil {
		http.Error(w, data.Title, status)
		return
	}
	if err := renderer.Render(w, status, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// PageHandlers render the page shells of the application.
type PageHandlers struct {
	Renderer *TemplateRenderer
}

// Page renders a shell page titled title.
func (h *PageHandlers) Page(title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderPage(h.Renderer, w, http.StatusOK, newPageData(r, title, contentPage))
	})
}

// AuthPage renders a sign-in or sign-up page posting back to itself with the
// query intact, so "from", "redirect" and "template" reach the login flow.
func (h *PageHandlers) AuthPage(title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(r, title, contentAuth)
		data.FormAction = r.URL.RequestURI()
		renderPage(h.Renderer, w, http.StatusOK, data)
	})
}

// ErrorPage renders a navigable error page.
func (h *PageHandlers) ErrorPage(title, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(r, title, contentError)
		data.Message = message
		renderPage(h.Renderer, w, http.StatusOK, data)
	})
}

// NotFound answers unknown paths.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsAPIRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found"})
		return
	}
	renderPage(h.Renderer, w, http.StatusNotFound, newPageData(r, "Page introuvable", contentNotFound))
}
