package httpx

import (
	"net/http"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
)

// Content templates.
const (
	contentPage     = "page-content"
	contentLoading  = "loading-content"
	contentDenied   = "denied-content"
	contentPrompt   = "prompt-content"
	contentAuth     = "auth-content"
	contentNotFound = "notfound-content"
	contentError    = "error-content"
)

// PageData is the data passed to the layout template.
type PageData struct {
	Title   string
	Content string // content template name
	Path    string
	Session *domainauth.Session

	// Loading page.
	RefreshSeconds int

	// Denied page.
	Reason string

	// Key prompt.
	FormAction string
	PromptErr  string

	// Error pages.
	Message string
}

func newPageData(r *http.Request, title, content string) PageData {
	return PageData{
		Title:   title,
		Content: content,
		Path:    r.URL.Path,
		Session: GetSessionFromContext(r.Context()),
	}
}
