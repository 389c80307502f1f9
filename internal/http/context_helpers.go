package httpx

import (
	"context"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/domain/model"
)

type (
	sessionStateKey struct{}
	tabIDKey        struct{}
)

// SetSessionStateInContext returns a child context carrying the resolved session state.
func SetSessionStateInContext(ctx context.Context, state domainauth.SessionState) context.Context {
	return context.WithValue(ctx, sessionStateKey{}, state)
}

// GetSessionState returns the session state resolved for the request. Requests that
// did not pass through session resolution are anonymous.
func GetSessionState(ctx context.Context) domainauth.SessionState {
	if st, ok := ctx.Value(sessionStateKey{}).(domainauth.SessionState); ok {
		return st
	}
	return domainauth.Anonymous()
}

// GetSessionFromContext returns the authenticated session, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	st := GetSessionState(ctx)
	if !st.IsAuthenticated() {
		return nil
	}
	return st.Session
}

// ViewerFromContext describes the request's visitor for catalog reads.
func ViewerFromContext(ctx context.Context) model.Viewer {
	st := GetSessionState(ctx)
	v := model.Viewer{Loading: st.IsLoading(), Authenticated: st.IsAuthenticated()}
	if v.Authenticated {
		v.Premium = st.Session.HasRole(string(domainauth.RolePremium))
	}
	return v
}

// SetTabIDInContext returns a child context carrying the browser tab id.
func SetTabIDInContext(ctx context.Context, tabID string) context.Context {
	return context.WithValue(ctx, tabIDKey{}, tabID)
}

// GetTabID returns the browser tab id of the request, or "".
func GetTabID(ctx context.Context) string {
	id, _ := ctx.Value(tabIDKey{}).(string)
	return id
}
