package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovenote/lovenote-web/internal/domain/model"
	"github.com/lovenote/lovenote-web/internal/service/consent"
)

func consentState(t *testing.T, rec *httptest.ResponseRecorder) model.ConsentState {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var st model.ConsentState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	return st
}

func TestConsentHandlers_FreshVisitorSeesBanner(t *testing.T) {
	router := NewRouter(RouterServices{})

	st := consentState(t, serve(router, requestAs(http.MethodGet, "/api/consent", "")))
	assert.True(t, st.ShowBanner)
	assert.False(t, st.HasConsented)
	assert.True(t, st.Preferences.Necessary)
}

func TestConsentHandlers_UpdateIsIdempotent(t *testing.T) {
	router := NewRouter(RouterServices{})
	body := `{"necessary":false,"functional":true,"analytics":false,"advertising":false}`

	var values []string
	for range 2 {
		req := httptest.NewRequest(http.MethodPut, "/api/consent", strings.NewReader(body))
		rec := serve(router, req)
		c := responseCookie(rec, consent.CookieName)
		require.NotNil(t, c)
		assert.False(t, c.HttpOnly)
		values = append(values, c.Value)

		st := consentState(t, rec)
		assert.True(t, st.HasConsented)
		assert.True(t, st.Preferences.Necessary, "necessary cookies cannot be refused")
		assert.True(t, st.Preferences.Functional)
	}
	assert.Equal(t, values[0], values[1])

	req := requestAs(http.MethodGet, "/api/consent", "")
	req.AddCookie(&http.Cookie{Name: consent.CookieName, Value: values[0]})
	st := consentState(t, serve(router, req))
	assert.True(t, st.HasConsented)
	assert.False(t, st.ShowBanner)
}

func TestConsentHandlers_PartialUpdatesAccumulate(t *testing.T) {
	router := NewRouter(RouterServices{})
	put := func(body, cookie string) (model.ConsentState, string) {
		t.Helper()
		req := httptest.NewRequest(http.MethodPut, "/api/consent", strings.NewReader(body))
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: consent.CookieName, Value: cookie})
		}
		rec := serve(router, req)
		c := responseCookie(rec, consent.CookieName)
		require.NotNil(t, c)
		return consentState(t, rec), c.Value
	}

	_, first := put(`{"functional":true}`, "")
	st, second := put(`{"analytics":true}`, first)
	assert.Equal(t, model.ConsentPreferences{Necessary: true, Functional: true, Analytics: true}, st.Preferences)

	st, _ = put(`{"functional":false,"necessary":false}`, second)
	assert.Equal(t, model.ConsentPreferences{Necessary: true, Analytics: true}, st.Preferences,
		"explicit false revokes one category, necessary stays forced")

	_, again := put(`{"analytics":true}`, second)
	assert.Equal(t, second, again, "re-sending a stored grant is idempotent")
}

func TestConsentHandlers_RejectsUnknownFields(t *testing.T) {
	router := NewRouter(RouterServices{})
	req := httptest.NewRequest(http.MethodPut, "/api/consent", strings.NewReader(`{"marketing":true}`))
	assert.Equal(t, http.StatusBadRequest, serve(router, req).Code)
}

func TestConsentHandlers_AcceptRejectClose(t *testing.T) {
	router := NewRouter(RouterServices{})

	st := consentState(t, serve(router, requestAs(http.MethodPost, "/api/consent/accept-all", "")))
	assert.Equal(t, model.AcceptAllPreferences(), st.Preferences)

	st = consentState(t, serve(router, requestAs(http.MethodPost, "/api/consent/reject-all", "")))
	assert.Equal(t, model.NecessaryOnlyPreferences(), st.Preferences)

	rec := serve(router, requestAs(http.MethodPost, "/api/consent/close", ""))
	c := responseCookie(rec, consent.BannerClosedCookieName)
	require.NotNil(t, c)
	assert.Equal(t, 24*60*60, c.MaxAge)
	st = consentState(t, rec)
	assert.False(t, st.ShowBanner)
	assert.False(t, st.HasConsented)
}
