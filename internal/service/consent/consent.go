// Package consent encodes cookie consent preferences into cookie values.
package consent

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lovenote/lovenote-web/internal/domain/model"
)

// Cookie names and lifetimes.
const (
	CookieName             = "cookie_consent"
	BannerClosedCookieName = "cookie_banner_closed"

	CookieMaxAge       = 365 * 24 * time.Hour
	BannerClosedMaxAge = 24 * time.Hour
)

// Encode serialises preferences into a cookie-safe value. Necessary is always set.
// Equal preferences always encode to the same value.
func Encode(p model.ConsentPreferences) (string, error) {
	raw, err := json.Marshal(p.Normalize())
	if err != nil {
		return "", fmt.Errorf("encode consent: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a cookie value written by Encode.
func Decode(value string) (model.ConsentPreferences, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return model.ConsentPreferences{}, fmt.Errorf("decode consent: %w", err)
	}
	var p model.ConsentPreferences
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.ConsentPreferences{}, fmt.Errorf("decode consent: %w", err)
	}
	return p.Normalize(), nil
}

// Resolve computes the consent state from the consent cookie value (empty when
// absent) and whether the banner was closed for the day. An unreadable cookie
// counts as no consent.
func Resolve(cookieValue string, bannerClosed bool) model.ConsentState {
	state := model.ConsentState{Preferences: model.NecessaryOnlyPreferences()}
	if cookieValue != "" {
		if p, err := Decode(cookieValue); err == nil {
			state.Preferences = p
			state.HasConsented = true
		}
	}
	state.ShowBanner = !state.HasConsented && !bannerClosed
	return state
}

// Choice is the cookie to write for a consent decision and the resulting state.
type Choice struct {
	Value string
	State model.ConsentState
}

// Save records p as the visitor's consent.
func Save(p model.ConsentPreferences) (Choice, error) {
	value, err := Encode(p)
	if err != nil {
		return Choice{}, err
	}
	return Choice{
		Value: value,
		State: model.ConsentState{Preferences: p.Normalize(), HasConsented: true},
	}, nil
}

// AcceptAll consents to every category.
func AcceptAll() (Choice, error) { return Save(model.AcceptAllPreferences()) }

// RejectAll consents to necessary cookies only.
func RejectAll() (Choice, error) { return Save(model.NecessaryOnlyPreferences()) }
