package consent

import (
	"testing"

	"github.com/lovenote/lovenote-web/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	value, err := Encode(model.ConsentPreferences{Analytics: true})
	require.NoError(t, err)
	assert.NotContains(t, value, `"`)
	assert.NotContains(t, value, ",")

	p, err := Decode(value)
	require.NoError(t, err)
	assert.Equal(t, model.ConsentPreferences{Necessary: true, Analytics: true}, p)

	_, err = Decode("%%%")
	require.Error(t, err)
}

func TestSave_Idempotent(t *testing.T) {
	prefs := model.ConsentPreferences{Functional: true, Advertising: true}

	first, err := Save(prefs)
	require.NoError(t, err)
	second, err := Save(prefs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.State.HasConsented)
	assert.False(t, first.State.ShowBanner)
	assert.True(t, first.State.Preferences.Necessary, "necessary cannot be refused")
}

func TestAcceptAllRejectAll(t *testing.T) {
	all, err := AcceptAll()
	require.NoError(t, err)
	assert.Equal(t, model.AcceptAllPreferences(), all.State.Preferences)

	none, err := RejectAll()
	require.NoError(t, err)
	assert.Equal(t, model.NecessaryOnlyPreferences(), none.State.Preferences)
	assert.True(t, none.State.HasConsented)
}

func TestResolve(t *testing.T) {
	accepted, err := AcceptAll()
	require.NoError(t, err)

	tests := []struct {
		name      string
		cookie    string
		closed    bool
		consented bool
		banner    bool
	}{
		{name: "first visit", banner: true},
		{name: "closed for today", closed: true},
		{name: "consented", cookie: accepted.Value, consented: true},
		{name: "corrupt cookie", cookie: "not-base64!", banner: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Resolve(tt.cookie, tt.closed)
			assert.Equal(t, tt.consented, st.HasConsented)
			assert.Equal(t, tt.banner, st.ShowBanner)
			assert.True(t, st.Preferences.Necessary)
		})
	}
}
