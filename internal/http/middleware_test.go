package httpx

import (
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
)

func TestCompression(t *testing.T) {
	content := strings.Repeat("Bienvenue au mariage ! ", 200)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, content)
	})

	tests := []struct {
		name           string
		acceptEncoding string
		method         string
		expectGzip     bool
	}{
		{"client accepts gzip", "gzip, deflate", http.MethodGet, true},
		{"client refuses gzip with q=0", "gzip;q=0, deflate", http.MethodGet, false},
		{"no accept-encoding", "", http.MethodGet, false},
		{"head request", "gzip", http.MethodHead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := serve(Compression(CompressionConfig{Level: 6, MinSize: 256})(handler), req)

			if !tt.expectGzip {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				return
			}
			require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			zr, err := gzip.NewReader(rec.Body)
			require.NoError(t, err)
			got, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, content, string(got))
		})
	}
}

func TestCompression_SmallAndBinaryBodiesPassThrough(t *testing.T) {
	small := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusCreated, map[string]string{"ok": "yes"})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := serve(Compression(CompressionConfig{MinSize: 1024})(small), req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())

	png := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(make([]byte, 4096))
	})
	rec = serve(Compression(CompressionConfig{})(png), req)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Len(t, rec.Body.Bytes(), 4096)
}

func TestRecover(t *testing.T) {
	h := Recover(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIsAPIRequest(t *testing.T) {
	tests := []struct {
		path   string
		accept string
		want   bool
	}{
		{"/api/templates", "", true},
		{"/dashboard", "text/html,application/xhtml+xml", false},
		{"/dashboard", "application/json", true},
		{"/dashboard", "application/json, text/html", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		req.Header.Set("Accept", tt.accept)
		assert.Equal(t, tt.want, IsAPIRequest(req), "%s %q", tt.path, tt.accept)
	}
}

func TestResolveSession(t *testing.T) {
	auth := newFakeAuth(testSession("s1", domainauth.RoleUser))
	var got domainauth.SessionState
	h := ResolveSession(auth)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = GetSessionState(r.Context())
	}))

	serve(h, requestAs(http.MethodGet, "/dashboard", "s1"))
	require.True(t, got.IsAuthenticated())
	assert.Equal(t, "s1", got.Session.ID)

	auth.loading = true
	serve(h, requestAs(http.MethodGet, "/dashboard", "s1"))
	assert.True(t, got.IsLoading())

	serve(h, requestAs(http.MethodGet, "/static/css/app.css", "s1"))
	assert.False(t, got.IsLoading(), "static assets skip session resolution")
	assert.False(t, got.IsAuthenticated())
}

func TestViewerFromContext(t *testing.T) {
	ctx := SetSessionStateInContext(t.Context(), domainauth.Authenticated(testSession("p", domainauth.RolePremium)))
	v := ViewerFromContext(ctx)
	assert.True(t, v.Authenticated)
	assert.True(t, v.Premium)

	v = ViewerFromContext(t.Context())
	assert.False(t, v.Authenticated)
	assert.False(t, v.Loading)
}
