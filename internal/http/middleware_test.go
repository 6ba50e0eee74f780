package httpx

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clientus/portal/internal/domain/auth"
)

// sessionEcho responds 200 and records the session it saw in the request context.
type sessionEcho struct {
	session *domainauth.Session
	called  bool
}

func (s *sessionEcho) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.session = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func authedRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session-id"})
	return req
}

func TestRequireAuth_NoSession(t *testing.T) {
	echo := &sessionEcho{}
	handler := RequireAuth(&mockAuthService{})(echo.handler())

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
	assert.False(t, echo.called)
}

func TestRequireAuth_ValidSession(t *testing.T) {
	echo := &sessionEcho{}
	handler := RequireAuth(&mockAuthService{})(echo.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("/api/materials"))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, echo.session)
	assert.Equal(t, "test-session-id", echo.session.ID)
}

func TestRequireAuth_SessionLookupFails(t *testing.T) {
	svc := &mockAuthService{
		getSessionFunc: func(context.Context, string) (*domainauth.Session, error) {
			return nil, errors.New("session expired")
		},
	}
	echo := &sessionEcho{}
	handler := RequireAuth(svc)(echo.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("/api/materials"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, echo.called)
}

func TestRequireRole_ClientCannotReachAdmin(t *testing.T) {
	echo := &sessionEcho{}
	handler := RequireRole(&mockAuthService{}, domainauth.RoleAdmin)(echo.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("/api/admin/accounts"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
	assert.False(t, echo.called)
}

func TestRequireRole_AdminSatisfiesClientRequirement(t *testing.T) {
	svc := &mockAuthService{
		getSessionFunc: func(_ context.Context, sessionID string) (*domainauth.Session, error) {
			return &domainauth.Session{ID: sessionID, Role: domainauth.RoleAdmin}, nil
		},
	}
	echo := &sessionEcho{}
	handler := RequireRole(svc, domainauth.RoleClient)(echo.handler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authedRequest("/api/materials"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, echo.called)
}

func TestOptionalAuth(t *testing.T) {
	echo := &sessionEcho{}
	handler := OptionalAuth(&mockAuthService{})(echo.handler())

	// Without a cookie the request continues unauthenticated
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/landing", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, echo.called)
	assert.Nil(t, echo.session)

	// With a valid cookie the session lands in the context
	echo2 := &sessionEcho{}
	handler2 := OptionalAuth(&mockAuthService{})(echo2.handler())
	w2 := httptest.NewRecorder()
	handler2.ServeHTTP(w2, authedRequest("/landing"))
	assert.Equal(t, http.StatusOK, w2.Code)
	require.NotNil(t, echo2.session)
	assert.Equal(t, "test-session-id", echo2.session.ID)
}

func TestHasRequiredRole(t *testing.T) {
	tests := []struct {
		name     string
		user     domainauth.Role
		required domainauth.Role
		expected bool
	}{
		{name: "admin meets admin", user: domainauth.RoleAdmin, required: domainauth.RoleAdmin, expected: true},
		{name: "admin meets client", user: domainauth.RoleAdmin, required: domainauth.RoleClient, expected: true},
		{name: "client meets client", user: domainauth.RoleClient, required: domainauth.RoleClient, expected: true},
		{name: "client below admin", user: domainauth.RoleClient, required: domainauth.RoleAdmin, expected: false},
		{name: "guest below client", user: domainauth.RoleGuest, required: domainauth.RoleClient, expected: false},
		{name: "unknown role denied", user: domainauth.Role("superuser"), required: domainauth.RoleClient, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasRequiredRole(tt.user, tt.required))
		})
	}
}

func TestRoleHome(t *testing.T) {
	assert.Equal(t, "/admin/dashboard", RoleHome(domainauth.RoleAdmin))
	assert.Equal(t, "/", RoleHome(domainauth.RoleClient))
	assert.Equal(t, "/", RoleHome(domainauth.RoleGuest))
}

func TestRequireAuthBrowser_RedirectsBrowserToLanding(t *testing.T) {
	handler := RequireAuthBrowser(&mockAuthService{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/materiais", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/landing", w.Header().Get("Location"))
}

func TestRequireAuthBrowser_HTMXRedirect(t *testing.T) {
	handler := RequireAuthBrowser(&mockAuthService{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/materiais", nil)
	req.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/landing", w.Header().Get("Hx-Redirect"))
}

func TestRequireAuthBrowser_APIGets401(t *testing.T) {
	handler := RequireAuthBrowser(&mockAuthService{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestRequireRoleBrowser_WrongRoleGoesHome(t *testing.T) {
	// A client hitting an admin page is sent to their own home, not an error page.
	handler := RequireRoleBrowser(&mockAuthService{}, domainauth.RoleAdmin)(okHandler())

	req := authedRequest("/admin/clientes")
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRequireRoleBrowser_AdminPasses(t *testing.T) {
	svc := &mockAuthService{
		getSessionFunc: func(_ context.Context, sessionID string) (*domainauth.Session, error) {
			return &domainauth.Session{ID: sessionID, Role: domainauth.RoleAdmin}, nil
		},
	}
	echo := &sessionEcho{}
	handler := RequireRoleBrowser(svc, domainauth.RoleAdmin)(echo.handler())

	req := authedRequest("/admin/clientes")
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, echo.called)
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		headers  map[string]string
		expected bool
	}{
		{name: "api path", path: "/api/materials", headers: map[string]string{"Accept": "text/html"}, expected: false},
		{name: "static path", path: "/static/app.css", expected: false},
		{name: "htmx request", path: "/materiais", headers: map[string]string{"Hx-Request": "true"}, expected: true},
		{name: "html accept", path: "/materiais", headers: map[string]string{"Accept": "text/html,application/xhtml+xml"}, expected: true},
		{name: "json accept", path: "/materiais", headers: map[string]string{"Accept": "application/json"}, expected: false},
		{name: "no accept header", path: "/materiais", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, IsBrowserRequest(r))
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected bool
	}{
		{name: "plain gzip", header: "gzip", expected: true},
		{name: "gzip with deflate", header: "gzip, deflate, br", expected: true},
		{name: "gzip with q value", header: "gzip;q=0.8", expected: true},
		{name: "gzip disabled via q", header: "gzip;q=0", expected: false},
		{name: "no gzip", header: "deflate, br", expected: false},
		{name: "empty header", header: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, acceptsGzip(tt.header))
		})
	}
}

func TestCompression_CompressesHTML(t *testing.T) {
	handler := Compression(CompressionConfig{Level: gzip.DefaultCompression})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(strings.Repeat("<p>conteúdo</p>", 100)))
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	res := w.Result()
	t.Cleanup(func() { _ = res.Body.Close() })

	assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
	assert.Contains(t, res.Header.Values("Vary"), "Accept-Encoding")

	gr, err := gzip.NewReader(res.Body)
	require.NoError(t, err)
	decompressed, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Contains(t, string(decompressed), "<p>conteúdo</p>")
}

func TestCompression_SkipsNonCompressibleContent(t *testing.T) {
	handler := Compression(CompressionConfig{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("binary-ish"))
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	res := w.Result()
	t.Cleanup(func() { _ = res.Body.Close() })

	assert.Empty(t, res.Header.Get("Content-Encoding"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "binary-ish", string(body))
}

func TestCompression_SkipsClientsWithoutGzip(t *testing.T) {
	handler := Compression(CompressionConfig{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>ok</p>"))
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	res := w.Result()
	t.Cleanup(func() { _ = res.Body.Close() })

	assert.Empty(t, res.Header.Get("Content-Encoding"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", string(body))
}
