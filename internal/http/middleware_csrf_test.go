package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfTestConfig() CSRFConfig {
	return CSRFConfig{
		CookieName:    DefaultCSRFCookieName,
		HeaderName:    DefaultCSRFHeaderName,
		FormFieldName: DefaultCSRFCookieName,
		TokenLength:   DefaultCSRFTokenLength,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// issueCSRFToken performs a GET through the middleware and returns the token
// it set in the cookie.
func issueCSRFToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c.Value
		}
	}
	t.Fatal("CSRF cookie not set")
	return ""
}

func TestCSRFProtection_GetRequestSetsCookie(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	resp := w.Result()
	defer resp.Body.Close()
	var csrfCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			csrfCookie = c
			break
		}
	}
	if csrfCookie == nil {
		t.Fatal("CSRF cookie not set")
	}
	if csrfCookie.Value == "" {
		t.Error("CSRF token is empty")
	}
}

func TestCSRFProtection_PostWithoutTokenFails(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}

func TestCSRFProtection_PostWithValidHeaderToken(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())
	token := issueCSRFToken(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	req.Header.Set(DefaultCSRFHeaderName, token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestCSRFProtection_PostWithValidFormToken(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())
	token := issueCSRFToken(t, handler)

	form := url.Values{}
	form.Set(DefaultCSRFCookieName, token)
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestCSRFProtection_PostWithMismatchedToken(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "cookie-token"})
	req.Header.Set(DefaultCSRFHeaderName, "different-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())

	safeMethods := []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace}
	for _, method := range safeMethods {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/test", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("method %s: expected status 200, got %d", method, w.Code)
			}
		})
	}
}

func TestCSRFProtection_TokenInContext(t *testing.T) {
	var capturedToken string
	handler := CSRFProtection(csrfTestConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedToken = GetCSRFToken(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if capturedToken == "" {
		t.Error("CSRF token not available in context")
	}

	resp := w.Result()
	defer resp.Body.Close()
	var cookieToken string
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			cookieToken = c.Value
			break
		}
	}
	if capturedToken != cookieToken {
		t.Errorf("context token %q does not match cookie token %q", capturedToken, cookieToken)
	}
}

func TestCSRFProtection_CookieAttributes(t *testing.T) {
	cfg := CSRFConfig{
		CookieName:   DefaultCSRFCookieName,
		CookieDomain: "portal.example.com",
		TokenLength:  DefaultCSRFTokenLength,
	}
	handler := CSRFProtection(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "http://portal.example.com/test", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	var csrfCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			csrfCookie = c
			break
		}
	}
	if csrfCookie == nil {
		t.Fatal("CSRF cookie not set")
	}

	if !csrfCookie.Secure {
		t.Error("expected Secure flag to be true when X-Forwarded-Proto=https")
	}
	if csrfCookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("expected SameSite=Strict, got %v", csrfCookie.SameSite)
	}
	if csrfCookie.HttpOnly {
		t.Error("expected HttpOnly to be false (must be readable by JavaScript)")
	}
	if csrfCookie.Domain != "portal.example.com" {
		t.Errorf("expected Domain=portal.example.com, got %q", csrfCookie.Domain)
	}
	if csrfCookie.Path != "/" {
		t.Errorf("expected Path=/, got %q", csrfCookie.Path)
	}
}

func TestCSRFProtection_CookieNotSetWhenExists(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())
	token := issueCSRFToken(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	if len(resp.Cookies()) > 0 {
		t.Error("expected no Set-Cookie header when token already exists")
	}
}

func TestCSRFProtection_JSONBodyRequiresHeader(t *testing.T) {
	handler := CSRFProtection(csrfTestConfig())(okHandler())
	token := issueCSRFToken(t, handler)

	t.Run("JSON POST without header fails", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"key":"value"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected status 403 for JSON POST without header, got %d", w.Code)
		}
	})

	t.Run("JSON POST with header succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"key":"value"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(DefaultCSRFHeaderName, token)
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status 200 for JSON POST with header, got %d", w.Code)
		}
	})
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token := GetCSRFToken(req); token != "" {
		t.Errorf("expected empty token, got %q", token)
	}
}
