package httpx

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler() http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_GetIssuesToken(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := csrfCookie(t, rec)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.False(t, c.HttpOnly, "htmx reads the token from the cookie")
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, c.Value, rec.Body.String(), "token exposed to templates")
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	assert.Nil(t, csrfCookie(t, rec))
	assert.Equal(t, "existing", rec.Body.String())
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	const token = "tok-123"
	form := url.Values{DefaultCSRFCookieName: {token}}.Encode()

	tests := []struct {
		name   string
		method string
		header string
		body   string
		ctype  string
		wantOK bool
	}{
		{"missing token", http.MethodPost, "", "", "", false},
		{"header token", http.MethodPost, token, "", "", true},
		{"wrong header token", http.MethodDelete, "other", "", "", false},
		{"form token", http.MethodPost, "", form, "application/x-www-form-urlencoded", true},
		{"form token wrong content type", http.MethodPost, "", form, "text/plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/users", strings.NewReader(tt.body))
			req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			rec := httptest.NewRecorder()
			csrfHandler().ServeHTTP(rec, req)

			if tt.wantOK {
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		})
	}
}

func TestCSRFProtection_MultipartFormToken(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(DefaultCSRFCookieName, "tok"))
	require.NoError(t, mw.WriteField("title", "Fire policy"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	h := CSRFProtection(CSRFConfig{})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.True(t, csrfCookie(t, rec).Secure)

	rec = httptest.NewRecorder()
	CSRFProtection(CSRFConfig{Secure: true})(http.NotFoundHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, csrfCookie(t, rec).Secure)
}
