package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
	"github.com/carehaven/carehome-admin/internal/http/validation"
	"github.com/carehaven/carehome-admin/internal/service"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 10 * time.Minute
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SignIn(ctx context.Context, previousID string, creds domainauth.Credentials) (domainauth.Session, error)
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	SSOEnabled() bool
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc AuthServiceInterface
	UI  *UIHandlers
	// CallbackURL is the absolute OIDC redirect URL registered with the IdP.
	CallbackURL string
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// signInView is the data the sign-in form needs besides the layout.
type signInView struct {
	Email       string
	RedirectURI string
	Errors      map[string]string
	General     string
}

// SignInPage renders the password sign-in form.
// GET /auth/signin?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if IsSignedIn(r.Context()) {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	h.renderSignIn(w, r, signInView{RedirectURI: redirect})
}

// SignIn exchanges the submitted credentials for a session.
// POST /auth/signin.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	view := signInView{
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		RedirectURI: safeRedirectPath(r.PostFormValue("redirect_uri")),
	}
	password := r.PostFormValue("password")

	view.Errors = validation.New().
		Validate("email", view.Email, validation.Required("Email", 254), validation.Email("Email")).
		Validate("password", password, validation.Required("Password", 256)).
		Errors()
	if len(view.Errors) > 0 {
		h.renderSignIn(w, r, view)
		return
	}

	previousID := ""
	if c, err := r.Cookie(SessionCookieName); err == nil {
		previousID = c.Value
	}
	sess, err := h.Svc.SignIn(r.Context(), previousID, domainauth.Credentials{Email: view.Email, Password: password})
	if err != nil {
		h.logger().InfoContext(r.Context(), "sign-in failed", "error_code", string(apperrors.GetCode(err)))
		switch {
		case apperrors.IsUnauthorized(err):
			view.General = "Invalid email or password."
		case apperrors.GetCode(err) == apperrors.ErrCodeForbidden:
			view.General = apperrors.UserMessage(err, "This account has no access to the admin dashboard.")
		default:
			view.Errors = fieldErrorsFrom(err)
			view.General = errorMessage(err, "Unable to sign in. Please try again.")
		}
		h.renderSignIn(w, r, view)
		return
	}

	h.setSessionCookie(w, sess)
	http.Redirect(w, r, view.RedirectURI, http.StatusSeeOther)
}

// SignOut clears the session and its cookie.
// POST /auth/signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	clearCookie(w, SessionCookieName, h.cookies())

	redirectURI := r.FormValue("redirect_uri")
	if redirectURI == "" {
		redirectURI = "/"
	}
	q := url.Values{}
	q.Set("redirect_uri", safeRedirectPath(redirectURI))
	target := (&url.URL{Path: "/auth/signed-out", RawQuery: q.Encode()}).String()

	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// SignedOut renders the signed-out confirmation with a link back to sign-in.
// GET /auth/signed-out.
func (h *AuthHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	data := NewTemplateData(r, PageMeta{Title: "Signed out", PageTitle: "Signed out", CurrentPage: PageSignedOut, View: ViewSignedOut}).
		With("SignInURL", "/auth/signin?redirect_uri="+url.QueryEscape(redirect)).
		Build()
	h.UI.renderPage(w, r, data)
}

// Login starts the OIDC authorization code flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if !h.Svc.SSOEnabled() {
		http.Redirect(w, r, "/auth/signin?redirect_uri="+url.QueryEscape(redirectURI), http.StatusSeeOther)
		return
	}

	result, err := h.Svc.BeginLogin(r.Context(), h.CallbackURL)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		h.renderSignIn(w, r, signInView{RedirectURI: redirectURI, General: "Single sign-on is unavailable. Please try again."})
		return
	}

	cookies := h.cookies()
	setCookie(w, oauthStateCookie, result.State, oauthCookieLifetime, cookies)
	setCookie(w, oauthNonceCookie, result.Nonce, oauthCookieLifetime, cookies)
	setCookie(w, postLoginCookie, redirectURI, oauthCookieLifetime, cookies)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the OIDC flow started by Login.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if code == "" || state == "" || err != nil || stateCookie.Value != state {
		http.Error(w, "invalid or missing state parameter", http.StatusBadRequest)
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		http.Error(w, "missing nonce parameter", http.StatusBadRequest)
		return
	}

	previousID := ""
	if c, cookieErr := r.Cookie(SessionCookieName); cookieErr == nil {
		previousID = c.Value
	}
	sess, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		PreviousSessionID: previousID,
		Code:              code,
		State:             state,
		Nonce:             nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login completion failed", "error", err)
		h.renderSignIn(w, r, signInView{RedirectURI: "/", General: "Single sign-on failed. Please try again."})
		return
	}

	cookies := h.cookies()
	clearCookie(w, oauthStateCookie, cookies)
	clearCookie(w, oauthNonceCookie, cookies)
	redirectURI := "/"
	if c, cookieErr := r.Cookie(postLoginCookie); cookieErr == nil {
		redirectURI = safeRedirectPath(c.Value)
		clearCookie(w, postLoginCookie, cookies)
	}
	h.setSessionCookie(w, sess)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

func (h *AuthHandlers) renderSignIn(w http.ResponseWriter, r *http.Request, v signInView) {
	b := NewTemplateData(r, PageMeta{Title: "Sign in", PageTitle: "Sign in", CurrentPage: PageSignIn, View: ViewSignIn}).
		With("Email", v.Email).
		With("RedirectURI", v.RedirectURI).
		With("SSOEnabled", h.Svc.SSOEnabled()).
		With("SSOURL", "/auth/login?redirect_uri="+url.QueryEscape(v.RedirectURI)).
		WithFieldErrors(v.Errors)
	switch {
	case v.General != "":
		b.WithError(v.General)
	case len(v.Errors) > 0:
		b.WithError(errMsgFixBelow)
	}
	h.UI.renderPage(w, r, b.Build())
}

func (h *AuthHandlers) cookies() CookieConfig {
	if h.UI == nil {
		return CookieConfig{}
	}
	return h.UI.Cookies
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, s domainauth.Session) {
	ttl := time.Until(s.ExpiresAt)
	if s.ExpiresAt.IsZero() || ttl <= 0 {
		ttl = service.DefaultSessionTTL
	}
	setCookie(w, SessionCookieName, s.ID, ttl, h.cookies())
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
