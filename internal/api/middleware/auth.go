package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"Quill/internal/core/authz"
	"Quill/internal/core/users"

	"github.com/gorilla/sessions"
)

type contextKey string

const principalKey contextKey = "principal"

const (
	// SessionName is the cookie holding the login session
	SessionName = "quill_session"
	// LoginPath is where anonymous callers are sent
	LoginPath = "/auth/login/"

	sessionUserID = "user_id"
	sessionMaxAge = 14 * 24 * 60 * 60
)

// SessionAuth resolves the request principal from a signed cookie session
type SessionAuth struct {
	store       *sessions.CookieStore
	userService users.UserService
}

// NewSessionAuth creates the cookie store. secret signs the cookie; secure marks it HTTPS-only.
func NewSessionAuth(secret []byte, secure bool, userService users.UserService) *SessionAuth {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionAuth{store: store, userService: userService}
}

// LoadPrincipal puts the session's user (or authz.Anonymous) into the request context.
// Sessions pointing at a deleted user are treated as anonymous.
func (a *SessionAuth) LoadPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := authz.Anonymous

		session, err := a.store.Get(r, SessionName)
		if err != nil {
			// tampered or signed with an old secret
			slog.Debug("ignoring invalid session cookie", "error", err)
		}
		if session != nil {
			if id, ok := session.Values[sessionUserID].(int64); ok && id > 0 {
				user, err := a.userService.GetUserByID(r.Context(), id)
				switch {
				case err == nil:
					principal = authz.NewPrincipal(user.ID, user.Username, user.IsAdmin)
				case users.IsNotFound(err):
					slog.Info("session for unknown user", "user_id", id)
				default:
					slog.Error("failed to load session user", "user_id", id, "error", err)
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(SetPrincipal(r.Context(), principal)))
	})
}

// Login starts a session for user
func (a *SessionAuth) Login(w http.ResponseWriter, r *http.Request, user *users.User) error {
	session, _ := a.store.Get(r, SessionName)
	session.Values[sessionUserID] = user.ID
	session.Options = a.store.Options
	return session.Save(r, w)
}

// Logout expires the session cookie
func (a *SessionAuth) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := a.store.Get(r, SessionName)
	delete(session.Values, sessionUserID)
	opts := *a.store.Options
	opts.MaxAge = -1
	session.Options = &opts
	return session.Save(r, w)
}

// RequireAuth redirects anonymous callers to the login page with next set to the current URI
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetPrincipal(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows administrators only; anonymous callers are sent to login
func RequireAdmin(next http.Handler) http.Handler {
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())
		if !principal.IsAdmin {
			slog.Warn("admin route denied", "user", principal.Username, "path", r.URL.Path)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// LoginURL builds /auth/login/?next=<next>
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// SafeNext returns next if it is a local path, otherwise fallback
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

// GetPrincipal returns the request principal; anonymous if none was set
func GetPrincipal(ctx context.Context) authz.Principal {
	p, _ := ctx.Value(principalKey).(authz.Principal)
	return p
}

// SetPrincipal stores the principal in the context
func SetPrincipal(ctx context.Context, p authz.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// SetTestPrincipal sets the principal in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestPrincipal(ctx context.Context, p authz.Principal) context.Context {
	return SetPrincipal(ctx, p)
}
