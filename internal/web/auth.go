package web

import (
	"errors"
	"net/http"

	"Quill/internal/api/middleware"
	"Quill/internal/core/authz"
	"Quill/internal/core/users"
)

// LoginForm shows the login form
// GET /auth/login/
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", AuthPage{
		Layout: h.layout(r, "Log in"),
		Next:   r.URL.Query().Get("next"),
	})
}

// Login checks credentials, starts a session and follows next when it is a local path
// POST /auth/login/
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	next := r.PostFormValue("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}

	user, err := h.userService.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			h.logger.Info("failed login", "username", username, "ip", r.RemoteAddr)
			h.render(w, r, http.StatusOK, "login.html", AuthPage{
				Layout:   h.layout(r, "Log in"),
				Username: username,
				Next:     next,
				Error:    "Please enter a correct username and password. Note that both fields may be case-sensitive.",
			})
			return
		}
		h.handleError(w, r, err, 0)
		return
	}

	if err := h.auth.Login(w, r, user); err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	h.logger.Info("user logged in", "username", user.Username)
	http.Redirect(w, r, middleware.SafeNext(next, "/"), http.StatusFound)
}

// SignupForm shows the registration form
// GET /auth/signup/
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup.html", AuthPage{Layout: h.layout(r, "Sign up")})
}

// Signup registers the account, logs it in and goes home
// POST /auth/signup/
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	req := users.RegisterRequest{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		var valErr *users.ValidationError
		if errors.As(err, &valErr) {
			h.render(w, r, http.StatusOK, "signup.html", AuthPage{
				Layout:   h.layout(r, "Sign up"),
				Username: req.Username,
				Errors:   valErr.Fields,
			})
			return
		}
		h.handleError(w, r, err, 0)
		return
	}

	if err := h.auth.Login(w, r, user); err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	h.logger.Info("user registered", "username", user.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout ends the session and shows the logged-out page
// GET|POST /auth/logout/
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(w, r); err != nil {
		h.handleError(w, r, err, 0)
		return
	}
	layout := h.layout(r, "Logged out")
	layout.Viewer = authz.Anonymous
	h.render(w, r, http.StatusOK, "logged_out.html", layout)
}
