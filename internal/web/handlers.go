package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/middleware"
	"Quill/internal/core/comments"
	"Quill/internal/core/follows"
	"Quill/internal/core/groups"
	"Quill/internal/core/pagecache"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"
)

// Handlers serves every HTML page of the site.
type Handlers struct {
	templates      *Templates
	postService    posts.Service
	commentService comments.Service
	followService  follows.Service
	groupService   groups.Service
	userService    users.UserService
	auth           *middleware.SessionAuth
	pageCache      pagecache.Store
	logger         *slog.Logger
}

// Deps are the collaborators of Handlers
type Deps struct {
	Templates      *Templates
	PostService    posts.Service
	CommentService comments.Service
	FollowService  follows.Service
	GroupService   groups.Service
	UserService    users.UserService
	Auth           *middleware.SessionAuth
	PageCache      pagecache.Store
	Logger         *slog.Logger
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		templates:      d.Templates,
		postService:    d.PostService,
		commentService: d.CommentService,
		followService:  d.FollowService,
		groupService:   d.GroupService,
		userService:    d.UserService,
		auth:           d.Auth,
		pageCache:      d.PageCache,
		logger:         logger,
	}
}

func (h *Handlers) layout(r *http.Request, title string) Layout {
	return Layout{
		Viewer: middleware.GetPrincipal(r.Context()),
		Title:  title,
		Path:   r.URL.Path,
	}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	if err := h.templates.RenderStatus(w, status, name, data); err != nil {
		h.logger.Error("failed to render page", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NotFound renders the 404 page
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "404.html", h.layout(r, "Page not found"))
}

// handleError maps service errors to responses. postID, when non-zero, is where
// forbidden edits are sent back to.
func (h *Handlers) handleError(w http.ResponseWriter, r *http.Request, err error, postID int64) {
	switch {
	case posts.IsNotFound(err), users.IsNotFound(err), groups.IsNotFound(err), comments.IsNotFound(err):
		h.NotFound(w, r)
	case errors.Is(err, posts.ErrUnauthorized), errors.Is(err, comments.ErrUnauthorized), errors.Is(err, follows.ErrUnauthorized):
		http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusFound)
	case errors.Is(err, posts.ErrForbidden):
		if postID > 0 {
			http.Redirect(w, r, postURL(postID), http.StatusFound)
			return
		}
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// postIDParam parses {id}; ok is false for anything but a positive integer
func postIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postURL(id int64) string {
	return "/posts/" + formatID(id) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
