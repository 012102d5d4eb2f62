package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/middleware"
	"Quill/internal/core/pagecache"
	"Quill/internal/web"
)

// WebConfig holds what the page routes need besides the handlers
type WebConfig struct {
	PageCache pagecache.Store
	StaticDir string
	MediaRoot string
	CacheTTL  time.Duration
}

// RegisterWebRoutes registers every HTML page of the site.
// auth.LoadPrincipal must already be in the middleware chain.
func RegisterWebRoutes(r chi.Router, h *web.Handlers, cfg WebConfig) {
	viewer := func(req *http.Request) string {
		return middleware.GetPrincipal(req.Context()).Username
	}

	// Home page is served from the page cache for CacheTTL
	r.With(pagecache.Middleware(cfg.PageCache, cfg.CacheTTL, viewer, nil)).Get("/", h.Index)

	r.Get("/group/{slug}/", h.GroupPosts)
	r.Get("/profile/{username}/", h.Profile)
	r.Get("/posts/{id}/", h.PostDetail)

	RegisterPostRoutes(r, h)
	RegisterFollowRoutes(r, h)
	RegisterAuthRoutes(r, h)

	r.Get("/about/author/", h.AboutAuthor)
	r.Get("/about/tech/", h.AboutTech)

	r.With(middleware.RequireAdmin).Post("/admin/cache/clear/", h.ClearCache)

	// Static files and uploaded images
	r.Handle("/static/*", web.ProjectStaticFileServer(cfg.StaticDir))
	if cfg.MediaRoot != "" {
		r.Handle("/media/*", web.MediaFileServer(cfg.MediaRoot))
	}

	r.NotFound(h.NotFound)
}

// RegisterPostRoutes registers the authenticated post and comment forms
func RegisterPostRoutes(r chi.Router, h *web.Handlers) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/create/", h.CreatePostForm)
		r.Post("/create/", h.CreatePost)
		r.Get("/posts/{id}/edit/", h.EditPostForm)
		r.Post("/posts/{id}/edit/", h.EditPost)
		r.Post("/posts/{id}/delete/", h.DeletePost)
		r.Post("/posts/{id}/comment/", h.AddComment)
	})
}

// RegisterFollowRoutes registers the feed and follow toggles
func RegisterFollowRoutes(r chi.Router, h *web.Handlers) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/follow/", h.FollowIndex)
		r.Get("/profile/{username}/follow/", h.ProfileFollow)
		r.Get("/profile/{username}/unfollow/", h.ProfileUnfollow)
	})
}

// RegisterAuthRoutes registers signup, login and logout
func RegisterAuthRoutes(r chi.Router, h *web.Handlers) {
	r.Get("/auth/signup/", h.SignupForm)
	r.Post("/auth/signup/", h.Signup)
	r.Get("/auth/login/", h.LoginForm)
	r.Post("/auth/login/", h.Login)
	r.Get("/auth/logout/", h.Logout)
	r.Post("/auth/logout/", h.Logout)
}
