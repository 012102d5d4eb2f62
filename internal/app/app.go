// Package app wires repositories, services and HTTP routes into one handler.
// cmd/server and the HTTP tests build the site through it.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"Quill/internal/api/middleware"
	"Quill/internal/api/routes"
	"Quill/internal/core/comments"
	"Quill/internal/core/follows"
	"Quill/internal/core/groups"
	"Quill/internal/core/pagecache"
	"Quill/internal/core/posts"
	"Quill/internal/core/users"
	"Quill/internal/db/memory"
	postgresRepo "Quill/internal/db/postgres"
	"Quill/internal/web"
)

// Repositories is one implementation of every repository
type Repositories struct {
	Users    users.UserRepository
	Groups   groups.Repository
	Posts    posts.Repository
	Comments comments.Repository
	Follows  follows.Repository
}

// PostgresRepositories backs every repository with db
func PostgresRepositories(db *sql.DB) Repositories {
	return Repositories{
		Users:    postgresRepo.NewUserRepository(db),
		Groups:   postgresRepo.NewGroupRepository(db),
		Posts:    postgresRepo.NewPostRepository(db),
		Comments: postgresRepo.NewCommentRepository(db),
		Follows:  postgresRepo.NewFollowRepository(db),
	}
}

// MemoryRepositories backs every repository with an in-process store
func MemoryRepositories(db *memory.DB) Repositories {
	return Repositories{
		Users:    db.Users(),
		Groups:   db.Groups(),
		Posts:    db.Posts(),
		Comments: db.Comments(),
		Follows:  db.Follows(),
	}
}

// Options configures New
type Options struct {
	Repos     Repositories
	Images    posts.ImageStore // nil disables uploads
	PageCache pagecache.Store  // nil means an in-memory cache
	Logger    *slog.Logger

	SessionSecret []byte
	StaticDir     string
	MediaRoot     string

	PostsPerPage      int
	CacheTTL          time.Duration
	RateLimitRequests int // 0 disables rate limiting
	RateLimitWindow   time.Duration
	BcryptCost        int // 0 means bcrypt.DefaultCost
	SecureCookies     bool
	// TrustProxy keys rate limiting by X-Forwarded-For; enable only behind a reverse proxy
	TrustProxy bool
	// RequestLogging enables chi's request logger
	RequestLogging bool
}

// App is the wired site
type App struct {
	Router    http.Handler
	Users     users.UserService
	Groups    groups.Service
	Posts     posts.Service
	Comments  comments.Service
	Follows   follows.Service
	PageCache pagecache.Store

	rateLimiter *middleware.RateLimiter
}

// New builds services and the router
func New(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PageCache == nil {
		opts.PageCache = pagecache.NewMemoryStore(nil, opts.Logger)
	}

	templates, err := web.NewTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load web templates: %w", err)
	}

	userService := users.NewUserService(opts.Repos.Users)
	if opts.BcryptCost > 0 {
		userService = users.NewUserServiceWithCost(opts.Repos.Users, opts.BcryptCost)
	}
	groupService := groups.NewGroupService(opts.Repos.Groups)
	commentService := comments.NewCommentService(opts.Repos.Comments, opts.Repos.Posts)
	postService := posts.NewPostService(opts.Repos.Posts, groupService, userService, commentService, opts.Images, opts.PostsPerPage)
	followService := follows.NewFollowService(opts.Repos.Follows, userService, postService)

	auth := middleware.NewSessionAuth(opts.SessionSecret, opts.SecureCookies, userService)

	handlers := web.NewHandlers(web.Deps{
		Templates:      templates,
		PostService:    postService,
		CommentService: commentService,
		FollowService:  followService,
		GroupService:   groupService,
		UserService:    userService,
		Auth:           auth,
		PageCache:      opts.PageCache,
		Logger:         opts.Logger,
	})

	a := &App{
		Users:     userService,
		Groups:    groupService,
		Posts:     postService,
		Comments:  commentService,
		Follows:   followService,
		PageCache: opts.PageCache,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	if opts.RequestLogging {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)

	if opts.RateLimitRequests > 0 {
		if opts.TrustProxy {
			a.rateLimiter = middleware.NewRateLimiterBehindProxy(opts.RateLimitRequests, opts.RateLimitWindow)
		} else {
			a.rateLimiter = middleware.NewRateLimiter(opts.RateLimitRequests, opts.RateLimitWindow)
		}
		r.Use(a.rateLimiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.LoadPrincipal)
		routes.RegisterWebRoutes(r, handlers, routes.WebConfig{
			PageCache: opts.PageCache,
			StaticDir: opts.StaticDir,
			MediaRoot: opts.MediaRoot,
			CacheTTL:  opts.CacheTTL,
		})
	})

	a.Router = r
	return a, nil
}

// Close stops background work
func (a *App) Close() {
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
}
