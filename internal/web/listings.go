package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/middleware"
	"Quill/internal/core/authz"
	"Quill/internal/core/pagination"
	"Quill/internal/core/posts"
)

func requestedPage(r *http.Request) int {
	return pagination.ParsePage(r.URL.Query().Get("page"))
}

// Index renders the newest posts of all authors
// GET /
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	listing, err := h.postService.ListPosts(r.Context(), posts.AllPosts(), requestedPage(r))
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	h.render(w, r, http.StatusOK, "index.html", ListingPage{
		Layout:         h.layout(r, "Latest posts"),
		Page:           listing.Page,
		ShowGroupLinks: true,
	})
}

// GroupPosts renders the posts of one group
// GET /group/{slug}/
func (h *Handlers) GroupPosts(w http.ResponseWriter, r *http.Request) {
	listing, err := h.postService.ListPosts(r.Context(), posts.InGroup(chi.URLParam(r, "slug")), requestedPage(r))
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	h.render(w, r, http.StatusOK, "group_list.html", ListingPage{
		Layout: h.layout(r, listing.Group.Title),
		Group:  listing.Group,
		Page:   listing.Page,
	})
}

// Profile renders an author's posts with follow state and counts
// GET /profile/{username}/
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)

	listing, err := h.postService.ListPosts(ctx, posts.ByAuthor(chi.URLParam(r, "username")), requestedPage(r))
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	following, err := h.followService.IsFollowing(ctx, principal, listing.Author.ID)
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	counts, err := h.followService.Counts(ctx, listing.Author.ID)
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	h.render(w, r, http.StatusOK, "profile.html", ListingPage{
		Layout:         h.layout(r, "Profile of "+listing.Author.Username),
		Author:         listing.Author,
		Counts:         counts,
		Page:           listing.Page,
		Following:      following,
		CanFollow:      authz.CanFollow(principal, listing.Author.ID),
		ShowGroupLinks: true,
	})
}

// FollowIndex renders the posts of followed authors
// GET /follow/
func (h *Handlers) FollowIndex(w http.ResponseWriter, r *http.Request) {
	listing, err := h.followService.FeedFor(r.Context(), middleware.GetPrincipal(r.Context()), requestedPage(r))
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	h.render(w, r, http.StatusOK, "follow.html", ListingPage{
		Layout:         h.layout(r, "Your subscriptions"),
		Page:           listing.Page,
		ShowGroupLinks: true,
	})
}

// ProfileFollow subscribes the viewer to an author and returns to the profile
// GET /profile/{username}/follow/
func (h *Handlers) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if _, err := h.followService.Follow(r.Context(), middleware.GetPrincipal(r.Context()), username); err != nil {
		h.handleError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, profileURL(username), http.StatusFound)
}

// ProfileUnfollow removes the subscription and returns to the profile
// GET /profile/{username}/unfollow/
func (h *Handlers) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if _, err := h.followService.Unfollow(r.Context(), middleware.GetPrincipal(r.Context()), username); err != nil {
		h.handleError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, profileURL(username), http.StatusFound)
}
