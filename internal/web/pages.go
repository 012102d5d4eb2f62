package web

import (
	"net/http"
)

// AboutAuthor renders the static author page
// GET /about/author/
func (h *Handlers) AboutAuthor(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about_author.html", h.layout(r, "About the author"))
}

// AboutTech renders the static technologies page
// GET /about/tech/
func (h *Handlers) AboutTech(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about_tech.html", h.layout(r, "Technologies"))
}

// ClearCache drops every cached page, making new posts visible on the index at once
// POST /admin/cache/clear/
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.pageCache.Clear(r.Context()); err != nil {
		h.handleError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
