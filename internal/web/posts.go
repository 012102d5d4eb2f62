package web

import (
	"errors"
	"io"
	"net/http"

	"Quill/internal/api/middleware"
	"Quill/internal/core/authz"
	"Quill/internal/core/comments"
	"Quill/internal/core/posts"
)

// maxUploadSize bounds the post form including the image
const maxUploadSize = 10 << 20

// PostDetail renders one post with its comments
// GET /posts/{id}/
func (h *Handlers) PostDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.renderPostDetail(w, r, id, "", nil)
}

func (h *Handlers) renderPostDetail(w http.ResponseWriter, r *http.Request, id int64, commentText string, errs map[string]string) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)

	detail, err := h.postService.GetPost(ctx, id)
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	// author's post count for the sidebar
	authorPosts := 0
	if byAuthor, err := h.postService.ListPosts(ctx, posts.ByAuthor(detail.Post.Author), 1); err == nil {
		authorPosts = byAuthor.Page.Total
	}

	h.render(w, r, http.StatusOK, "post_detail.html", PostPage{
		Layout:      h.layout(r, truncateTitle(detail.Post.Text)),
		Post:        detail.Post,
		Comments:    detail.Comments,
		CommentText: commentText,
		Errors:      errs,
		AuthorPosts: authorPosts,
		CanEdit:     authz.CanEdit(principal, detail.Post),
		CanDelete:   authz.CanDelete(principal, detail.Post),
	})
}

// CreatePostForm shows the empty post form
// GET /create/
func (h *Handlers) CreatePostForm(w http.ResponseWriter, r *http.Request) {
	h.renderPostForm(w, r, PostFormPage{})
}

// CreatePost handles the post form submission
// POST /create/
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	input, err := readPostForm(w, r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if _, err := h.postService.CreatePost(r.Context(), principal, input); err != nil {
		var valErr *posts.ValidationError
		if errors.As(err, &valErr) {
			h.renderPostForm(w, r, PostFormPage{Text: input.Text, Group: input.Group, Errors: valErr.Fields})
			return
		}
		h.handleError(w, r, err, 0)
		return
	}

	http.Redirect(w, r, profileURL(principal.Username), http.StatusFound)
}

// EditPostForm shows the form filled with the post; only the author gets it
// GET /posts/{id}/edit/
func (h *Handlers) EditPostForm(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	post, err := h.postService.GetPostForEdit(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if err != nil {
		h.handleError(w, r, err, id)
		return
	}

	h.renderPostForm(w, r, PostFormPage{
		IsEdit:       true,
		PostID:       post.ID,
		Text:         post.Text,
		Group:        groupValue(post),
		CurrentImage: post.Image,
	})
}

// EditPost handles the edit form submission
// POST /posts/{id}/edit/
func (h *Handlers) EditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	input, err := readPostForm(w, r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	if _, err := h.postService.UpdatePost(r.Context(), principal, id, input); err != nil {
		var valErr *posts.ValidationError
		if errors.As(err, &valErr) {
			current, _ := h.postService.GetPostForEdit(r.Context(), principal, id)
			page := PostFormPage{IsEdit: true, PostID: id, Text: input.Text, Group: input.Group, Errors: valErr.Fields}
			if current != nil {
				page.CurrentImage = current.Image
			}
			h.renderPostForm(w, r, page)
			return
		}
		h.handleError(w, r, err, id)
		return
	}

	http.Redirect(w, r, postURL(id), http.StatusFound)
}

// DeletePost removes a post for its author or an administrator
// POST /posts/{id}/delete/
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	post, err := h.postService.DeletePost(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if err != nil {
		h.handleError(w, r, err, id)
		return
	}

	http.Redirect(w, r, profileURL(post.Author), http.StatusFound)
}

// AddComment stores a comment and returns to the post
// POST /posts/{id}/comment/
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	text := r.PostFormValue("text")
	_, err := h.commentService.AddComment(r.Context(), middleware.GetPrincipal(r.Context()), id, comments.CommentInput{Text: text})
	if err != nil {
		var valErr *comments.ValidationError
		if errors.As(err, &valErr) {
			h.renderPostDetail(w, r, id, text, valErr.Fields)
			return
		}
		h.handleError(w, r, err, id)
		return
	}

	http.Redirect(w, r, postURL(id), http.StatusFound)
}

func (h *Handlers) renderPostForm(w http.ResponseWriter, r *http.Request, page PostFormPage) {
	list, err := h.groupService.ListGroups(r.Context())
	if err != nil {
		h.handleError(w, r, err, 0)
		return
	}

	page.Groups = list
	title := "New post"
	if page.IsEdit {
		title = "Edit post"
	}
	page.Layout = h.layout(r, title)
	h.render(w, r, http.StatusOK, "create_post.html", page)
}

// readPostForm accepts both multipart (with image) and urlencoded submissions
func readPostForm(w http.ResponseWriter, r *http.Request) (posts.PostInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return posts.PostInput{}, err
	}

	input := posts.PostInput{
		Text:       r.FormValue("text"),
		Group:      r.FormValue("group"),
		ClearImage: r.FormValue("image-clear") != "",
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return posts.PostInput{}, err
		}
		if len(data) > 0 {
			input.Image = &posts.ImageUpload{Filename: header.Filename, Data: data}
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return posts.PostInput{}, err
	}

	return input, nil
}

func groupValue(post *posts.Post) string {
	if post.GroupID == nil {
		return ""
	}
	return formatID(*post.GroupID)
}

func truncateTitle(text string) string {
	r := []rune(text)
	if len(r) > 30 {
		return string(r[:30])
	}
	return text
}
