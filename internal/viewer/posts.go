package viewer

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moyim-dev/moyim/shared/domain"
	"github.com/moyim-dev/moyim/shared/logger"
)

// View shapes carry content twice: raw markdown (what an editor needs)
// and sanitized HTML (what a page shows). The store only ever holds the
// raw form; rendering happens here, at read time.

type ReplyView struct {
	Id          domain.ReplyId     `json:"id"`
	Content     domain.ContentText `json:"content"`
	ContentHTML string             `json:"content_html"`
	Author      domain.UserSummary `json:"author"`
	Pending     bool               `json:"pending"`
	CreatedAt   time.Time          `json:"created_at"`
}

type CommentView struct {
	Id          domain.CommentId   `json:"id"`
	Content     domain.ContentText `json:"content"`
	ContentHTML string             `json:"content_html"`
	Author      domain.UserSummary `json:"author"`
	Pending     bool               `json:"pending"`
	Replies     []ReplyView        `json:"replies"`
	CreatedAt   time.Time          `json:"created_at"`
}

type PostView struct {
	Id          domain.PostId      `json:"id"`
	BoardId     domain.BoardId     `json:"board_id"`
	GroupId     domain.GroupId     `json:"group_id"`
	Title       domain.PostTitle   `json:"title"`
	Content     domain.ContentText `json:"content"`
	ContentHTML string             `json:"content_html"`
	Author      domain.UserSummary `json:"author"`
	Images      []string           `json:"images"`
	Likes       domain.Likes       `json:"likes"`
	Comments    []CommentView      `json:"comments"`
	CreatedAt   time.Time          `json:"created_at"`
}

type FeedResponse struct {
	Posts   []PostView `json:"posts"`
	Loading bool       `json:"loading"`
	Error   string     `json:"error,omitempty"`
}

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts := h.feed.Posts()

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = h.renderPost(p)
	}

	resp := FeedResponse{Posts: views, Loading: h.feed.Loading()}
	if err := h.feed.Err(); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, resp)
}

func (h *Handler) renderPost(p domain.Post) PostView {
	comments := make([]CommentView, len(p.Comments))
	for i, c := range p.Comments {
		replies := make([]ReplyView, len(c.Replies))
		for j, rp := range c.Replies {
			replies[j] = ReplyView{
				Id:          rp.Id,
				Content:     rp.Content,
				ContentHTML: h.render(rp.Content),
				Author:      rp.Author,
				Pending:     domain.IsTempId(rp.Id),
				CreatedAt:   rp.CreatedAt,
			}
		}
		comments[i] = CommentView{
			Id:          c.Id,
			Content:     c.Content,
			ContentHTML: h.render(c.Content),
			Author:      c.Author,
			Pending:     domain.IsTempId(c.Id),
			Replies:     replies,
			CreatedAt:   c.CreatedAt,
		}
	}
	return PostView{
		Id:          p.Id,
		BoardId:     p.BoardId,
		GroupId:     p.GroupId,
		Title:       p.Title,
		Content:     p.Content,
		ContentHTML: h.render(p.Content),
		Author:      p.Author,
		Images:      p.Images,
		Likes:       p.Likes,
		Comments:    comments,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *Handler) render(content domain.ContentText) string {
	html, err := h.renderer.Render(content)
	if err != nil {
		logger.Log.Warn("content render failed", "error", err)
		return ""
	}
	return html
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body domain.PostCreationData
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := h.feed.AddPost(r.Context(), body); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var body domain.PostUpdateData
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := h.feed.EditPost(r.Context(), chi.URLParam(r, "post"), body); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.DeletePost(r.Context(), chi.URLParam(r, "post")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.LikePost(r.Context(), chi.URLParam(r, "post")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type contentBody struct {
	Content domain.ContentText `json:"content"`
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var body contentBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := h.feed.AddComment(r.Context(), chi.URLParam(r, "post"), body.Content); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var body contentBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	err := h.feed.EditComment(r.Context(), chi.URLParam(r, "post"), chi.URLParam(r, "comment"), body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.feed.DeleteComment(r.Context(), chi.URLParam(r, "post"), chi.URLParam(r, "comment"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var body contentBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	err := h.feed.AddReply(r.Context(), chi.URLParam(r, "post"), chi.URLParam(r, "comment"), body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) UpdateReply(w http.ResponseWriter, r *http.Request) {
	var body contentBody
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	err := h.feed.EditReply(r.Context(), chi.URLParam(r, "post"), chi.URLParam(r, "comment"), chi.URLParam(r, "reply"), body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	err := h.feed.DeleteReply(r.Context(), chi.URLParam(r, "post"), chi.URLParam(r, "comment"), chi.URLParam(r, "reply"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
