// Package viewer is the local HTTP surface over the sync engine. It is
// what a UI process talks to: the post list (rendered), the board
// catalog, the session and every mutation the feed supports.
package viewer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moyim-dev/moyim/internal/boards"
	"github.com/moyim-dev/moyim/internal/feed"
	"github.com/moyim-dev/moyim/internal/markdown"
	"github.com/moyim-dev/moyim/internal/metrics"
	"github.com/moyim-dev/moyim/internal/notify"
	"github.com/moyim-dev/moyim/internal/profile"
	"github.com/moyim-dev/moyim/internal/session"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
	"github.com/moyim-dev/moyim/shared/logger"
)

// TokenSink receives the raw session token on sign-in so a backend
// adapter can authenticate its own requests. Satisfied by *rest.Client.
type TokenSink interface {
	SetToken(token string)
}

type Handler struct {
	feed     *feed.Feed
	catalog  *boards.Catalog
	session  *session.Session
	profiles *profile.Cache
	inbox    *notify.Inbox
	renderer *markdown.Renderer
	tokens   TokenSink
}

func New(f *feed.Feed, catalog *boards.Catalog, sess *session.Session, profiles *profile.Cache, inbox *notify.Inbox) *Handler {
	return &Handler{
		feed:     f,
		catalog:  catalog,
		session:  sess,
		profiles: profiles,
		inbox:    inbox,
		renderer: markdown.New(),
	}
}

// WithTokenSink forwards session tokens to the backend adapter.
func (h *Handler) WithTokenSink(s TokenSink) *Handler {
	h.tokens = s
	return h
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	r.Use(metrics.Middleware)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/session", h.GetSession)
		r.Post("/session", h.SignIn)
		r.Delete("/session", h.SignOut)

		r.Get("/boards", h.GetBoards)
		r.Put("/selection", h.SetSelection)

		r.Get("/users/{user}", h.GetProfile)

		r.Get("/notifications", h.GetNotifications)
		r.Post("/notifications/{notification}/read", h.MarkNotificationRead)

		r.Post("/refresh", h.Refresh)

		r.Get("/posts", h.GetPosts)
		r.Post("/posts", h.CreatePost)
		r.Patch("/posts/{post}", h.UpdatePost)
		r.Delete("/posts/{post}", h.DeletePost)
		r.Post("/posts/{post}/likes", h.ToggleLike)

		r.Post("/posts/{post}/comments", h.CreateComment)
		r.Patch("/posts/{post}/comments/{comment}", h.UpdateComment)
		r.Delete("/posts/{post}/comments/{comment}", h.DeleteComment)

		r.Post("/posts/{post}/comments/{comment}/replies", h.CreateReply)
		r.Patch("/posts/{post}/comments/{comment}/replies/{reply}", h.UpdateReply)
		r.Delete("/posts/{post}/comments/{comment}/replies/{reply}", h.DeleteReply)
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to status codes; anything
// unrecognized is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, internal_errors.ErrAuthRequired):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, internal_errors.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case internal_errors.Is[*internal_errors.ValidationError](err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case internal_errors.Is[*internal_errors.NetworkError](err):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func decode(r *http.Request, body interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		return &internal_errors.ValidationError{Message: "body is invalid json"}
	}
	return nil
}
