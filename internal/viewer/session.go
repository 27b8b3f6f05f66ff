package viewer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

type signInRequest struct {
	Token string `json:"token"`
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if body.Token == "" {
		writeError(w, &internal_errors.ValidationError{Message: "token is required"})
		return
	}
	if err := h.session.SignIn(body.Token); err != nil {
		writeError(w, err)
		return
	}
	if h.tokens != nil {
		h.tokens.SetToken(body.Token)
	}
	user, err := h.session.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, user)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.session.SignOut()
	h.profiles.Invalidate()
	if h.tokens != nil {
		h.tokens.SetToken("")
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.session.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, user)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.Get(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, user)
}

func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.catalog.Groups())
}

// setSelectionRequest scopes the feed. A board id wins when both are
// set; an empty body resets to the unscoped feed.
type setSelectionRequest struct {
	BoardId string `json:"board_id,omitempty"`
	GroupId string `json:"group_id,omitempty"`
}

func (h *Handler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var body setSelectionRequest
	if err := decode(r, &body); err != nil {
		writeError(w, err)
		return
	}

	var err error
	switch {
	case body.BoardId != "":
		err = h.catalog.SelectBoard(body.BoardId)
	case body.GroupId != "":
		err = h.catalog.SelectGroup(body.GroupId)
	default:
		h.catalog.ClearSelection()
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.feed.SetFilter(r.Context(), h.catalog.Filter()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
