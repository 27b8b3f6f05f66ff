package viewer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetNotifications returns the signed-in user's inbox, newest first.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	user, err := h.session.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.inbox.List(r.Context(), user.Id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, items)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.session.Current(); err != nil {
		writeError(w, err)
		return
	}
	if err := h.inbox.MarkRead(r.Context(), chi.URLParam(r, "notification")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
