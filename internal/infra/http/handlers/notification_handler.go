package handlers

import (
	"net/http"

	"github.com/solarcrm/pipeline-crm/internal/infra/notify"
)

type NotificationHandler struct {
	inbox *notify.Inbox
}

func NewNotificationHandler(inbox *notify.Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// Drain hands the UI every toast queued for the session since the last call.
func (h *NotificationHandler) Drain(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	writeOK(w, http.StatusOK, "", h.inbox.Drain(sess.Token))
}
