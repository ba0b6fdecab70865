package handler

import (
	"net/http"
	"strings"
	"time"

	"crashwatch/src/breadcrumb"

	"github.com/goccy/go-json"
	logger "github.com/sirupsen/logrus"
)

type eventDispatcher interface {
	Dispatch(ev *breadcrumb.Event)
}

type uiEventRequest struct {
	Type   string              `json:"type"`
	Target *breadcrumb.Element `json:"target"`
	Time   *time.Time          `json:"time,omitempty"`
}

// UIEventsHandler feeds UI interactions reported by a front end into the
// in-process document so the breadcrumb tracker sees them.
func UIEventsHandler(document eventDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uiEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		req.Type = strings.TrimSpace(req.Type)
		if req.Type == "" {
			http.Error(w, "type is required", http.StatusBadRequest)
			return
		}

		ev := &breadcrumb.Event{Type: req.Type, Target: req.Target}
		if req.Time != nil {
			ev.Time = *req.Time
		}
		document.Dispatch(ev)

		logger.WithFields(logger.Fields{
			"type":   req.Type,
			"target": breadcrumb.Summarize(req.Target),
		}).Debug("ui event dispatched")
		w.WriteHeader(http.StatusAccepted)
	}
}
