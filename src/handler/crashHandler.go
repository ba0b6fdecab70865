package handler

import (
	"context"
	"net/http"

	"crashwatch/src/model"

	"github.com/goccy/go-json"
	logger "github.com/sirupsen/logrus"
)

type crashInspector interface {
	GetLastCrash(ctx context.Context) (*model.CrashReport, bool)
	ClearLastCrash(ctx context.Context) error
}

// GetLastCrashHandler returns the stored crash report as JSON, or 204 when
// nothing has been recorded.
func GetLastCrashHandler(inspector crashInspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := inspector.GetLastCrash(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		body, err := json.Marshal(report)
		if err != nil {
			logger.WithError(err).Error("failed to encode crash report response")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}

// ClearLastCrashHandler empties the crash slot.
func ClearLastCrashHandler(inspector crashInspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := inspector.ClearLastCrash(r.Context()); err != nil {
			logger.WithError(err).Error("failed to clear crash report")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
