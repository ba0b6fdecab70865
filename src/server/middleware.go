package server

import (
	"net/http"

	"crashwatch/src/crash"
	"crashwatch/src/model"

	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"
)

// CrashRecoverer reports panics raised by downstream handlers through the
// component boundary and answers 500 when nothing was written yet. The
// request URI is recorded as the crash route. http.ErrAbortHandler keeps
// unwinding so the server aborts the response without a report.
func CrashRecoverer(boundary *crash.Boundary) func(http.Handler) http.Handler {
	guard := *boundary
	guard.Rethrow = func(v any) bool { return v == http.ErrAbortHandler }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			path := []string{"http", r.Method + " " + r.URL.Path}
			report := guard.Guard(path, func() {
				next.ServeHTTP(ww, r)
			}, crash.WithExtraContext(model.CrashContext{Route: r.URL.RequestURI()}))
			if report == nil {
				return
			}

			logger.WithFields(logger.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"reportId": report.ID,
			}).Error("Recovered panic in HTTP handler")
			if ww.Status() == 0 {
				http.Error(ww, "Internal Server Error", http.StatusInternalServerError)
			}
		})
	}
}
