package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crashwatch/src/breadcrumb"
	"crashwatch/src/crash"
	"crashwatch/src/handler"
	"crashwatch/src/inspector"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

// Deps are the components the inspector surface is built on.
type Deps struct {
	Boundary  *crash.Boundary
	Inspector *inspector.Inspector
	Document  *breadcrumb.Document
}

func NewRouter(deps Deps) chi.Router {
	// Router with middleware
	r := chi.NewRouter()
	// === Global Middleware ===
	r.Use(CrashRecoverer(deps.Boundary))

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	r.Get("/crash", handler.GetLastCrashHandler(deps.Inspector))
	r.Delete("/crash", handler.ClearLastCrashHandler(deps.Inspector))
	r.Post("/ui-events", handler.UIEventsHandler(deps.Document))

	return r
}

// StartServer serves router on port until SIGINT or SIGTERM. A listener
// failure is reported through sup instead of killing the process.
func StartServer(port string, router http.Handler, sup *crash.Supervisor) {
	// Server setup
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	// Start server in goroutine
	sup.Go(func() error {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case stop <- syscall.SIGTERM:
			default:
			}
			return err
		}
		return nil
	})

	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
	sup.Wait()
}
