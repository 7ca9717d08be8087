package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/pkg/viewport"
)

const viewportSessionHeader = "X-Viewport-Session"

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(requestLogger)
	r.Use(viewportSession)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)
		log.WithFields(log.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(started).String(),
		}).Debug("handled request")
	})
}

// viewportSession propagates the X-Viewport-Session header into the context,
// so event changes can scroll the viewport that made them.
func viewportSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sessionId := req.Header.Get(viewportSessionHeader)
		if sessionId == "" {
			next.ServeHTTP(w, req)
			return
		}
		log.Tracef("request bound to viewport session %s", sessionId)
		next.ServeHTTP(w, req.WithContext(viewport.WithSession(req.Context(), sessionId)))
	})
}
