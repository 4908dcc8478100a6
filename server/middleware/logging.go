package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/server/util"
)

const RequestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogging attaches a request-scoped logger to the context, echoes the
// request id in the response and logs every completed request. A client
// supplied X-Request-Id is reused.
func RequestLogging(cfg *config.Config, next http.Handler) http.Handler {
	return RequestLoggingWith(cfg, log.Default(), next)
}

func RequestLoggingWith(cfg *config.Config, logger util.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rl := util.WithRequest(logger, r, requestID)
		if cfg.Debug {
			rl.Infof("started")
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(util.ContextWithLogger(r.Context(), rl)))

		rl.Infof("completed status=%d duration=%s", rec.status, time.Since(start).Round(time.Microsecond))
	})
}
