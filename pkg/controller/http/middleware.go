package http

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/utils/errors"
)

// accessLog gives each request a logger tagged with a request ID, which the
// use case and the receipt writer pick up through ctxlog.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := ctxlog.From(r.Context()).With("request_id", uuid.NewString())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctxlog.With(r.Context(), logger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// recoverJSON turns a handler panic into a JSON 500
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			errors.Handle(r.Context(), goerr.New("panic in HTTP handler",
				goerr.V("recover", v),
				goerr.V("path", r.URL.Path),
				goerr.V("stack", string(debug.Stack())),
			))
			writeJSON(w, r, http.StatusInternalServerError, &errorResponse{Error: "internal server error"})
		}()
		next.ServeHTTP(w, r)
	})
}
