package httpserver

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/toast"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// HTTPObserver records finished requests.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int)
}

// routeLabel is the path template of the matched route, so ids do not
// become metric labels.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// requestLogger logs every request with its request id and feeds obs,
// which may be nil.
func requestLogger(obs HTTPObserver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routeLabel(r)
			if obs != nil {
				obs.ObserveHTTP(r.Method, route, status)
			}

			entry := logging.Log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      route,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"remote":     r.RemoteAddr,
			})
			if status >= http.StatusInternalServerError {
				entry.Warn("request failed")
				return
			}
			entry.Debug("request")
		})
	}
}

// sessionMiddleware carries the browser's backend credentials through the
// request and relays cookies the backend sets. It also prepares the per-page
// toast container.
func sessionMiddleware(cookieNames []string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := backend.NewSession(r, cookieNames)
			ctx := backend.WithSession(r.Context(), session)
			ctx = toast.Attach(ctx)
			next.ServeHTTP(&relayWriter{ResponseWriter: w, session: session}, r.WithContext(ctx))
		})
	}
}

// relayWriter writes the backend's cookies just before the response header.
type relayWriter struct {
	http.ResponseWriter
	session     *backend.Session
	wroteHeader bool
}

func (w *relayWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.session.Relay(w.ResponseWriter)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *relayWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *relayWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the progress websocket take over the connection.
func (w *relayWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return hj.Hijack()
}

func (w *relayWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
