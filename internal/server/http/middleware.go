package httpserver

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/machinebio/machinebio/internal/errs"
	"github.com/machinebio/machinebio/internal/service"
)

// statusRecorder captures the written status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logMiddleware logs one line per request: metadata only, never payloads.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("dur", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// recoverMiddleware turns panics into 500s instead of dropped connections.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic",
					zap.Any("reason", rec),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", r.URL.Path),
				)
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authHandler is a handler that requires an authenticated caller.
type authHandler func(w http.ResponseWriter, r *http.Request, caller service.Caller)

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth(next authHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.callerFromRequest(r)
		if err != nil {
			s.writeError(w, errs.ErrUnauthorized)
			return
		}
		next(w, r, *caller)
	}
}

// callerFromRequest parses the Authorization header; nil error means a valid caller.
func (s *Server) callerFromRequest(r *http.Request) (*service.Caller, error) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return nil, errs.ErrUnauthorized
	}
	caller, err := service.ParseAccessToken(strings.TrimPrefix(h, prefix), s.signKey)
	if err != nil {
		return nil, err
	}
	return &caller, nil
}

// optionalCaller returns the caller when a valid token is present, else nil.
// Used by read endpoints whose response depends on who is asking.
func (s *Server) optionalCaller(r *http.Request) *service.Caller {
	caller, err := s.callerFromRequest(r)
	if err != nil {
		return nil
	}
	return caller
}
