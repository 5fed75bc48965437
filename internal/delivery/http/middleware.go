package http

import (
	"bytes"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(started).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// callbackAuth checks the gateway's shared callback token.
func callbackAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Callback-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid callback token", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// idempotency replays the stored response for a repeated Idempotency-Key.
// Keys are scoped per user and per route. Server errors release the key so
// the client can retry.
func idempotency(store domain.IdempotencyStore, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			scoped := actorFromContext(r.Context()).UserID + ":" + r.Method + ":" + r.URL.Path + ":" + key

			acquired, stored, err := store.Reserve(r.Context(), scoped, ttl)
			if err != nil {
				slog.Error("idempotency store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				if stored == nil {
					writeError(w, r, http.StatusConflict, domain.CodeIdempotencyInProgress, "a request with this Idempotency-Key is in progress", "")
					return
				}
				w.Header().Set("Content-Type", stored.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(stored.StatusCode)
				_, _ = w.Write(stored.Body)
				return
			}

			rec := &recordingWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			ctx := r.Context()
			if rec.status >= http.StatusInternalServerError || rec.status == 0 {
				if err := store.Release(ctx, scoped); err != nil {
					slog.Error("failed to release idempotency key", "error", err)
				}
				return
			}
			resp := domain.StoredResponse{
				StatusCode:  rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if err := store.Complete(ctx, scoped, resp, ttl); err != nil {
				slog.Error("failed to store idempotent response", "error", err)
			}
		})
	}
}
