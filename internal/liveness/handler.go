package liveness

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	// RootMessage is the body served on /.
	RootMessage = "Always On Server is running! Your bot should be active."

	// StatusOnline is the only status the health route reports.
	StatusOnline = "online"

	// TimestampFormat matches JavaScript's Date.toISOString: UTC, millisecond
	// precision, Z suffix.
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	RequestIDHeader = "X-Request-ID"
)

// Snapshot is the body of /health. It is built per request and never stored.
type Snapshot struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Handler)

// WithClock replaces time.Now as the source of health timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

func NewHandler(logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Root writes the fixed confirmation message.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(RootMessage))
}

// Health writes a fresh Snapshot as JSON.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(h.Snapshot()); err != nil {
		h.logger.Warn("Failed to write health response", slog.Any("err", err))
	}
}

// Snapshot returns the current health state.
func (h *Handler) Snapshot() Snapshot {
	return Snapshot{
		Status:    StatusOnline,
		Timestamp: h.now().UTC().Format(TimestampFormat),
	}
}

// LogRequests tags every request with an id and logs it at debug level.
func (h *Handler) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		h.logger.Debug("Received request",
			slog.String("request_id", requestID),
			slog.String("from", extractClientIP(r)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("proto", r.Proto),
			slog.String("user_agent", r.UserAgent()))

		next.ServeHTTP(w, r)
	})
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
