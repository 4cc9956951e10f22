package liveness_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/always-on/internal/liveness"
	"github.com/angeloszaimis/always-on/pkg/logger"
)

var _ = Describe("Handler", func() {
	var h *liveness.Handler

	BeforeEach(func() {
		h = liveness.NewHandler(logger.Discard())
	})

	Describe("Root", func() {
		It("should return the confirmation message", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()

			h.Root(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("Always On Server is running! Your bot should be active."))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/plain"))
		})

		It("should ignore the request shape", func() {
			req := httptest.NewRequest(http.MethodGet, "/?anything=goes", bytes.NewBufferString("junk"))
			req.Header.Set("Content-Type", "application/octet-stream")
			w := httptest.NewRecorder()

			h.Root(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal(liveness.RootMessage))
		})
	})

	Describe("Health", func() {
		decode := func(w *httptest.ResponseRecorder) liveness.Snapshot {
			var snap liveness.Snapshot
			Expect(json.Unmarshal(w.Body.Bytes(), &snap)).To(Succeed())
			return snap
		}

		It("should report online with a parseable timestamp", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			h.Health(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("application/json"))

			snap := decode(w)
			Expect(snap.Status).To(Equal("online"))

			ts, err := time.Parse(time.RFC3339Nano, snap.Timestamp)
			Expect(err).NotTo(HaveOccurred())
			Expect(ts).To(BeTemporally("~", time.Now(), 5*time.Second))
		})

		It("should only carry status and timestamp", func() {
			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			var body map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body).To(HaveLen(2))
			Expect(body).To(HaveKey("status"))
			Expect(body).To(HaveKey("timestamp"))
		})

		It("should format timestamps like toISOString", func() {
			fixed := time.Date(2024, 3, 9, 17, 4, 5, 678_900_000, time.FixedZone("CET", 3600))
			h = liveness.NewHandler(logger.Discard(), liveness.WithClock(func() time.Time { return fixed }))

			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			Expect(decode(w).Timestamp).To(Equal("2024-03-09T16:04:05.678Z"))
		})

		It("should never go backwards across calls", func() {
			var previous time.Time
			for i := 0; i < 20; i++ {
				w := httptest.NewRecorder()
				h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

				ts, err := time.Parse(liveness.TimestampFormat, decode(w).Timestamp)
				Expect(err).NotTo(HaveOccurred())
				Expect(ts).To(BeTemporally(">=", previous))
				previous = ts
			}
		})
	})

	Describe("LogRequests", func() {
		var (
			buf  *bytes.Buffer
			next http.Handler
		)

		BeforeEach(func() {
			buf = &bytes.Buffer{}
			h = liveness.NewHandler(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
			next = http.HandlerFunc(h.Root)
		})

		It("should assign a request id and log the request", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()

			h.LogRequests(next).ServeHTTP(w, req)

			id := w.Header().Get(liveness.RequestIDHeader)
			Expect(uuid.Parse(id)).Error().NotTo(HaveOccurred())
			Expect(w.Body.String()).To(Equal(liveness.RootMessage))

			var entry map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
			Expect(entry).To(HaveKeyWithValue("msg", "Received request"))
			Expect(entry).To(HaveKeyWithValue("request_id", id))
			Expect(entry).To(HaveKeyWithValue("path", "/"))
		})

		It("should keep an incoming request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(liveness.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()

			h.LogRequests(next).ServeHTTP(w, req)

			Expect(w.Header().Get(liveness.RequestIDHeader)).To(Equal("abc-123"))
		})

		It("should prefer the forwarded client address", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

			h.LogRequests(next).ServeHTTP(httptest.NewRecorder(), req)

			Expect(buf.String()).To(ContainSubstring(`"from":"203.0.113.7"`))
		})
	})
})
