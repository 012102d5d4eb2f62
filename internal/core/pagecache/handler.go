package pagecache

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"Quill/internal/core/pagination"
)

// ViewerFunc returns the identity of the viewer, "" for anonymous visitors.
type ViewerFunc func(r *http.Request) string

// entry is the serialized form of a cached response
type entry struct {
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
	Status      int    `json:"status"`
}

// Key builds the view identity of a request: path, page number and viewer.
// Other query parameters do not change the rendered listing and are ignored.
func Key(r *http.Request, viewer string) string {
	page := pagination.ParsePage(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return r.URL.Path + "?page=" + strconv.Itoa(page) + "|" + viewer
}

// Middleware serves GET requests from store while the stored copy is younger than ttl.
// Only 200 responses are stored. Store failures fall through to the wrapped handler.
func Middleware(store Store, ttl time.Duration, viewer ViewerFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			var who string
			if viewer != nil {
				who = viewer(r)
			}
			key := Key(r, who)

			cached, ok, err := store.Get(r.Context(), key)
			if err != nil {
				logger.Warn("page cache read failed", "key", key, "error", err)
			}
			if ok {
				var e entry
				if err := json.Unmarshal(cached, &e); err == nil {
					w.Header().Set("Content-Type", e.ContentType)
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(e.Status)
					_, _ = w.Write(e.Body)
					return
				}
				logger.Warn("discarding corrupt page cache entry", "key", key)
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK {
				return
			}

			data, err := json.Marshal(entry{
				Status:      rec.status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := store.Set(r.Context(), key, data, ttl); err != nil {
				logger.Warn("page cache write failed", "key", key, "error", err)
			}
		})
	}
}

// recorder copies the body while passing it through
type recorder struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
