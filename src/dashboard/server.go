package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
)

// NewMux returns the HTTP routes: the dashboard page at / and a
// liveness probe at /healthz. Everything is read-only.
func NewMux(snap *Snapshot) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(snap.Page()); err != nil {
			slog.Warn("Failed to write dashboard page", "error", err)
		}
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "ok rendered_at=%s\n", snap.RenderedAt().Format("2006-01-02T15:04:05Z07:00"))
	})

	return mux
}
