// Package snapshot serves a previously exported payload over HTTP. The
// payload is loaded once into an immutable snapshot and passed by
// reference to the handlers; there is no ambient global state and no
// reload path short of restarting the process.
package snapshot

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"

	"github.com/skillshock/skillshock-cli/internal/model"
)

// Snapshot is an immutable view of one exported payload.
type Snapshot struct {
	Payload  model.Payload
	Raw      []byte
	LoadedAt time.Time
}

// Load reads and parses an output.json artifact.
func Load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "snapshot: read %s", path)
	}
	var payload model.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, eris.Wrapf(err, "snapshot: parse %s", path)
	}
	return &Snapshot{
		Payload:  payload,
		Raw:      raw,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Routes builds the read-only HTTP surface over the snapshot.
func (s *Snapshot) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"loaded_at": s.LoadedAt.Format(time.RFC3339),
		})
	})

	r.Get("/api/v1/payload", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(s.Raw) //nolint:errcheck
	})

	r.Get("/api/v1/metadata", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.Payload.Metadata)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
