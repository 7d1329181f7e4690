package handlers

import (
	"encoding/json"
	"net"
	"net/http"

	"moodtrack/internal/infra"
	"moodtrack/internal/snapshot"
)

// App is the handler container; it owns the collaborators every endpoint
// needs.
type App struct {
	Snapshots *snapshot.Service
	Logger    infra.Logger
}

func NewApp(snapshots *snapshot.Service, logger infra.Logger) *App {
	return &App{Snapshots: snapshots, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// clientIP extracts the peer address; chi's RealIP middleware has already
// folded X-Forwarded-For into RemoteAddr by the time handlers run.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
