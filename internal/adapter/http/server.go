// Package adapthttp is the driving HTTP adapter: it exposes the session
// flows as a JSON API and streams CSV exports.
package adapthttp

import (
	"net/http"

	"weatherlog/internal/app"
)

// Server routes requests to the application session.
type Server struct {
	session *app.Session
}

// New creates a Server wired to the given session.
func New(session *app.Session) *Server {
	return &Server{session: session}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/state", s.handleState)
	api.HandleFunc("/search", s.handleSearch)
	api.HandleFunc("/select", s.handleSelect)
	api.HandleFunc("/weather", s.handleWeatherByName)
	api.HandleFunc("/unit", s.handleToggleUnit)
	api.HandleFunc("/dates", s.handleSetDates)
	api.HandleFunc("/clear", s.handleClearSearch)

	api.HandleFunc("/records", s.handleRecords)
	api.HandleFunc("/records/edit", s.handleStartEdit)
	api.HandleFunc("/records/cancel-edit", s.handleCancelEdit)
	api.HandleFunc("/records/update", s.handleUpdateRecord)
	api.HandleFunc("/records/delete", s.handleDeleteRecord)

	api.HandleFunc("/export", s.handleExportCSV)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return withNoCache(s.loggingMiddleware(root))
}
