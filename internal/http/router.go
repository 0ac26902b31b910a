package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/overlap-planner/internal/application"
)

// RouterConfig bundles the dependencies required to assemble the API router.
type RouterConfig struct {
	Auth    *application.AuthService
	Rosters *application.RosterService
	Plans   *application.PlanService
	Logger  *slog.Logger
}

// NewRouter builds the HTTP handler tree. Session issuance is open; every
// other route requires a valid session token.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := defaultLogger(cfg.Logger)
	responder := newResponder(logger)

	authHandler := NewAuthHandler(cfg.Auth, logger)
	rosterHandler := NewRosterHandler(cfg.Rosters, logger)
	planHandler := NewPlanHandler(cfg.Plans, logger)

	requireSession := RequireSession(cfg.Auth, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			authHandler.CreateSession(w, r)
		default:
			responder.writeError(r.Context(), w, http.StatusMethodNotAllowed, nil)
		}
	})

	mux.Handle("/sessions/current", requireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			authHandler.DeleteCurrentSession(w, r)
		default:
			responder.writeError(r.Context(), w, http.StatusMethodNotAllowed, nil)
		}
	})))

	mux.Handle("/rosters", requireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			rosterHandler.List(w, r)
		case http.MethodPost:
			rosterHandler.Create(w, r)
		default:
			responder.writeError(r.Context(), w, http.StatusMethodNotAllowed, nil)
		}
	})))

	mux.Handle("/rosters/", requireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/rosters/")
		if id == "" || strings.Contains(id, "/") {
			responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRosterID)
			return
		}

		r = r.WithContext(ContextWithRosterID(r.Context(), id))
		switch r.Method {
		case http.MethodGet:
			rosterHandler.Get(w, r)
		case http.MethodPut:
			rosterHandler.Update(w, r)
		case http.MethodDelete:
			rosterHandler.Delete(w, r)
		default:
			responder.writeError(r.Context(), w, http.StatusMethodNotAllowed, nil)
		}
	})))

	mux.Handle("/plan", requireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			planHandler.Compute(w, r)
		default:
			responder.writeError(r.Context(), w, http.StatusMethodNotAllowed, nil)
		}
	})))

	return RequestLogger(logger)(mux)
}
