package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/ecfrdash/ecfr-dashboard/internal/api/recovery"
	"github.com/ecfrdash/ecfr-dashboard/internal/api/respond"
	"github.com/ecfrdash/ecfr-dashboard/internal/health"
	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
	"github.com/ecfrdash/ecfr-dashboard/internal/services"
	"github.com/ecfrdash/ecfr-dashboard/internal/upstream"
)

// Deps are the components the router wires to handlers.
type Deps struct {
	Agencies       *services.AgencyService
	Chat           *services.ChatService
	Activities     *services.ActivityService
	Users          *services.UserService
	Health         *health.ServiceHealthChecker
	Layout         localstate.Layout
	MaxUploadBytes int64
	CORSOrigins    []string
	Log            zerolog.Logger
}

// NewRouter creates the HTTP handler with all API routes.
func NewRouter(d Deps) http.Handler {
	root := mux.NewRouter()
	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteNotFound(w, "route not found")
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})

	// Global middlewares
	root.Use(requestLogging(d.Log)...)
	root.Use(recovery.Middleware)

	// Agencies and search proxies
	agency := NewAgencyHandler(d.Agencies)
	root.HandleFunc("/api/agents", agency.GetAgencies).Methods("GET")
	root.HandleFunc("/api/search/count", agency.Search(upstream.Count, "Failed to fetch count")).Methods("GET")
	root.HandleFunc("/api/search/daily", agency.Search(upstream.Daily, "Failed to fetch daily counts")).Methods("GET")
	root.HandleFunc("/api/search/titles", agency.Search(upstream.Titles, "Failed to fetch title counts")).Methods("GET")

	// Activities, users, images
	activity := NewActivityHandler(d.Activities, d.Users, d.Layout, d.MaxUploadBytes)
	root.HandleFunc("/api/activities", activity.ListActivities).Methods("GET")
	root.HandleFunc("/api/upload-activity", activity.UploadActivity).Methods("POST")
	root.HandleFunc("/api/users", activity.ListUsers).Methods("GET")
	root.HandleFunc("/images/{name}", activity.GetImage).Methods("GET", "HEAD")

	// Chat
	chat := NewChatHandler(d.Chat)
	root.HandleFunc("/api/chat/messages", chat.ListMessages).Methods("GET")
	root.HandleFunc("/api/chat/messages", chat.PostMessage).Methods("POST")
	root.HandleFunc("/api/chat/rooms", chat.ListRooms).Methods("GET")

	// Health & metrics
	healthHandler := NewHealthHandler(d.Health)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	root.Handle("/metrics", promhttp.Handler()).Methods("GET")

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead},
		AllowedHeaders: []string{"*"},
	}).Handler(root)
}
