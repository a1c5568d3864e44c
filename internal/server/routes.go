package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notely/internal/handlers"
	"notely/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	pm := middlewares.NewPrometheusMiddleware()
	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(pm.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerAuthRoutes(r)
	s.registerNoteRoutes(r)
	s.registerAgentRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService, s.googleVerifier)
	uh := handlers.NewUserHandler(s.userService)

	r.HandleFunc("/api/auth/register", ah.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/verify-otp", ah.VerifyOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", ah.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login-otp", ah.RequestLoginOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/verify-login", ah.VerifyLoginOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/google", ah.GoogleLogin).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/error", ah.AuthError).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}", ah.ProviderAuth).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}/callback", ah.ProviderCallback).Methods("GET", "OPTIONS")

	r.Handle("/api/profile", s.authMiddleware.Handle(http.HandlerFunc(uh.GetMyProfile))).Methods("GET", "OPTIONS")
}

func (s *Server) registerNoteRoutes(r *mux.Router) {
	nh := handlers.NewNoteHandler(s.noteService)

	r.Handle("/api/notes", s.authMiddleware.Handle(http.HandlerFunc(nh.GetNotes))).Methods("GET", "OPTIONS")
	r.Handle("/api/notes", s.authMiddleware.Handle(http.HandlerFunc(nh.AddNote))).Methods("POST", "OPTIONS")
	r.Handle("/api/notes/{id}", s.authMiddleware.Handle(http.HandlerFunc(nh.GetNoteByID))).Methods("GET", "OPTIONS")
	r.Handle("/api/notes/{id}", s.authMiddleware.Handle(http.HandlerFunc(nh.UpdateNote))).Methods("PUT", "OPTIONS")
	r.Handle("/api/notes/{id}", s.authMiddleware.Handle(http.HandlerFunc(nh.DeleteNote))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerAgentRoutes(r *mux.Router) {
	agh := handlers.NewAgentHandler(s.agentService)

	r.Handle("/api/agent/summarize/{id}", s.authMiddleware.Handle(http.HandlerFunc(agh.GenerateSummary))).Methods("POST", "OPTIONS")
}
