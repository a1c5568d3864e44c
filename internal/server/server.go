package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"notely/internal/database"
	"notely/internal/middlewares"
	"notely/internal/repositories"
	"notely/internal/services"
)

type Server struct {
	port           int
	httpServer     *http.Server
	db             database.Service
	authMiddleware *middlewares.AuthMiddleware
	userService    services.UserService
	noteService    services.NoteService
	agentService   *services.AgentService
	authService    services.AuthService
	googleVerifier services.GoogleVerifier
}

// requireEnv halts startup on missing credentials so the process never
// serves requests it cannot honor.
func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatal().Str("key", key).Msg("Required environment variable not set")
	}
	return v
}

func NewServer() *Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	requireEnv("JWT_SECRET")
	requireEnv("SMTP_USERNAME")
	requireEnv("SMTP_PASSWORD")
	googleClientID := requireEnv("GOOGLE_CLIENT_ID")

	db := database.New()

	userRepo := repositories.NewUserRepository(db)
	noteRepo := repositories.NewNoteRepository(db)
	otpRepo := repositories.NewOTPRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user indexes")
	}
	if err := otpRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create otp indexes")
	}

	allowLinking := os.Getenv("GOOGLE_ALLOW_LINKING") != "false"

	emailService := services.NewEmailService()
	otpService := services.NewOTPService(otpRepo, emailService)
	authService := services.NewAuthService(userRepo, otpService, allowLinking)

	s := &Server{
		port:           port,
		db:             db,
		authMiddleware: middlewares.NewAuthMiddleware(userRepo),
		userService:    services.NewUserService(userRepo),
		noteService:    services.NewNoteService(noteRepo),
		agentService:   services.NewAgentService(noteRepo),
		authService:    authService,
		googleVerifier: services.NewGoogleVerifier(googleClientID),
	}

	services.InitializeGoth()
	go middlewares.CleanupVisitors()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
