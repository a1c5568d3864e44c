package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"notely/internal/metrics"
	"notely/internal/models"
	"notely/internal/repositories"
	"notely/internal/utils"
)

const (
	sessionMaxAge = 86400 * 30
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FederatedIdentity is a third-party assertion after verification:
// Google's stable subject id plus the profile claims this service needs.
type FederatedIdentity struct {
	Subject string
	Email   string
	Name    string
}

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	VerifyRegistrationOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	Login(ctx context.Context, creds *models.Login) (*models.AuthResponse, error)
	RequestLoginOTP(ctx context.Context, email string) error
	VerifyLoginOTP(ctx context.Context, email, code string) (*models.AuthResponse, error)
	HandleFederatedLogin(ctx context.Context, identity FederatedIdentity) (*models.AuthResponse, error)
}

type authService struct {
	userRepo     repositories.UserRepository
	otpService   OTPService
	allowLinking bool
}

// NewAuthService wires the auth flows. allowLinking controls whether a
// local password account presented with a Google assertion for the same
// email acquires the Google identity or is rejected.
func NewAuthService(userRepo repositories.UserRepository, otpService OTPService, allowLinking bool) AuthService {
	return &authService{userRepo: userRepo, otpService: otpService, allowLinking: allowLinking}
}

func InitializeGoth() {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	callbackURL := os.Getenv("GOOGLE_CALLBACK_URL")
	if callbackURL == "" {
		callbackURL = "http://localhost:8080/api/auth/google/callback"
	}

	sessionKey := os.Getenv("SESSION_KEY")

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.MaxAge(sessionMaxAge)

	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = os.Getenv("ENV") == "production"
	store.Options.SameSite = http.SameSiteLaxMode

	gothic.Store = store

	goth.UseProviders(
		google.New(clientID, clientSecret, callbackURL, "email", "profile"),
	)
	log.Info().Msg("Goth providers initialized")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	log.Debug().Str("email", email).Msg("Attempting to register user")

	if email == "" || req.Name == "" {
		return nil, fmt.Errorf("%w: email and name are required", ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		ID:         primitive.NewObjectID(),
		Name:       req.Name,
		Email:      email,
		DOB:        req.DOB,
		AuthMethod: models.AuthMethodLocal,
		IsVerified: false,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 8)
		if err != nil {
			log.Error().Err(err).Msg("Failed to hash password during registration")
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if _, err := a.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := a.otpService.Issue(ctx, email, models.OTPPurposeRegister); err != nil {
		return nil, err
	}

	metrics.NewUsersTotal.Inc()
	log.Info().Str("user_id", user.ID.Hex()).Str("email", email).Msg("User registered, OTP sent")
	return user, nil
}

func (a *authService) VerifyRegistrationOTP(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and otp are required", ErrInvalidInput)
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// The code is consumed before the verification flag is examined, so a
	// replayed code always reports as not requested rather than leaking
	// account state.
	if _, err := a.otpService.Verify(ctx, email, code); err != nil {
		return nil, err
	}

	if !user.IsVerified {
		if _, err := a.userRepo.Update(ctx, user.ID, bson.M{"is_verified": true, "updated_at": time.Now()}); err != nil {
			return nil, err
		}
		user.IsVerified = true
	}

	return a.issueToken(user, "Email verified successfully")
}

func (a *authService) Login(ctx context.Context, creds *models.Login) (*models.AuthResponse, error) {
	email := normalizeEmail(creds.Email)
	log.Debug().Str("email", email).Msg("Attempting password login")

	if email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, ErrNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		log.Warn().Str("email", email).Msg("Password mismatch during login attempt")
		return nil, ErrInvalidCredentials
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return a.issueToken(user, "Login successful")
}

func (a *authService) RequestLoginOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsVerified {
		return ErrNotVerified
	}

	return a.otpService.Issue(ctx, email, models.OTPPurposeLogin)
}

func (a *authService) VerifyLoginOTP(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and otp are required", ErrInvalidInput)
	}

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	if _, err := a.otpService.Verify(ctx, email, code); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return a.issueToken(user, "Login successful")
}

// HandleFederatedLogin maps a verified Google identity onto a local
// account. Match order: existing Google subject, then email linking (if
// policy allows), then a fresh verified account. An email collision with
// a closed local account is rejected rather than silently merged.
func (a *authService) HandleFederatedLogin(ctx context.Context, identity FederatedIdentity) (*models.AuthResponse, error) {
	if identity.Subject == "" || identity.Email == "" || identity.Name == "" {
		return nil, ErrInvalidAssertion
	}
	email := normalizeEmail(identity.Email)

	user, err := a.userRepo.FindByGoogleID(ctx, identity.Subject)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user, err = a.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		switch {
		case user == nil:
			user = &models.User{
				ID:         primitive.NewObjectID(),
				Name:       identity.Name,
				Email:      email,
				AuthMethod: models.AuthMethodGoogle,
				GoogleID:   identity.Subject,
				IsVerified: true,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}
			if _, err := a.userRepo.Create(ctx, user); err != nil {
				return nil, err
			}
			metrics.NewUsersTotal.Inc()
			log.Info().Str("email", email).Str("user_id", user.ID.Hex()).Msg("New user created from Google login")

		case user.GoogleID != "":
			// Same email, different Google subject.
			return nil, ErrAccountConflict

		default:
			if !a.allowLinking && user.HasPassword() {
				log.Warn().Str("email", email).Msg("Google login collides with closed local account")
				return nil, ErrAccountConflict
			}
			method := models.AuthMethodGoogle
			if user.HasPassword() {
				method = models.AuthMethodLinked
			}
			update := bson.M{
				"google_id":   identity.Subject,
				"auth_method": method,
				"is_verified": true,
				"updated_at":  time.Now(),
			}
			if _, err := a.userRepo.Update(ctx, user.ID, update); err != nil {
				return nil, err
			}
			user.GoogleID = identity.Subject
			user.AuthMethod = method
			user.IsVerified = true
			log.Info().Str("email", email).Str("user_id", user.ID.Hex()).Msg("Linked Google identity to existing account")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return a.issueToken(user, "Login successful")
}

// FederatedIdentityFromGoth adapts a completed gothic auth into the
// reconciler's input.
func FederatedIdentityFromGoth(u goth.User) FederatedIdentity {
	name := u.Name
	if name == "" {
		name = u.NickName
	}
	return FederatedIdentity{
		Subject: u.UserID,
		Email:   u.Email,
		Name:    name,
	}
}

func (a *authService) issueToken(user *models.User, message string) (*models.AuthResponse, error) {
	token, err := utils.GenerateJWT(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &models.AuthResponse{
		Message: message,
		Token:   token,
		User:    user.Public(),
	}, nil
}
