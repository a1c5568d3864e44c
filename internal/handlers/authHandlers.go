package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"notely/internal/models"
	"notely/internal/services"
	"notely/internal/utils"
)

type AuthHandler struct {
	authService    services.AuthService
	googleVerifier services.GoogleVerifier
}

func NewAuthHandler(authService services.AuthService, googleVerifier services.GoogleVerifier) *AuthHandler {
	return &AuthHandler{authService: authService, googleVerifier: googleVerifier}
}

// Register starts the sign-up flow: creates the unverified account and
// mails a one-time passcode.
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := a.authService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered. Check email for OTP.",
		"userId":  user.ID.Hex(),
	})
}

// VerifyOTP completes registration: consumes the code, marks the account
// verified and returns the bearer token.
func (a *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := a.authService.VerifyRegistrationOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Login
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := a.authService.Login(r.Context(), &creds)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// RequestLoginOTP mails a sign-in code to an already-verified account.
func (a *AuthHandler) RequestLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req models.OTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.authService.RequestLoginOTP(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "OTP sent to email"})
}

func (a *AuthHandler) VerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := a.authService.VerifyLoginOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GoogleLogin handles the SPA flow: the client posts the Google-signed
// ID token and receives a bearer token.
func (a *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Credential == "" {
		utils.SendJSONError(w, "Google credential is required", http.StatusBadRequest)
		return
	}

	identity, err := a.googleVerifier.VerifyAssertion(r.Context(), req.Credential)
	if err != nil {
		log.Warn().Err(err).Msg("Google assertion verification failed")
		writeServiceError(w, err)
		return
	}

	resp, err := a.authService.HandleFederatedLogin(r.Context(), *identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ProviderAuth begins the redirect-based OAuth flow.
func (a *AuthHandler) ProviderAuth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	provider := vars["provider"]

	if provider == "" {
		utils.SendJSONError(w, "Provider not specified", http.StatusBadRequest)
		return
	}

	log.Info().Str("provider", provider).Msg("Initiating authentication with provider")

	gothic.BeginAuthHandler(w, r)
}

// ProviderCallback completes the redirect flow and hands the token back
// to the frontend as a query parameter.
func (a *AuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Error completing provider authentication")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	resp, err := a.authService.HandleFederatedLogin(r.Context(), services.FederatedIdentityFromGoth(gothUser))
	if err != nil {
		log.Error().Err(err).Str("email", gothUser.Email).Msg("Error handling federated login after provider callback")
		http.Redirect(w, r, "/api/auth/error", http.StatusTemporaryRedirect)
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	http.Redirect(w, r, fmt.Sprintf("%s/auth/callback?token=%s", frontendURL, resp.Token), http.StatusTemporaryRedirect)
}

func (a *AuthHandler) AuthError(w http.ResponseWriter, r *http.Request) {
	utils.SendJSONError(w, "Authentication failed. Please try again.", http.StatusBadRequest)
}
