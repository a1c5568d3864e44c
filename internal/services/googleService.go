package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier checks a Google ID token assertion against this
// service's registered client id and extracts the identity claims.
type GoogleVerifier interface {
	VerifyAssertion(ctx context.Context, credential string) (*FederatedIdentity, error)
}

type googleTokenVerifier struct {
	clientID   string
	httpClient *http.Client
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleTokenVerifier{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *googleTokenVerifier) VerifyAssertion(ctx context.Context, credential string) (*FederatedIdentity, error) {
	if credential == "" {
		return nil, ErrInvalidAssertion
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		tokenInfoURL+"?id_token="+url.QueryEscape(credential), nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Google rejected identity assertion")
		return nil, ErrInvalidAssertion
	}

	var payload struct {
		Aud   string `json:"aud"`
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrInvalidAssertion
	}

	// The token must have been minted for this application.
	if payload.Aud != v.clientID {
		log.Warn().Str("aud", payload.Aud).Msg("Identity assertion audience mismatch")
		return nil, ErrInvalidAssertion
	}
	if payload.Sub == "" || payload.Email == "" || payload.Name == "" {
		return nil, ErrInvalidAssertion
	}

	return &FederatedIdentity{
		Subject: payload.Sub,
		Email:   payload.Email,
		Name:    payload.Name,
	}, nil
}
