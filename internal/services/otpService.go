package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"notely/internal/metrics"
	"notely/internal/models"
	"notely/internal/repositories"
	"notely/internal/utils"
)

const (
	OTPExpirationMinutes = 10
	mailDispatchTimeout  = 10 * time.Second
)

type OTPService interface {
	Issue(ctx context.Context, email, purpose string) error
	Verify(ctx context.Context, email, code string) (string, error)
}

type otpService struct {
	otpRepo      repositories.OTPRepository
	emailService EmailService
}

func NewOTPService(otpRepo repositories.OTPRepository, emailService EmailService) OTPService {
	return &otpService{otpRepo: otpRepo, emailService: emailService}
}

// Issue generates a fresh 6-digit code for the email, superseding any
// outstanding one, and dispatches it by mail. If dispatch fails the
// stored code is rolled back so no live code exists that was never
// delivered.
func (s *otpService) Issue(ctx context.Context, email, purpose string) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	otp := &models.OTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(OTPExpirationMinutes * time.Minute),
	}

	if _, err := s.otpRepo.Put(ctx, otp); err != nil {
		return err
	}

	if err := s.dispatch(email, code); err != nil {
		log.Error().Err(err).Str("email", email).Msg("OTP mail dispatch failed, rolling back code")
		if delErr := s.otpRepo.DeleteByEmail(ctx, email); delErr != nil {
			log.Error().Err(delErr).Str("email", email).Msg("Failed to roll back OTP record")
		}
		return ErrMailDispatch
	}

	metrics.OTPIssuedTotal.Inc()
	log.Info().Str("email", email).Str("purpose", purpose).Msg("OTP issued")
	return nil
}

// dispatch sends the mail with a hard deadline. The SMTP dialer has no
// context support, so a send that outlives the deadline is abandoned and
// reported as a failure.
func (s *otpService) dispatch(email, code string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.emailService.SendEmail(email, "Your One-Time Password", OTPEmailBody(code))
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(mailDispatchTimeout):
		return ErrMailDispatch
	}
}

// Verify consumes the live code for the email. A correct code succeeds
// exactly once: consumption is an atomic compare-and-clear against the
// store. A mismatched code leaves the record in place for a retry; an
// expired one clears it.
func (s *otpService) Verify(ctx context.Context, email, code string) (string, error) {
	otp, err := s.otpRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if otp == nil {
		metrics.OTPVerificationsTotal.WithLabelValues("failed").Inc()
		return "", ErrOTPNotRequested
	}

	if time.Now().After(otp.ExpiresAt) {
		if err := s.otpRepo.DeleteByEmail(ctx, email); err != nil {
			return "", err
		}
		metrics.OTPVerificationsTotal.WithLabelValues("failed").Inc()
		return "", ErrOTPExpired
	}

	if otp.Code != code {
		metrics.OTPVerificationsTotal.WithLabelValues("failed").Inc()
		return "", ErrOTPMismatch
	}

	consumed, err := s.otpRepo.Consume(ctx, email, code)
	if err != nil {
		return "", err
	}
	if consumed == nil {
		// A concurrent attempt won the compare-and-clear.
		metrics.OTPVerificationsTotal.WithLabelValues("failed").Inc()
		return "", ErrOTPNotRequested
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	return consumed.Purpose, nil
}
