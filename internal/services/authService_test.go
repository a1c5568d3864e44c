package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"notely/internal/models"
	"notely/internal/utils"
)

type authFixture struct {
	svc      AuthService
	userRepo *fakeUserRepo
	otpRepo  *fakeOTPRepo
	mailer   *fakeMailer
}

func newAuthFixture(t *testing.T, allowLinking bool) *authFixture {
	t.Setenv("JWT_SECRET", "test-secret")
	userRepo := newFakeUserRepo()
	otpRepo := newFakeOTPRepo()
	mailer := &fakeMailer{}
	otpSvc := NewOTPService(otpRepo, mailer)
	return &authFixture{
		svc:      NewAuthService(userRepo, otpSvc, allowLinking),
		userRepo: userRepo,
		otpRepo:  otpRepo,
		mailer:   mailer,
	}
}

func (f *authFixture) register(t *testing.T, email, name, password string) *models.User {
	user, err := f.svc.Register(context.Background(), &models.RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func (f *authFixture) verify(t *testing.T, email string) *models.AuthResponse {
	code := f.otpRepo.get(email).Code
	resp, err := f.svc.VerifyRegistrationOTP(context.Background(), email, code)
	require.NoError(t, err)
	return resp
}

func TestRegisterAndVerifyOTP(t *testing.T) {
	f := newAuthFixture(t, true)

	user := f.register(t, "a@x.com", "A", "")
	assert.False(t, user.IsVerified)
	require.Len(t, f.mailer.sent, 1)

	code := f.otpRepo.get("a@x.com").Code
	resp, err := f.svc.VerifyRegistrationOTP(context.Background(), "a@x.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.True(t, resp.User.IsVerified)

	claims, err := utils.ParseJWT(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)

	// Same code a second time: the code is spent, replay fails.
	_, err = f.svc.VerifyRegistrationOTP(context.Background(), "a@x.com", code)
	assert.ErrorIs(t, err, ErrOTPNotRequested)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "a@x.com", "A", "")

	_, err := f.svc.Register(context.Background(), &models.RegisterRequest{Email: "a@x.com", Name: "B"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterEmailNormalization(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "  A@X.com ", "A", "")

	_, err := f.svc.Register(context.Background(), &models.RegisterRequest{Email: "a@x.com", Name: "B"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterInvalidInput(t *testing.T) {
	f := newAuthFixture(t, true)

	_, err := f.svc.Register(context.Background(), &models.RegisterRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Register(context.Background(), &models.RegisterRequest{Email: "not an email", Name: "A"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, f.userRepo.count())
}

func TestPasswordLogin(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "a@x.com", "A", "hunter22")
	f.verify(t, "a@x.com")

	resp, err := f.svc.Login(context.Background(), &models.Login{Email: "a@x.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@x.com", resp.User.Email)
}

func TestPasswordLoginUnverified(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "a@x.com", "A", "hunter22")

	// Correct password on an unconfirmed account is NotVerified, not
	// InvalidCredentials.
	_, err := f.svc.Login(context.Background(), &models.Login{Email: "a@x.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestPasswordLoginFailures(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "a@x.com", "A", "hunter22")
	f.verify(t, "a@x.com")

	_, err := f.svc.Login(context.Background(), &models.Login{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), &models.Login{Email: "nobody@x.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordLoginFederatedOnlyAccount(t *testing.T) {
	f := newAuthFixture(t, true)

	_, err := f.svc.HandleFederatedLogin(context.Background(), FederatedIdentity{
		Subject: "sub-1", Email: "g@x.com", Name: "G",
	})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), &models.Login{Email: "g@x.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginOTPFlow(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "a@x.com", "A", "")
	f.verify(t, "a@x.com")

	require.NoError(t, f.svc.RequestLoginOTP(context.Background(), "a@x.com"))
	code := f.otpRepo.get("a@x.com").Code

	resp, err := f.svc.VerifyLoginOTP(context.Background(), "a@x.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.IsVerified)

	// Single use.
	_, err = f.svc.VerifyLoginOTP(context.Background(), "a@x.com", code)
	assert.ErrorIs(t, err, ErrOTPNotRequested)
}

func TestRequestLoginOTPUnknownEmail(t *testing.T) {
	f := newAuthFixture(t, true)

	err := f.svc.RequestLoginOTP(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, f.userRepo.count())
	assert.Nil(t, f.otpRepo.get("nobody@x.com"))
}

func TestRequestLoginOTPUnverified(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "a@x.com", "A", "")

	err := f.svc.RequestLoginOTP(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestFederatedLoginCreatesVerifiedUser(t *testing.T) {
	f := newAuthFixture(t, true)

	resp, err := f.svc.HandleFederatedLogin(context.Background(), FederatedIdentity{
		Subject: "sub-1", Email: "g@x.com", Name: "G",
	})
	require.NoError(t, err)
	assert.True(t, resp.User.IsVerified)

	user, err := f.userRepo.FindByGoogleID(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.AuthMethodGoogle, user.AuthMethod)
	assert.False(t, user.HasPassword())
}

func TestFederatedLoginIdempotent(t *testing.T) {
	f := newAuthFixture(t, true)
	identity := FederatedIdentity{Subject: "sub-1", Email: "g@x.com", Name: "G"}

	first, err := f.svc.HandleFederatedLogin(context.Background(), identity)
	require.NoError(t, err)
	second, err := f.svc.HandleFederatedLogin(context.Background(), identity)
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, 1, f.userRepo.count())
}

func TestFederatedLoginLinksLocalAccount(t *testing.T) {
	f := newAuthFixture(t, true)
	f.register(t, "a@x.com", "A", "hunter22")
	f.verify(t, "a@x.com")

	resp, err := f.svc.HandleFederatedLogin(context.Background(), FederatedIdentity{
		Subject: "sub-1", Email: "a@x.com", Name: "A",
	})
	require.NoError(t, err)

	user, err := f.userRepo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", user.GoogleID)
	assert.Equal(t, models.AuthMethodLinked, user.AuthMethod)
	assert.Equal(t, user.ID.Hex(), resp.User.ID)

	// Password login keeps working on the linked account.
	_, err = f.svc.Login(context.Background(), &models.Login{Email: "a@x.com", Password: "hunter22"})
	assert.NoError(t, err)
}

func TestFederatedLoginClosedLinkingPolicy(t *testing.T) {
	f := newAuthFixture(t, false)
	f.register(t, "a@x.com", "A", "hunter22")
	f.verify(t, "a@x.com")

	_, err := f.svc.HandleFederatedLogin(context.Background(), FederatedIdentity{
		Subject: "sub-1", Email: "a@x.com", Name: "A",
	})
	assert.ErrorIs(t, err, ErrAccountConflict)

	// The local account is untouched.
	user, findErr := f.userRepo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, findErr)
	assert.Empty(t, user.GoogleID)
	assert.Equal(t, models.AuthMethodLocal, user.AuthMethod)
}

func TestFederatedLoginClosedPolicyStillLinksPasswordless(t *testing.T) {
	// An OTP-only local account has no competing credential, so even the
	// closed policy upgrades it.
	f := newAuthFixture(t, false)
	f.register(t, "a@x.com", "A", "")
	f.verify(t, "a@x.com")

	_, err := f.svc.HandleFederatedLogin(context.Background(), FederatedIdentity{
		Subject: "sub-1", Email: "a@x.com", Name: "A",
	})
	require.NoError(t, err)

	user, findErr := f.userRepo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, findErr)
	assert.Equal(t, "sub-1", user.GoogleID)
	assert.Equal(t, models.AuthMethodGoogle, user.AuthMethod)
}

func TestFederatedLoginMissingClaims(t *testing.T) {
	f := newAuthFixture(t, true)

	_, err := f.svc.HandleFederatedLogin(context.Background(), FederatedIdentity{Subject: "sub-1", Email: "g@x.com"})
	assert.ErrorIs(t, err, ErrInvalidAssertion)

	_, err = f.svc.HandleFederatedLogin(context.Background(), FederatedIdentity{Subject: "sub-1", Name: "G"})
	assert.ErrorIs(t, err, ErrInvalidAssertion)
}

func TestPublicViewOmitsCredentialMaterial(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), 8)
	require.NoError(t, err)

	user := &models.User{
		ID:         primitive.NewObjectID(),
		Email:      "a@x.com",
		Name:       "A",
		Password:   string(hash),
		GoogleID:   "sub-1",
		AuthMethod: models.AuthMethodLinked,
		IsVerified: true,
	}

	public := user.Public()
	assert.Equal(t, models.PublicUser{
		ID:         user.ID.Hex(),
		Email:      "a@x.com",
		Name:       "A",
		IsVerified: true,
	}, public)
}
