package models

// Request payloads for the auth endpoints.

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	DOB      string `json:"dob,omitempty"`
	Password string `json:"password,omitempty"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential"`
}

// AuthResponse is the success shape of every login-completing flow.
type AuthResponse struct {
	Message string     `json:"message,omitempty"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}
