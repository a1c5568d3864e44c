package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP purposes. A register code completes sign-up and flips the user's
// verification flag; a login code only proves the sign-in.
const (
	OTPPurposeRegister = "register"
	OTPPurposeLogin    = "login"
)

// OTP is a single live one-time passcode keyed by email. Issuing a new
// code for the same email replaces the previous one, so at most one code
// is valid for an address at any time.
type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	Purpose   string             `bson:"purpose" json:"purpose"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
