package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth methods a user account can carry. A "local" account signs in with
// password or email OTP, a "google" account only through Google, and a
// "linked" account started local and later acquired a Google identity.
const (
	AuthMethodLocal  = "local"
	AuthMethodGoogle = "google"
	AuthMethodLinked = "linked"
)

type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	DOB        string             `json:"dob,omitempty" bson:"dob,omitempty"`
	Password   string             `json:"-" bson:"password,omitempty"`
	AuthMethod string             `json:"-" bson:"auth_method"`
	GoogleID   string             `json:"-" bson:"google_id,omitempty"`
	IsVerified bool               `json:"isVerified" bson:"is_verified"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// PublicUser is the only user shape handlers serialize. Password and OTP
// material never travel through it.
type PublicUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsVerified bool   `json:"isVerified"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID.Hex(),
		Email:      u.Email,
		Name:       u.Name,
		IsVerified: u.IsVerified,
	}
}

// HasPassword reports whether password login is possible for this account.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
