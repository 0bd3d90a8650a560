package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Account is a registered account row in PostgreSQL. The contact-sharing
// document for the same person lives in MongoDB, linked by UserID.
type Account struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   string `json:"-"` // bcrypt hash, empty for Firebase-only accounts
	UserID     string `json:"user_id" gorm:"uniqueIndex"` // Firebase UID
}

// RegisterRequest defines the request body for full registration: a Firebase
// user, a Postgres account row and an empty Mongo user document are created.
type RegisterRequest struct {
	UUID      string `json:"uuid" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"f_name" validate:"required,min=1,max=50"`
	LastName  string `json:"l_name" validate:"required,min=1,max=50"`
	Bio       string `json:"bio" validate:"omitempty,max=280"`
}

// SignupRequest defines the request body for local email/password signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignInRequest defines the request body for local email/password login.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase ID token login.
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	AccountID uint   `json:"account_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}
