package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims issued on register and login
type UserClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account creation
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Phone    string `json:"phone" validate:"required,phone09"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after register or login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
