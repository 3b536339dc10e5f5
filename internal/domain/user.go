package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Campos da coleção User
const (
	UserFieldEmail        = "email"
	UserFieldPasswordHash = "passwordHash"
	UserFieldName         = "nombre"
	UserFieldActive       = "activo"
)

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Active       bool   `json:"active"`
}

type Claims struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}
