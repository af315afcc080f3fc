package models

import (
	"time"
)

// AdminUser représente un administrateur (fournisseur d'auth local uniquement)
type AdminUser struct {
	ID           string    `json:"id" firestore:"-" bson:"_id,omitempty"`
	Email        string    `json:"email" firestore:"email" bson:"email"`
	PasswordHash string    `json:"-" firestore:"passwordHash" bson:"passwordHash"` // Le "-" empêche la sérialisation du hash
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}

// Identity est l'identité authentifiée retournée par un fournisseur
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// LoginRequest représente la requête de connexion
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse représente la réponse d'authentification
type AuthResponse struct {
	Token     string    `json:"token"`
	User      Identity  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse représente une réponse d'erreur (forme toast: titre + description)
type ErrorResponse struct {
	Error   string `json:"error"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse représente une réponse de succès générique
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
