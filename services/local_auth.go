package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

const invalidLoginMessage = "Invalid email or password"

// LocalAuthenticator vérifie les comptes admin stockés (bcrypt)
type LocalAuthenticator struct {
	admins database.AdminStore
}

// NewLocalAuthenticator crée un authentificateur local
func NewLocalAuthenticator(admins database.AdminStore) *LocalAuthenticator {
	return &LocalAuthenticator{admins: admins}
}

// Authenticate vérifie l'email et le mot de passe
func (a *LocalAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	admin, err := a.admins.FindAdminByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, &AuthError{Message: invalidLoginMessage}
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'admin: %w", err)
	}
	if !utils.CheckPassword(admin.PasswordHash, password) {
		return nil, &AuthError{Message: invalidLoginMessage}
	}
	return &models.Identity{UID: admin.ID, Email: admin.Email}, nil
}

// CreateAdmin hache le mot de passe et enregistre un nouvel admin
func CreateAdmin(ctx context.Context, admins database.AdminStore, email, password string) (*models.AdminUser, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("erreur lors du hachage du mot de passe: %w", err)
	}
	admin := &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := admins.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
