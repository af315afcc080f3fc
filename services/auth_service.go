package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

// Authenticator vérifie un couple email / mot de passe
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.Identity, error)
}

// AuthError porte le message du fournisseur d'identité, affiché tel quel
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return ErrInvalidCredentials
}

// AuthService gère les sessions admin
type AuthService struct {
	authenticator Authenticator
	sessions      SessionStore
	secret        string
	logger        *zap.Logger
}

// NewAuthService crée une nouvelle instance de AuthService
func NewAuthService(authenticator Authenticator, sessions SessionStore, secret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		secret:        secret,
		logger:        logger,
	}
}

// Login authentifie l'admin et ouvre une session
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	email = strings.TrimSpace(email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, utils.ValidationError{Field: "password", Message: "password is required"}
	}

	identity, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("⚠️  Échec de connexion admin", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	token, claims, err := utils.GenerateToken(identity.UID, identity.Email, s.secret)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la génération du token: %w", err)
	}

	s.logger.Info("✓ Connexion admin", zap.String("email", identity.Email), zap.String("session", claims.SessionID()))
	return &models.AuthResponse{
		Token:     token,
		User:      *identity,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Authorize valide le token et vérifie que la session n'a pas été révoquée
func (s *AuthService) Authorize(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := utils.ValidateToken(token, s.secret)
	if err != nil {
		return nil, err
	}
	revoked, err := s.sessions.IsRevoked(ctx, claims.SessionID())
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la vérification de la session: %w", err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Logout révoque la session jusqu'à son expiration naturelle
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil {
		return errors.New("session absente")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.Revoke(ctx, claims.SessionID(), ttl); err != nil {
		return fmt.Errorf("erreur lors de la révocation de la session: %w", err)
	}
	s.logger.Info("✓ Déconnexion admin", zap.String("email", claims.Email), zap.String("session", claims.SessionID()))
	return nil
}
