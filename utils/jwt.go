package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL est la durée de vie d'une session admin
const SessionTTL = 24 * time.Hour

// Claims représente les revendications JWT personnalisées
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionID retourne l'identifiant de session (jti)
func (c *Claims) SessionID() string {
	return c.ID
}

// GenerateToken génère un token JWT pour un administrateur, avec un identifiant de session unique
func GenerateToken(userID string, email string, secret string) (string, *Claims, error) {
	now := time.Now()
	// Créer les revendications avec une expiration de 24 heures
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Signer le token avec le secret
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("erreur lors de la signature du token: %w", err)
	}

	return tokenString, claims, nil
}

// ValidateToken valide un token JWT et retourne les revendications
func ValidateToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Vérifier la méthode de signature
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature invalide: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("erreur lors du parsing du token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token invalide")
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token sans identifiant de session")
	}

	return claims, nil
}
