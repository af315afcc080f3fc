package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"firebase.google.com/go/v4/auth"

	"humanity-verse-backend/models"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com"

// IDTokenVerifier est satisfait par *auth.Client
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthenticator connecte l'admin via Firebase Authentication (email / mot de passe)
type FirebaseAuthenticator struct {
	baseURL  string
	apiKey   string
	verifier IDTokenVerifier
	client   *http.Client
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewFirebaseAuthenticator crée un authentificateur Firebase; verifier peut être nil
func NewFirebaseAuthenticator(apiKey string, verifier IDTokenVerifier) *FirebaseAuthenticator {
	return &FirebaseAuthenticator{
		baseURL:  identityToolkitURL,
		apiKey:   apiKey,
		verifier: verifier,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Authenticate appelle signInWithPassword puis vérifie l'ID token retourné
func (a *FirebaseAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/accounts:signInWithPassword?key=%s", a.baseURL, url.QueryEscape(a.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'appel à Firebase Auth: %w", err)
	}
	defer resp.Body.Close()

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("réponse Firebase Auth illisible: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != nil {
		message := "Failed to sign in"
		if out.Error != nil && out.Error.Message != "" {
			message = out.Error.Message
		}
		return nil, &AuthError{Message: message}
	}

	identity := &models.Identity{UID: out.LocalID, Email: out.Email}
	if a.verifier != nil {
		token, err := a.verifier.VerifyIDToken(ctx, out.IDToken)
		if err != nil {
			return nil, fmt.Errorf("ID token Firebase invalide: %w", err)
		}
		identity.UID = token.UID
	}
	return identity, nil
}
