package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const emailJSBaseURL = "https://api.emailjs.com"

// EmailJSService envoie les messages du formulaire de contact via un modèle EmailJS
type EmailJSService struct {
	baseURL    string
	serviceID  string
	templateID string
	publicKey  string
	privateKey string
	client     *http.Client
	logger     *zap.Logger
}

type emailJSPayload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJSService crée le service; privateKey est facultative
func NewEmailJSService(serviceID, templateID, publicKey, privateKey string, logger *zap.Logger) *EmailJSService {
	return &EmailJSService{
		baseURL:    emailJSBaseURL,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		privateKey: privateKey,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Configured indique si les identifiants EmailJS sont renseignés
func (s *EmailJSService) Configured() bool {
	return s.serviceID != "" && s.templateID != "" && s.publicKey != ""
}

// Send envoie le modèle avec les paramètres donnés
func (s *EmailJSService) Send(ctx context.Context, params map[string]string) error {
	if !s.Configured() {
		return fmt.Errorf("%w: EmailJS", ErrNotConfigured)
	}

	body, err := json.Marshal(emailJSPayload{
		ServiceID:      s.serviceID,
		TemplateID:     s.templateID,
		UserID:         s.publicKey,
		AccessToken:    s.privateKey,
		TemplateParams: params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1.0/email/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi à EmailJS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// EmailJS répond en texte brut
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error("❌ EmailJS error", zap.Int("status", resp.StatusCode), zap.String("body", string(raw)))
		return &RemoteError{Service: "emailjs", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	s.logger.Info("✅ Email de contact envoyé")
	return nil
}
