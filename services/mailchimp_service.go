package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

// MailchimpService inscrit les contacts à la liste de diffusion
type MailchimpService struct {
	baseURL string
	apiKey  string
	listID  string
	client  *http.Client
	logger  *zap.Logger
}

type mailchimpMember struct {
	EmailAddress string            `json:"email_address"`
	Status       string            `json:"status"`
	MergeFields  map[string]string `json:"merge_fields"`
}

type mailchimpError struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// NewMailchimpService crée le service; sans clé ni liste il fonctionne en mode démo.
// Le préfixe serveur est déduit de la clé (suffixe "-us21") s'il n'est pas fourni.
func NewMailchimpService(apiKey, listID, serverPrefix string, logger *zap.Logger) *MailchimpService {
	if serverPrefix == "" {
		if i := strings.LastIndex(apiKey, "-"); i >= 0 {
			serverPrefix = apiKey[i+1:]
		}
	}
	baseURL := ""
	if serverPrefix != "" {
		baseURL = fmt.Sprintf("https://%s.api.mailchimp.com", serverPrefix)
	}
	return &MailchimpService{
		baseURL: baseURL,
		apiKey:  apiKey,
		listID:  listID,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Configured indique si les appels partent réellement vers Mailchimp
func (s *MailchimpService) Configured() bool {
	return s.apiKey != "" && s.listID != "" && s.baseURL != ""
}

// Subscribe inscrit l'adresse; le consentement est vérifié avant tout appel distant
func (s *MailchimpService) Subscribe(ctx context.Context, req models.NewsletterRequest) (*models.NewsletterResponse, error) {
	if !req.Consent {
		return &models.NewsletterResponse{Success: false, Message: constants.NewsletterConsent}, nil
	}
	email := strings.TrimSpace(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}

	if !s.Configured() {
		s.logger.Info("📦 Newsletter en mode démo", zap.String("email", email))
		return &models.NewsletterResponse{Success: true, Message: constants.NewsletterSuccess + constants.NewsletterDemoMode}, nil
	}

	body, err := json.Marshal(mailchimpMember{
		EmailAddress: email,
		Status:       "subscribed",
		MergeFields: map[string]string{
			"FNAME": strings.TrimSpace(req.FirstName),
			"LNAME": strings.TrimSpace(req.LastName),
		},
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/3.0/lists/%s/members", s.baseURL, s.listID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth("anystring", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'appel à Mailchimp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.logger.Info("✅ Inscription newsletter", zap.String("email", email))
		return &models.NewsletterResponse{Success: true, Message: constants.NewsletterSuccess}, nil
	}

	var remote mailchimpError
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		s.logger.Debug("Réponse d'erreur Mailchimp illisible", zap.Int("status", resp.StatusCode), zap.Error(err))
	}
	if remote.Title == "Member Exists" {
		return &models.NewsletterResponse{Success: true, Message: constants.NewsletterExists}, nil
	}

	s.logger.Error("❌ Mailchimp error", zap.Int("status", resp.StatusCode), zap.String("title", remote.Title))
	return nil, &RemoteError{Service: "mailchimp", StatusCode: resp.StatusCode, Message: remote.Detail}
}
