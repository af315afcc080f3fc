package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SlackService gère l'envoi des alertes d'exploitation sur Slack
type SlackService struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// SlackMessage représente un message Slack
type SlackMessage struct {
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment représente une pièce jointe Slack
type Attachment struct {
	Color     string  `json:"color,omitempty"`
	Title     string  `json:"title,omitempty"`
	Text      string  `json:"text,omitempty"`
	Fields    []Field `json:"fields,omitempty"`
	Timestamp int64   `json:"ts,omitempty"`
	Footer    string  `json:"footer,omitempty"`
}

// Field représente un champ dans une pièce jointe Slack
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

const slackFooter = "Humanity Verse - Backend"

// NewSlackService crée une nouvelle instance de SlackService
func NewSlackService(webhookURL string, logger *zap.Logger) *SlackService {
	if webhookURL == "" {
		logger.Warn("⚠️  Slack webhook URL non configuré - notifications Slack désactivées")
	}
	return &SlackService{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Send poste un message sur le webhook
func (s *SlackService) Send(ctx context.Context, msg SlackMessage) error {
	if s.webhookURL == "" {
		return nil // Service désactivé
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erreur lors de la sérialisation du message Slack: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la requête: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi à Slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack a retourné un code d'erreur: %d", resp.StatusCode)
	}
	return nil
}

// SendErrorNotification envoie une notification d'erreur HTTP sur Slack
func (s *SlackService) SendErrorNotification(errorType, method, path, statusCode, message, origin, userAgent string) error {
	// Déterminer la couleur selon le type d'erreur
	color := "danger"
	if statusCode == "403" {
		color = "warning"
	}

	attachment := Attachment{
		Color:     color,
		Title:     fmt.Sprintf("🚨 Erreur serveur: %s", errorType),
		Text:      message,
		Timestamp: time.Now().Unix(),
		Footer:    slackFooter,
		Fields: []Field{
			{Title: "Méthode", Value: method, Short: true},
			{Title: "Status Code", Value: statusCode, Short: true},
			{Title: "Chemin", Value: path, Short: false},
		},
	}
	if origin != "" {
		attachment.Fields = append(attachment.Fields, Field{Title: "Origin", Value: origin, Short: true})
	}
	if userAgent != "" {
		attachment.Fields = append(attachment.Fields, Field{Title: "User-Agent", Value: userAgent, Short: false})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Send(ctx, SlackMessage{Attachments: []Attachment{attachment}}); err != nil {
		return err
	}

	if s.webhookURL != "" {
		s.logger.Info("✓ Notification Slack envoyée", zap.String("method", method), zap.String("path", path))
	}
	return nil
}

// SendCriticalError envoie une notification pour une erreur critique
func (s *SlackService) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	if err := s.SendErrorNotification("Erreur Critique", method, path, statusCode, errorMessage, origin, userAgent); err != nil {
		s.logger.Error("❌ Erreur lors de l'envoi de la notification Slack", zap.Error(err))
	}
}

// SendCORSError envoie une notification pour une erreur CORS
func (s *SlackService) SendCORSError(method, path, origin, userAgent string) {
	if err := s.SendErrorNotification("Erreur CORS", method, path, "403",
		fmt.Sprintf("Origine non autorisée: %s", origin), origin, userAgent); err != nil {
		s.logger.Error("❌ Erreur lors de l'envoi de la notification Slack", zap.Error(err))
	}
}

// SendStoreAlert signale un changement de disponibilité du store
func (s *SlackService) SendStoreAlert(reachable bool, detail string) {
	attachment := Attachment{
		Color:     "danger",
		Title:     "🔴 Store injoignable",
		Text:      detail,
		Timestamp: time.Now().Unix(),
		Footer:    slackFooter,
	}
	if reachable {
		attachment.Color = "good"
		attachment.Title = "🟢 Store de nouveau joignable"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Send(ctx, SlackMessage{Attachments: []Attachment{attachment}}); err != nil {
		s.logger.Error("❌ Erreur lors de l'envoi de l'alerte store", zap.Error(err))
	}
}
