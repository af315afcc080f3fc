package services

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"humanity-verse-backend/models"
)

// GalleryNotifier annonce un nouvel élément de galerie
type GalleryNotifier interface {
	NotifyNewMedia(ctx context.Context, item models.MediaItem) error
}

// FCMService gère l'envoi des notifications via Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
	topic  string
	logger *zap.Logger
}

// NewFCMService crée le client messaging à partir de l'application Firebase
func NewFCMService(ctx context.Context, app *firebase.App, topic string, logger *zap.Logger) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création du client FCM: %w", err)
	}

	logger.Info("✓ Firebase Cloud Messaging initialisé", zap.String("topic", topic))

	return &FCMService{
		client: client,
		topic:  topic,
		logger: logger,
	}, nil
}

// NewDisabledFCMService retourne un service inactif (Firebase non configuré)
func NewDisabledFCMService(logger *zap.Logger) *FCMService {
	logger.Warn("⚠️  FCM non configuré - notifications push désactivées")
	return &FCMService{logger: logger}
}

// Enabled indique si les notifications sont actives
func (s *FCMService) Enabled() bool {
	return s.client != nil
}

// SendToTopic envoie un data message à tous les abonnés d'un topic
func (s *FCMService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	if s.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Préparer UNIQUEMENT des data messages
	if data == nil {
		data = make(map[string]string)
	}
	data["title"] = title
	data["message"] = body

	message := &messaging.Message{
		Topic: topic,
		Data:  data,
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{
				"Urgency": "normal",
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi de la notification: %w", err)
	}

	s.logger.Info("✓ Notification envoyée", zap.String("topic", topic), zap.String("response", response))
	return nil
}

// NotifyNewMedia annonce un ajout de galerie sur le topic configuré
func (s *FCMService) NotifyNewMedia(ctx context.Context, item models.MediaItem) error {
	title, body := galleryNotification(item)
	return s.SendToTopic(ctx, s.topic, title, body, map[string]string{
		"action": "gallery_update",
		"kind":   string(item.Kind),
		"id":     item.ID,
		"url":    "/gallery",
	})
}

func galleryNotification(item models.MediaItem) (string, string) {
	title := "📸 New photo in the gallery"
	if item.Kind == models.KindVideo {
		title = "🎬 New video in the gallery"
	}
	body := item.Title
	if body == "" {
		body = "See what Humanity Verse Aid Foundation has been up to."
	}
	return title, body
}
