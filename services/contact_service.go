package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

// EmailSender est satisfait par *EmailJSService
type EmailSender interface {
	Send(ctx context.Context, params map[string]string) error
}

// NewsletterSubscriber est satisfait par *MailchimpService
type NewsletterSubscriber interface {
	Subscribe(ctx context.Context, req models.NewsletterRequest) (*models.NewsletterResponse, error)
}

// ContactService traite le formulaire de contact
type ContactService struct {
	email      EmailSender
	newsletter NewsletterSubscriber
	logger     *zap.Logger
}

// NewContactService crée le service
func NewContactService(email EmailSender, newsletter NewsletterSubscriber, logger *zap.Logger) *ContactService {
	return &ContactService{email: email, newsletter: newsletter, logger: logger}
}

// Submit envoie le message puis, si demandé, inscrit l'expéditeur à la newsletter.
// Un échec de l'inscription n'annule pas l'envoi: il modifie seulement le message retourné.
func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateRequired("name", req.Name); err != nil {
		return "", err
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return "", err
	}
	if err := utils.ValidateRequired("message", req.Message); err != nil {
		return "", err
	}

	if err := s.email.Send(ctx, req.TemplateParams()); err != nil {
		return "", fmt.Errorf("erreur lors de l'envoi du message de contact: %w", err)
	}

	message := constants.MsgContactSent
	if !req.SubscribeToNewsletter {
		return message, nil
	}

	first, last := splitName(req.Name)
	resp, err := s.newsletter.Subscribe(ctx, models.NewsletterRequest{
		Email:     req.Email,
		FirstName: first,
		LastName:  last,
		Consent:   true,
	})
	if err != nil || resp == nil || !resp.Success {
		s.logger.Warn("⚠️  Inscription newsletter échouée après contact", zap.String("email", req.Email), zap.Error(err))
		return message + constants.MsgContactNewsKO, nil
	}
	return message + constants.MsgContactNewsOK, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
