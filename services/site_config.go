package services

import (
	"humanity-verse-backend/config"
	"humanity-verse-backend/models"
)

// NewSiteConfig rassemble les valeurs publiques dont le front a besoin
func NewSiteConfig(cfg *config.Config, newsletter *MailchimpService, email *EmailJSService) models.SiteConfig {
	return models.SiteConfig{
		GAMeasurementID:      cfg.GAMeasurementID,
		FlutterwavePublicKey: cfg.FlutterwavePublicKey,
		Currencies:           SupportedCurrencies,
		DonationPresets:      OneTimePresets,
		MonthlyAmounts:       MonthlyAmounts,
		NewsletterEnabled:    newsletter != nil && newsletter.Configured(),
		ContactEnabled:       email != nil && email.Configured(),
	}
}
