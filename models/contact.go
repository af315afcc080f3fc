package models

// ContactRequest représente le formulaire de contact
type ContactRequest struct {
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Subject               string `json:"subject"`
	Organization          string `json:"organization"`
	LGA                   string `json:"lga"`
	State                 string `json:"state"`
	Country               string `json:"country"`
	Message               string `json:"message"`
	SubscribeToNewsletter bool   `json:"subscribeToNewsletter"`
}

// TemplateParams retourne les champs transmis au modèle d'email
func (r ContactRequest) TemplateParams() map[string]string {
	return map[string]string{
		"name":         r.Name,
		"email":        r.Email,
		"phone":        r.Phone,
		"subject":      r.Subject,
		"organization": r.Organization,
		"lga":          r.LGA,
		"state":        r.State,
		"country":      r.Country,
		"message":      r.Message,
	}
}

// NewsletterRequest représente une inscription à la newsletter
type NewsletterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Consent   bool   `json:"consent"`
}

// NewsletterResponse représente le résultat d'une inscription
type NewsletterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SiteConfig expose les valeurs publiques nécessaires au front
type SiteConfig struct {
	GAMeasurementID      string              `json:"gaMeasurementId,omitempty"`
	FlutterwavePublicKey string              `json:"flutterwavePublicKey,omitempty"`
	Currencies           []string            `json:"currencies"`
	DonationPresets      []float64           `json:"donationPresets"`
	MonthlyAmounts       map[string][]string `json:"monthlyAmounts"`
	NewsletterEnabled    bool                `json:"newsletterEnabled"`
	ContactEnabled       bool                `json:"contactEnabled"`
}
