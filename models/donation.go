package models

import "time"

// Fréquences de don
const (
	FrequencyOneTime = "one_time"
	FrequencyMonthly = "monthly"
)

// Statuts d'un don
const (
	DonationPending    = "pending"
	DonationSuccessful = "successful"
	DonationFailed     = "failed"
	DonationCancelled  = "cancelled"
)

// Donation représente un paiement initié via le checkout hébergé
type Donation struct {
	TxRef         string    `json:"txRef" firestore:"txRef" bson:"_id"`
	Amount        float64   `json:"amount" firestore:"amount" bson:"amount"`
	Currency      string    `json:"currency" firestore:"currency" bson:"currency"`
	Frequency     string    `json:"frequency" firestore:"frequency" bson:"frequency"`
	PlanID        int       `json:"planId,omitempty" firestore:"planId,omitempty" bson:"planId,omitempty"`
	Name          string    `json:"name" firestore:"name" bson:"name"`
	Email         string    `json:"email" firestore:"email" bson:"email"`
	Phone         string    `json:"phone" firestore:"phone" bson:"phone"`
	Status        string    `json:"status" firestore:"status" bson:"status"`
	TransactionID string    `json:"transactionId,omitempty" firestore:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CheckoutURL   string    `json:"checkoutUrl,omitempty" firestore:"checkoutUrl,omitempty" bson:"checkoutUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

// DonationRequest représente le formulaire de don
type DonationRequest struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Amount    FlexibleNumber `json:"amount"`
	Currency  string         `json:"currency"`
	Frequency string         `json:"frequency"`
	Custom    bool           `json:"customAmount"`
}

// CheckoutResponse renvoie le lien de paiement hébergé
type CheckoutResponse struct {
	TxRef       string `json:"txRef"`
	CheckoutURL string `json:"checkoutUrl"`
	PlanID      int    `json:"planId,omitempty"`
}
