package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

// SupportedCurrencies liste les devises acceptées par le checkout
var SupportedCurrencies = []string{"NGN", "USD", "GBP", "EUR", "KES", "GHS", "ZAR"}

// OneTimePresets sont les montants proposés pour un don ponctuel (NGN)
var OneTimePresets = []float64{2500, 5000, 10000, 25000}

// MonthlyAmounts sont les montants d'abonnement proposés par devise
var MonthlyAmounts = map[string][]string{
	"NGN": {"2500.00", "5000.00", "10000.00", "25000.00"},
	"USD": {"5.00", "10.00", "25.00"},
	"EUR": {"5.00", "10.00", "25.00"},
	"GBP": {"5.00", "10.00", "25.00"},
}

// Plans de paiement Flutterwave, clé "<montant>_<NGN|ALL>"
var monthlyPlanIDs = map[string]int{
	"2500.00_NGN":  141145,
	"5000.00_NGN":  141146,
	"10000.00_NGN": 141147,
	"25000.00_NGN": 141148,
	"5.00_ALL":     141154,
	"10.00_ALL":    141158,
	"25.00_ALL":    141157,
}

const (
	flutterwavePaymentOptions = "card,banktransfer,ussd,mobilemoneyghana,mobilemoneyuganda,mobilemoneyrwanda,mobilemoneyzambia,mobilemoneytanzania,mobilemoneyza,mobilemoney"
	flutterwaveLogo           = "https://humanityverseaidfoundation.netlify.app/logo.png"
)

// PlanKey construit la clé de la table des plans
func PlanKey(amount float64, currency string) string {
	suffix := "ALL"
	if currency == "NGN" {
		suffix = "NGN"
	}
	return fmt.Sprintf("%.2f_%s", amount, suffix)
}

// LookupPlan retourne l'ID du plan mensuel correspondant au montant
func LookupPlan(amount float64, currency string) (int, bool) {
	id, ok := monthlyPlanIDs[PlanKey(amount, currency)]
	return id, ok
}

// IsSupportedCurrency indique si la devise est acceptée
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// FlutterwaveService gère le checkout hébergé et le suivi des dons
type FlutterwaveService struct {
	baseURL     string
	secretKey   string
	secretHash  string
	callbackURL string
	siteURL     string
	donations   database.DonationStore
	client      *http.Client
	logger      *zap.Logger
}

// FlutterwaveOptions regroupe la configuration du service
type FlutterwaveOptions struct {
	BaseURL     string
	SecretKey   string
	SecretHash  string
	CallbackURL string
	SiteURL     string
}

type flutterwaveEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type flutterwaveTransaction struct {
	ID       int64   `json:"id"`
	TxRef    string  `json:"tx_ref"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type flutterwaveWebhook struct {
	Event string                 `json:"event"`
	Data  flutterwaveTransaction `json:"data"`
}

// NewFlutterwaveService crée le service
func NewFlutterwaveService(opts FlutterwaveOptions, donations database.DonationStore, logger *zap.Logger) *FlutterwaveService {
	return &FlutterwaveService{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		secretKey:   opts.SecretKey,
		secretHash:  opts.SecretHash,
		callbackURL: opts.CallbackURL,
		siteURL:     strings.TrimRight(opts.SiteURL, "/"),
		donations:   donations,
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Configured indique si la clé secrète est renseignée
func (s *FlutterwaveService) Configured() bool {
	return s.secretKey != ""
}

func newTxRef(now time.Time) string {
	return fmt.Sprintf("donation-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// validateDonation retourne le montant et, pour un don mensuel, l'ID du plan
func validateDonation(req *models.DonationRequest) (float64, int, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = "NGN"
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyOneTime
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" || !req.Amount.Set {
		return 0, 0, utils.ValidationError{Field: "form", Message: constants.ErrDonationMissing}
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return 0, 0, err
	}
	if err := utils.ValidatePhone(req.Phone); err != nil {
		return 0, 0, err
	}
	if !IsSupportedCurrency(req.Currency) {
		return 0, 0, utils.ValidationError{Field: "currency", Message: constants.ErrCurrency}
	}

	amount := req.Amount.Value
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, 0, utils.ValidationError{Field: "amount", Message: constants.ErrMonthlyAmount}
	}
	if err := utils.ValidateAmount(amount); err != nil {
		return 0, 0, err
	}

	switch req.Frequency {
	case models.FrequencyOneTime:
		return amount, 0, nil
	case models.FrequencyMonthly:
		if req.Custom {
			return 0, 0, utils.ValidationError{Field: "selection", Message: constants.ErrMonthlyCustom}
		}
		planID, ok := LookupPlan(amount, req.Currency)
		if !ok {
			return 0, 0, utils.ValidationError{Field: "amount", Message: constants.ErrMonthlyAmount}
		}
		return amount, planID, nil
	default:
		return 0, 0, utils.ValidationError{Field: "frequency", Message: "unknown donation frequency"}
	}
}

// Checkout valide le don, crée le lien de paiement hébergé et enregistre le don en attente
func (s *FlutterwaveService) Checkout(ctx context.Context, req models.DonationRequest) (*models.CheckoutResponse, error) {
	amount, planID, err := validateDonation(&req)
	if err != nil {
		return nil, err
	}
	if !s.Configured() {
		return nil, fmt.Errorf("%w: Flutterwave", ErrNotConfigured)
	}

	now := time.Now()
	txRef := newTxRef(now)

	payload := map[string]interface{}{
		"tx_ref":          txRef,
		"amount":          amount,
		"currency":        req.Currency,
		"redirect_url":    s.callbackURL,
		"payment_options": flutterwavePaymentOptions,
		"customer": map[string]string{
			"email":       req.Email,
			"name":        req.Name,
			"phonenumber": req.Phone,
		},
		"meta": map[string]string{
			"country":   "NG",
			"frequency": req.Frequency,
		},
		"customizations": map[string]string{
			"title":       "Humanity Verse Donation",
			"description": "Support our mission to help communities in need",
			"logo":        flutterwaveLogo,
		},
	}
	if planID != 0 {
		payload["payment_plan"] = fmt.Sprint(planID)
	}

	var link struct {
		Link string `json:"link"`
	}
	if err := s.call(ctx, http.MethodPost, "/v3/payments", payload, &link); err != nil {
		return nil, err
	}
	if link.Link == "" {
		return nil, &RemoteError{Service: "flutterwave", StatusCode: http.StatusOK, Message: "no checkout link returned"}
	}

	donation := &models.Donation{
		TxRef:       txRef,
		Amount:      amount,
		Currency:    req.Currency,
		Frequency:   req.Frequency,
		PlanID:      planID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      models.DonationPending,
		CheckoutURL: link.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.donations.SaveDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("erreur lors de l'enregistrement du don: %w", err)
	}

	s.logger.Info("💳 Checkout créé",
		zap.String("tx_ref", txRef),
		zap.Float64("amount", amount),
		zap.String("currency", req.Currency),
		zap.String("frequency", req.Frequency),
	)
	return &models.CheckoutResponse{TxRef: txRef, CheckoutURL: link.Link, PlanID: planID}, nil
}

// Callback traite le retour du checkout hébergé et retourne le statut du don.
// Seul un don en attente change de statut; un don finalisé est retourné tel quel.
func (s *FlutterwaveService) Callback(ctx context.Context, status, txRef, transactionID string) (string, error) {
	donation, err := s.donations.FindDonation(ctx, txRef)
	if err != nil {
		return "", err
	}
	if donation.Status != models.DonationPending {
		s.logger.Info("Don déjà finalisé, callback ignoré",
			zap.String("tx_ref", txRef),
			zap.String("status", donation.Status),
			zap.String("callback_status", status),
		)
		return donation.Status, nil
	}

	var final string
	switch {
	case status == models.DonationCancelled:
		final = models.DonationCancelled
	case transactionID == "":
		if status != models.DonationFailed {
			// Rien à vérifier: le webhook tranchera
			return models.DonationPending, nil
		}
		final = models.DonationFailed
	default:
		verified, err := s.verify(ctx, transactionID, donation)
		if err != nil {
			s.logger.Error("❌ Vérification Flutterwave échouée", zap.String("tx_ref", txRef), zap.Error(err))
			return models.DonationPending, nil
		}
		final = models.DonationFailed
		if verified {
			final = models.DonationSuccessful
		}
	}

	if err := s.donations.UpdateDonationStatus(ctx, txRef, final, transactionID); err != nil {
		return "", fmt.Errorf("erreur lors de la mise à jour du don: %w", err)
	}
	s.logger.Info("✓ Don mis à jour", zap.String("tx_ref", txRef), zap.String("status", final))
	return final, nil
}

// Webhook applique un événement signé envoyé par Flutterwave
func (s *FlutterwaveService) Webhook(ctx context.Context, signature string, body []byte) error {
	if s.secretHash == "" || signature != s.secretHash {
		return ErrInvalidSignature
	}

	var event flutterwaveWebhook
	if err := json.Unmarshal(body, &event); err != nil {
		return utils.ValidationError{Field: "body", Message: constants.ErrInvalidJSONBody}
	}

	donation, err := s.donations.FindDonation(ctx, event.Data.TxRef)
	if errors.Is(err, database.ErrNotFound) {
		s.logger.Warn("⚠️  Webhook pour un don inconnu", zap.String("tx_ref", event.Data.TxRef))
		return nil
	}
	if err != nil {
		return err
	}
	if donation.Status == models.DonationSuccessful {
		return nil
	}

	transactionID := fmt.Sprint(event.Data.ID)
	var final string
	switch event.Data.Status {
	case models.DonationSuccessful:
		verified, err := s.verify(ctx, transactionID, donation)
		if err != nil {
			return err
		}
		final = models.DonationFailed
		if verified {
			final = models.DonationSuccessful
		}
	case models.DonationFailed:
		if donation.Status != models.DonationPending {
			return nil
		}
		final = models.DonationFailed
	default:
		return nil
	}

	if err := s.donations.UpdateDonationStatus(ctx, donation.TxRef, final, transactionID); err != nil {
		return fmt.Errorf("erreur lors de la mise à jour du don: %w", err)
	}
	s.logger.Info("✓ Webhook Flutterwave appliqué", zap.String("tx_ref", donation.TxRef), zap.String("status", final))
	return nil
}

// verify interroge Flutterwave; montant, devise et tx_ref doivent correspondre
func (s *FlutterwaveService) verify(ctx context.Context, transactionID string, donation *models.Donation) (bool, error) {
	var tx flutterwaveTransaction
	path := fmt.Sprintf("/v3/transactions/%s/verify", url.PathEscape(transactionID))
	if err := s.call(ctx, http.MethodGet, path, nil, &tx); err != nil {
		return false, err
	}
	return tx.Status == models.DonationSuccessful &&
		tx.TxRef == donation.TxRef &&
		tx.Currency == donation.Currency &&
		tx.Amount >= donation.Amount, nil
}

// ResultURL construit la page du site vers laquelle rediriger le donateur
func (s *FlutterwaveService) ResultURL(status, txRef string) string {
	q := url.Values{}
	q.Set("status", status)
	if txRef != "" {
		q.Set("tx_ref", txRef)
	}
	return s.siteURL + "/donate?" + q.Encode()
}

func (s *FlutterwaveService) call(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erreur lors de l'appel à Flutterwave: %w", err)
	}
	defer resp.Body.Close()

	var envelope flutterwaveEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &RemoteError{Service: "flutterwave", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK || envelope.Status != "success" {
		s.logger.Error("❌ Flutterwave error", zap.Int("status", resp.StatusCode), zap.String("message", envelope.Message))
		return &RemoteError{Service: "flutterwave", StatusCode: resp.StatusCode, Message: envelope.Message}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("réponse Flutterwave illisible: %w", err)
		}
	}
	return nil
}
