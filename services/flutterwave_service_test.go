package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

type fakeFlutterwave struct {
	payment     map[string]interface{}
	verified    flutterwaveTransaction
	verifyCalls int
	verifyDown  bool
}

func (f *fakeFlutterwave) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/payments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer FLWSECK-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.payment))
		_, _ = w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"link":"https://checkout.flutterwave.com/v3/hosted/pay/abc"}}`))
	})
	mux.HandleFunc("/v3/transactions/", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/verify"))
		f.verifyCalls++
		if f.verifyDown {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"status":"error","message":"upstream unavailable"}`))
			return
		}
		data, _ := json.Marshal(f.verified)
		_, _ = w.Write([]byte(`{"status":"success","message":"Transaction fetched","data":` + string(data) + `}`))
	})
	return mux
}

func newFlutterwaveFixture(t *testing.T) (*FlutterwaveService, *fakeFlutterwave, *database.MemoryStore) {
	t.Helper()
	fake := &fakeFlutterwave{}
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	store := database.NewMemoryStore()
	svc := NewFlutterwaveService(FlutterwaveOptions{
		BaseURL:     server.URL,
		SecretKey:   "FLWSECK-test",
		SecretHash:  "hash-123",
		CallbackURL: "http://api.local/api/donations/callback",
		SiteURL:     "http://site.local/",
	}, store, zap.NewNop())
	return svc, fake, store
}

func donationRequest(amount float64, currency, frequency string) models.DonationRequest {
	return models.DonationRequest{
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Phone:     "+234 801 234 5678",
		Amount:    models.FlexibleNumber{Value: amount, Set: true},
		Currency:  currency,
		Frequency: frequency,
	}
}

func TestLookupPlan(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     int
		ok       bool
	}{
		{2500, "NGN", 141145, true},
		{25000, "NGN", 141148, true},
		{5, "USD", 141154, true},
		{10, "EUR", 141158, true},
		{25, "GBP", 141157, true},
		{5, "NGN", 0, false},
		{2500, "USD", 0, false},
	}
	for _, tt := range tests {
		got, ok := LookupPlan(tt.amount, tt.currency)
		assert.Equal(t, tt.ok, ok, PlanKey(tt.amount, tt.currency))
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "5000.00_NGN", PlanKey(5000, "NGN"))
	assert.Equal(t, "10.00_ALL", PlanKey(10, "KES"))
}

func TestFlutterwaveService_CheckoutValidation(t *testing.T) {
	svc, fake, _ := newFlutterwaveFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   models.DonationRequest
		field string
	}{
		{"champs manquants", models.DonationRequest{Name: "Ada"}, "form"},
		{"devise inconnue", donationRequest(10, "JPY", models.FrequencyOneTime), "currency"},
		{"mensuel personnalisé", func() models.DonationRequest {
			r := donationRequest(5000, "NGN", models.FrequencyMonthly)
			r.Custom = true
			return r
		}(), "selection"},
		{"mensuel hors table", donationRequest(7, "USD", models.FrequencyMonthly), "amount"},
		{"montant nul", donationRequest(0, "NGN", models.FrequencyOneTime), "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(ctx, tt.req)
			var v utils.ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)
		})
	}
	assert.Nil(t, fake.payment, "aucun appel distant sur une erreur de validation")
}

func TestFlutterwaveService_CheckoutMonthly(t *testing.T) {
	svc, fake, store := newFlutterwaveFixture(t)
	ctx := context.Background()

	resp, err := svc.Checkout(ctx, donationRequest(10000, "ngn", models.FrequencyMonthly))
	require.NoError(t, err)
	assert.Equal(t, 141147, resp.PlanID)
	assert.Equal(t, "https://checkout.flutterwave.com/v3/hosted/pay/abc", resp.CheckoutURL)
	assert.True(t, strings.HasPrefix(resp.TxRef, "donation-"))

	assert.Equal(t, "141147", fake.payment["payment_plan"])
	assert.Equal(t, "NGN", fake.payment["currency"])
	assert.Equal(t, "http://api.local/api/donations/callback", fake.payment["redirect_url"])

	donation, err := store.FindDonation(ctx, resp.TxRef)
	require.NoError(t, err)
	assert.Equal(t, models.DonationPending, donation.Status)
	assert.Equal(t, 10000.0, donation.Amount)
}

func TestFlutterwaveService_Callback(t *testing.T) {
	ctx := context.Background()

	t.Run("paiement vérifié", func(t *testing.T) {
		svc, fake, store := newFlutterwaveFixture(t)
		resp, err := svc.Checkout(ctx, donationRequest(5000, "NGN", models.FrequencyOneTime))
		require.NoError(t, err)
		fake.verified = flutterwaveTransaction{ID: 42, TxRef: resp.TxRef, Status: "successful", Amount: 5000, Currency: "NGN"}

		status, err := svc.Callback(ctx, "successful", resp.TxRef, "42")
		require.NoError(t, err)
		assert.Equal(t, models.DonationSuccessful, status)
		donation, _ := store.FindDonation(ctx, resp.TxRef)
		assert.Equal(t, "42", donation.TransactionID)
	})

	t.Run("montant incohérent", func(t *testing.T) {
		svc, fake, _ := newFlutterwaveFixture(t)
		resp, err := svc.Checkout(ctx, donationRequest(5000, "NGN", models.FrequencyOneTime))
		require.NoError(t, err)
		fake.verified = flutterwaveTransaction{ID: 42, TxRef: resp.TxRef, Status: "successful", Amount: 50, Currency: "NGN"}

		status, err := svc.Callback(ctx, "successful", resp.TxRef, "42")
		require.NoError(t, err)
		assert.Equal(t, models.DonationFailed, status)
	})

	t.Run("fermé sans payer", func(t *testing.T) {
		svc, _, store := newFlutterwaveFixture(t)
		resp, err := svc.Checkout(ctx, donationRequest(5, "USD", models.FrequencyOneTime))
		require.NoError(t, err)

		status, err := svc.Callback(ctx, "cancelled", resp.TxRef, "")
		require.NoError(t, err)
		assert.Equal(t, models.DonationCancelled, status)
		donation, _ := store.FindDonation(ctx, resp.TxRef)
		assert.Equal(t, models.DonationCancelled, donation.Status)
	})

	t.Run("vérification indisponible", func(t *testing.T) {
		svc, fake, store := newFlutterwaveFixture(t)
		resp, err := svc.Checkout(ctx, donationRequest(5000, "NGN", models.FrequencyOneTime))
		require.NoError(t, err)
		fake.verifyDown = true

		status, err := svc.Callback(ctx, "successful", resp.TxRef, "42")
		require.NoError(t, err)
		assert.Equal(t, models.DonationPending, status)
		donation, _ := store.FindDonation(ctx, resp.TxRef)
		assert.Equal(t, models.DonationPending, donation.Status)
	})

	t.Run("sans transaction_id", func(t *testing.T) {
		svc, _, store := newFlutterwaveFixture(t)
		resp, err := svc.Checkout(ctx, donationRequest(5000, "NGN", models.FrequencyOneTime))
		require.NoError(t, err)

		status, err := svc.Callback(ctx, "successful", resp.TxRef, "")
		require.NoError(t, err)
		assert.Equal(t, models.DonationPending, status)
		donation, _ := store.FindDonation(ctx, resp.TxRef)
		assert.Equal(t, models.DonationPending, donation.Status)
	})

	t.Run("don confirmé non écrasé", func(t *testing.T) {
		svc, fake, store := newFlutterwaveFixture(t)
		resp, err := svc.Checkout(ctx, donationRequest(25, "GBP", models.FrequencyOneTime))
		require.NoError(t, err)
		fake.verified = flutterwaveTransaction{ID: 7, TxRef: resp.TxRef, Status: "successful", Amount: 25, Currency: "GBP"}
		body := []byte(`{"event":"charge.completed","data":{"id":7,"tx_ref":"` + resp.TxRef + `","status":"successful"}}`)
		require.NoError(t, svc.Webhook(ctx, "hash-123", body))

		status, err := svc.Callback(ctx, "cancelled", resp.TxRef, "")
		require.NoError(t, err)
		assert.Equal(t, models.DonationSuccessful, status)

		status, err = svc.Callback(ctx, "failed", resp.TxRef, "")
		require.NoError(t, err)
		assert.Equal(t, models.DonationSuccessful, status)

		donation, _ := store.FindDonation(ctx, resp.TxRef)
		assert.Equal(t, models.DonationSuccessful, donation.Status)
		assert.Equal(t, "7", donation.TransactionID)
	})

	t.Run("tx_ref inconnue", func(t *testing.T) {
		svc, _, _ := newFlutterwaveFixture(t)
		_, err := svc.Callback(ctx, "successful", "donation-unknown", "1")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestFlutterwaveService_Webhook(t *testing.T) {
	ctx := context.Background()
	svc, fake, store := newFlutterwaveFixture(t)
	resp, err := svc.Checkout(ctx, donationRequest(25, "GBP", models.FrequencyMonthly))
	require.NoError(t, err)

	body := []byte(`{"event":"charge.completed","data":{"id":99,"tx_ref":"` + resp.TxRef + `","status":"successful","amount":25,"currency":"GBP"}}`)

	assert.ErrorIs(t, svc.Webhook(ctx, "wrong", body), ErrInvalidSignature)

	fake.verified = flutterwaveTransaction{ID: 99, TxRef: resp.TxRef, Status: "successful", Amount: 25, Currency: "GBP"}
	require.NoError(t, svc.Webhook(ctx, "hash-123", body))
	donation, _ := store.FindDonation(ctx, resp.TxRef)
	assert.Equal(t, models.DonationSuccessful, donation.Status)

	// Un don déjà confirmé ne repasse pas en échec ni n'est revérifié
	calls := fake.verifyCalls
	require.NoError(t, svc.Webhook(ctx, "hash-123", []byte(`{"event":"charge.completed","data":{"id":99,"tx_ref":"`+resp.TxRef+`","status":"failed"}}`)))
	require.NoError(t, svc.Webhook(ctx, "hash-123", body))
	donation, _ = store.FindDonation(ctx, resp.TxRef)
	assert.Equal(t, models.DonationSuccessful, donation.Status)
	assert.Equal(t, calls, fake.verifyCalls)

	// Un don inconnu est acquitté sans erreur
	assert.NoError(t, svc.Webhook(ctx, "hash-123", []byte(`{"event":"charge.completed","data":{"id":1,"tx_ref":"other","status":"successful"}}`)))
}

func TestFlutterwaveService_ResultURL(t *testing.T) {
	svc, _, _ := newFlutterwaveFixture(t)
	assert.Equal(t, "http://site.local/donate?status=successful&tx_ref=donation-1", svc.ResultURL("successful", "donation-1"))
}
