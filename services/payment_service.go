package services

import (
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// PaymentService gère les paiements Stripe des inscriptions
type PaymentService struct {
	secretKey string
	currency  string
}

// NewPaymentService crée une nouvelle instance de PaymentService
func NewPaymentService(secretKey, currency string) *PaymentService {
	if secretKey == "" {
		log.Println("⚠️  Clé Stripe non configurée - paiements désactivés")
	} else {
		stripe.Key = secretKey
	}

	return &PaymentService{
		secretKey: secretKey,
		currency:  currency,
	}
}

// Enabled indique si les paiements Stripe sont configurés
func (s *PaymentService) Enabled() bool {
	return s.secretKey != ""
}

// CreatePaymentIntent crée un PaymentIntent Stripe pour une inscription.
// Le montant est en euros, converti en centimes pour Stripe. Une clé
// d'idempotence est générée pour éviter les doublons en cas de retry réseau.
func (s *PaymentService) CreatePaymentIntent(amount float64, description string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("les paiements sont désactivés")
	}

	amountCents := int64(math.Round(amount * 100))

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(s.currency),
		Description: stripe.String(description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.IdempotencyKey = stripe.String(uuid.NewString())
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création du PaymentIntent: %w", err)
	}

	log.Printf("✓ PaymentIntent créé: %s (%d centimes)", intent.ID, amountCents)
	return intent, nil
}

// RefundPaymentIntent rembourse intégralement un PaymentIntent
func (s *PaymentService) RefundPaymentIntent(paymentIntentID string) error {
	if !s.Enabled() {
		return fmt.Errorf("les paiements sont désactivés")
	}
	if paymentIntentID == "" {
		return fmt.Errorf("aucun PaymentIntent associé à cette inscription")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.IdempotencyKey = stripe.String(uuid.NewString())

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("erreur lors du remboursement: %w", err)
	}

	log.Printf("✓ Remboursement effectué pour le PaymentIntent %s", paymentIntentID)
	return nil
}
