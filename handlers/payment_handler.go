package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/models"
	"association-backend/services"
	"association-backend/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stripe recommande de limiter la taille du body des webhooks
const maxWebhookBodyBytes = int64(65536)

// PaymentHandler reçoit les webhooks Stripe et fait avancer le statut
// de paiement des inscriptions
type PaymentHandler struct {
	registrationRepo *database.RegistrationRepository
	offerRepo        *database.EventRegistrationRepository
	eventRepo        *database.EventRepository
	emailSender      services.EmailSender
	webhookSecret    string
}

// NewPaymentHandler crée une nouvelle instance de PaymentHandler
func NewPaymentHandler(db *mongo.Database, emailSender services.EmailSender, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		registrationRepo: database.NewRegistrationRepository(db),
		offerRepo:        database.NewEventRegistrationRepository(db),
		eventRepo:        database.NewEventRepository(db),
		emailSender:      emailSender,
		webhookSecret:    webhookSecret,
	}
}

// StripeWebhook traite les événements Stripe signés.
// La signature vaut authentification : la route est publique mais seul
// Stripe peut produire un payload accepté.
func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Lecture du body impossible")
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		log.Printf("❌ Signature webhook Stripe invalide: %v", err)
		utils.RespondError(w, http.StatusBadRequest, "Signature invalide")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		h.handlePaymentIntent(w, event, models.PaymentStatusCompleted)

	case "payment_intent.payment_failed":
		h.handlePaymentIntent(w, event, models.PaymentStatusFailed)

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
			return
		}
		if charge.PaymentIntent != nil {
			h.transition(w, charge.PaymentIntent.ID, "", models.PaymentStatusRefunded)
			return
		}
		utils.RespondSuccess(w, "Événement ignoré", nil)

	default:
		// Les autres types d'événements sont acquittés sans traitement
		log.Printf("Webhook Stripe ignoré: %s", event.Type)
		utils.RespondSuccess(w, "Événement ignoré", nil)
	}
}

// handlePaymentIntent extrait le PaymentIntent et applique la transition
func (h *PaymentHandler) handlePaymentIntent(w http.ResponseWriter, event stripe.Event, status string) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	h.transition(w, intent.ID, intent.Metadata["registration_id"], status)
}

// transition retrouve l'inscription (par PaymentIntent, sinon par les
// métadonnées) et applique le nouveau statut
func (h *PaymentHandler) transition(w http.ResponseWriter, paymentIntentID, registrationIDHex, status string) {
	registration, err := h.registrationRepo.FindByPaymentIntentID(paymentIntentID)
	if err != nil {
		log.Printf("Erreur lors de la recherche par PaymentIntent: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if registration == nil && registrationIDHex != "" {
		if regID, err := primitive.ObjectIDFromHex(registrationIDHex); err == nil {
			registration, err = h.registrationRepo.FindByID(regID)
			if err != nil {
				log.Printf("Erreur lors de la recherche de l'inscription: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
				return
			}
		}
	}

	if registration == nil {
		// Acquitter quand même : Stripe rejouerait indéfiniment sinon
		log.Printf("⚠️  Webhook pour un PaymentIntent inconnu: %s", paymentIntentID)
		utils.RespondSuccess(w, "Inscription non trouvée, événement acquitté", nil)
		return
	}

	if err := h.registrationRepo.UpdatePaymentStatus(registration.ID, status, paymentIntentID); err != nil {
		log.Printf("Erreur lors de la mise à jour du statut: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Webhook Stripe: inscription %s -> %s", registration.ID.Hex(), status)

	if status == models.PaymentStatusCompleted {
		go h.sendConfirmation(registration)
	}

	utils.RespondSuccess(w, "Statut de paiement mis à jour", nil)
}

// sendConfirmation envoie l'email de confirmation après encaissement
func (h *PaymentHandler) sendConfirmation(registration *models.Registration) {
	if h.emailSender == nil {
		return
	}

	offer, err := h.offerRepo.FindByID(registration.EventRegistrationID)
	if err != nil || offer == nil {
		log.Printf("⚠️  Offre introuvable pour la confirmation de %s", registration.ID.Hex())
		return
	}

	var eventInfo *models.EventDisplayInfo
	if offer.EventID != nil {
		if event, err := h.eventRepo.FindByID(*offer.EventID); err == nil && event != nil {
			eventInfo = &models.EventDisplayInfo{
				ID:       event.ID.Hex(),
				Title:    event.Title,
				Date:     event.Date,
				Location: event.Location,
			}
		}
	}

	if err := h.emailSender.SendRegistrationConfirmation(registration, offer, eventInfo); err != nil {
		log.Printf("⚠️  Échec envoi confirmation à %s: %v", registration.Email, err)
	}
}
