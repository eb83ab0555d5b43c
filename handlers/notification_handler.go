package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/models"
	"association-backend/utils"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationHandler gère les requêtes de notifications push (webpush)
type NotificationHandler struct {
	subscriptionRepo *database.SubscriptionRepository
	vapidPublicKey   string
	vapidPrivateKey  string
	vapidSubject     string
}

// NewNotificationHandler crée une nouvelle instance de NotificationHandler
func NewNotificationHandler(db *mongo.Database, vapidPublicKey, vapidPrivateKey, vapidSubject string) *NotificationHandler {
	return &NotificationHandler{
		subscriptionRepo: database.NewSubscriptionRepository(db),
		vapidPublicKey:   vapidPublicKey,
		vapidPrivateKey:  vapidPrivateKey,
		vapidSubject:     vapidSubject,
	}
}

// Subscribe permet à un navigateur de s'abonner aux notifications
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.Subscription.Endpoint == "" {
		utils.RespondError(w, http.StatusBadRequest, "endpoint est requis")
		return
	}

	subscription := &models.PushSubscription{
		UserID:   req.UserID,
		Endpoint: req.Subscription.Endpoint,
		Keys:     req.Subscription.Keys,
	}

	if err := h.subscriptionRepo.Upsert(subscription); err != nil {
		log.Printf("Erreur lors de l'enregistrement de l'abonnement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Abonnement push enregistré pour: %s", req.UserID)
	utils.RespondSuccess(w, "Abonnement créé avec succès", subscription)
}

// Unsubscribe supprime l'abonnement d'un endpoint
func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Endpoint string `json:"endpoint"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.Endpoint == "" {
		utils.RespondError(w, http.StatusBadRequest, "endpoint est requis")
		return
	}

	if err := h.subscriptionRepo.DeleteByEndpoint(req.Endpoint); err != nil {
		log.Printf("Erreur lors de la suppression de l'abonnement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Abonnement supprimé: %s", req.Endpoint)
	utils.RespondSuccess(w, "Désabonnement réussi", nil)
}

// SendNotification envoie une notification push aux abonnés (admin)
func (h *NotificationHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if h.vapidPublicKey == "" || h.vapidPrivateKey == "" {
		utils.RespondError(w, http.StatusServiceUnavailable, "Clés VAPID non configurées")
		return
	}

	var req models.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	// user_id vide = diffusion à tous les abonnés
	var (
		subscriptions []models.PushSubscription
		err           error
	)
	if req.UserID != "" {
		subscriptions, err = h.subscriptionRepo.FindByUserID(req.UserID)
	} else {
		subscriptions, err = h.subscriptionRepo.FindAll()
	}
	if err != nil {
		log.Printf("Erreur lors de la récupération des abonnements: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if len(subscriptions) == 0 {
		utils.RespondSuccess(w, "Aucun abonné trouvé", map[string]interface{}{
			"sent":  0,
			"total": 0,
		})
		return
	}

	title := req.Title
	if title == "" {
		title = "Nouvelle notification"
	}

	message := req.Message
	if message == "" {
		message = "Vous avez reçu une nouvelle notification"
	}

	payload := models.NotificationPayload{
		Title: title,
		Body:  message,
		Icon:  "/icon-192x192.png",
		Badge: "/badge-72x72.png",
		Data:  req.Data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Erreur lors de la création du payload: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	sent := 0
	failed := 0

	for _, sub := range subscriptions {
		s := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.Keys.P256dh,
				Auth:   sub.Keys.Auth,
			},
		}

		resp, err := webpush.SendNotification(payloadBytes, s, &webpush.Options{
			Subscriber:      h.vapidSubject,
			VAPIDPublicKey:  h.vapidPublicKey,
			VAPIDPrivateKey: h.vapidPrivateKey,
			TTL:             86400,
			Urgency:         webpush.UrgencyHigh,
		})

		if err != nil {
			log.Printf("❌ Erreur lors de l'envoi de la notification à %s: %v", sub.UserID, err)
			failed++
			if resp != nil {
				resp.Body.Close()
			}
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			sent++
		case http.StatusNotFound, http.StatusGone:
			// Endpoint expiré : purger l'abonnement
			log.Printf("🗑️  Suppression de l'abonnement invalide: %s", sub.Endpoint)
			_ = h.subscriptionRepo.DeleteByEndpoint(sub.Endpoint)
			failed++
		default:
			log.Printf("⚠️  Réponse inattendue pour %s: %d", sub.UserID, resp.StatusCode)
			failed++
		}

		resp.Body.Close()
	}

	log.Printf("📊 Notifications push envoyées: %d/%d (échecs: %d)", sent, len(subscriptions), failed)

	utils.RespondSuccess(w, "Notifications envoyées", map[string]interface{}{
		"sent":   sent,
		"failed": failed,
		"total":  len(subscriptions),
	})
}

// GetVAPIDPublicKey retourne la clé publique VAPID
func (h *NotificationHandler) GetVAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"publicKey": h.vapidPublicKey,
	})
}
