package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/models"
	"association-backend/services"
	"association-backend/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// FCMHandler gère les requêtes de notifications FCM
type FCMHandler struct {
	fcmService *services.FCMService
	tokenRepo  *database.FCMTokenRepository
}

// NewFCMHandler crée une nouvelle instance de FCMHandler
func NewFCMHandler(db *mongo.Database, fcmService *services.FCMService) *FCMHandler {
	return &FCMHandler{
		fcmService: fcmService,
		tokenRepo:  database.NewFCMTokenRepository(db),
	}
}

// Subscribe enregistre un token FCM pour un adhérent
func (h *FCMHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.FCMSubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.UserID == "" || req.FCMToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "user_id et fcm_token sont requis")
		return
	}

	// Créer ou mettre à jour le token
	token := &models.FCMToken{
		UserID:    req.UserID,
		Token:     req.FCMToken,
		Device:    req.Device,
		UserAgent: req.UserAgent,
	}

	if err := h.tokenRepo.Upsert(token); err != nil {
		log.Printf("Erreur lors de l'enregistrement du token FCM: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Println("Token FCM enregistré")
	utils.RespondSuccess(w, "Abonnement FCM réussi", token)
}

// Unsubscribe supprime un token FCM
func (h *FCMHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		FCMToken string `json:"fcm_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.FCMToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "fcm_token est requis")
		return
	}

	if err := h.tokenRepo.DeleteTokens([]string{req.FCMToken}); err != nil {
		log.Printf("Erreur lors de la suppression du token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Println("Token FCM supprimé")
	utils.RespondSuccess(w, "Désabonnement réussi", nil)
}

// SendNotification envoie une notification à tous les abonnés (admin)
func (h *FCMHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if h.fcmService == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service FCM non configuré")
		return
	}

	var req models.FCMNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	// user_id vide = diffusion à tous les abonnés
	var (
		allTokens []models.FCMToken
		err       error
	)
	if req.UserID != "" {
		allTokens, err = h.tokenRepo.FindByUserID(req.UserID)
	} else {
		allTokens, err = h.tokenRepo.FindAll()
	}
	if err != nil {
		log.Printf("Erreur lors de la récupération des tokens: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if len(allTokens) == 0 {
		utils.RespondSuccess(w, "Aucun abonné trouvé", models.FCMNotificationResponse{
			Success: 0,
			Failed:  0,
			Total:   0,
		})
		return
	}

	tokens := make([]string, len(allTokens))
	for i, t := range allTokens {
		tokens[i] = t.Token
	}

	title := req.Title
	if title == "" {
		title = "Nouvelle notification"
	}

	message := req.Message
	if message == "" {
		message = "Vous avez reçu une nouvelle notification"
	}

	success, failed, failedTokens := h.fcmService.SendToAll(tokens, title, message, req.Data)

	// Supprimer les tokens invalides
	if len(failedTokens) > 0 {
		if err := h.tokenRepo.DeleteTokens(failedTokens); err != nil {
			log.Printf("⚠️  Erreur lors de la suppression des tokens invalides: %v", err)
		} else {
			log.Printf("%d tokens invalides supprimés", len(failedTokens))
		}
	}

	response := models.FCMNotificationResponse{
		Success:      success,
		Failed:       failed,
		Total:        len(allTokens),
		FailedTokens: failedTokens,
	}

	log.Printf("📊 Notifications FCM envoyées: %d succès, %d échecs sur %d total", success, failed, len(allTokens))
	utils.RespondSuccess(w, "Notifications envoyées", response)
}
