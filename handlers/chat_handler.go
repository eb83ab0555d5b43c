package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/middleware"
	"association-backend/models"
	"association-backend/services"
	"association-backend/utils"
	ws "association-backend/websocket"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Nombre de messages retournés par défaut
const defaultMessagesLimit = 50

// ChatHandler gère la messagerie entre adhérents
type ChatHandler struct {
	chatRepo     *database.ChatRepository
	userRepo     *database.UserRepository
	fcmTokenRepo *database.FCMTokenRepository
	fcmService   *services.FCMService
	hub          *ws.Hub
}

// NewChatHandler crée une nouvelle instance de ChatHandler
func NewChatHandler(db *mongo.Database, hub *ws.Hub, fcmService *services.FCMService) *ChatHandler {
	return &ChatHandler{
		chatRepo:     database.NewChatRepository(db),
		userRepo:     database.NewUserRepository(db),
		fcmTokenRepo: database.NewFCMTokenRepository(db),
		fcmService:   fcmService,
		hub:          hub,
	}
}

// currentUser extrait l'adhérent connecté du contexte
func (h *ChatHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return nil, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
		return nil, false
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil || user == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrUserNotFound)
		return nil, false
	}
	return user, true
}

// GetConversations retourne les conversations de l'adhérent connecté
func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	conversations, err := h.chatRepo.GetConversations(ctx, user.ID)
	if err != nil {
		log.Printf("Erreur lors de la récupération des conversations: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if conversations == nil {
		conversations = []models.ConversationResponse{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
	})
}

// StartConversation ouvre (ou retrouve) une conversation avec un adhérent
func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req models.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if recipientID == user.ID {
		utils.RespondError(w, http.StatusBadRequest, "Impossible de démarrer une conversation avec soi-même")
		return
	}

	recipient, err := h.userRepo.FindByID(recipientID)
	if err != nil {
		log.Printf("Erreur lors de la recherche du destinataire: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if recipient == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrUserNotFound)
		return
	}

	conversation, err := h.chatRepo.FindOrCreateConversation(user.ID, recipientID)
	if err != nil {
		log.Printf("Erreur lors de la création de la conversation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Premier message optionnel
	if req.Message != "" {
		message := &models.ChatMessage{
			ConversationID: conversation.ID,
			SenderID:       user.ID,
			Content:        req.Message,
		}
		if err := h.chatRepo.CreateMessage(message); err != nil {
			log.Printf("Erreur lors de l'envoi du premier message: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
		h.pushMessage(conversation, message, user, recipient)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"conversation": conversation,
	})
}

// GetMessages retourne les messages d'une conversation et les marque lus
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	conversationID, ok := ParseObjectIDVar(w, mux.Vars(r), "conversation_id", constants.ErrInvalidConvID)
	if !ok {
		return
	}

	conversation, err := h.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la conversation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if conversation == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrConvNotFound)
		return
	}
	if !conversation.IsParticipant(user.ID) {
		utils.RespondError(w, http.StatusForbidden, constants.ErrConvAccessDenied)
		return
	}

	limit := int64(defaultMessagesLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	messages, err := h.chatRepo.FindMessages(conversationID, limit)
	if err != nil {
		log.Printf("Erreur lors de la récupération des messages: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if messages == nil {
		messages = []models.ChatMessage{}
	}

	if err := h.chatRepo.MarkConversationAsRead(conversationID, user.ID); err != nil {
		log.Printf("⚠️  Erreur marquage des messages lus: %v", err)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// SendMessage envoie un message dans une conversation
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	conversationID, ok := ParseObjectIDVar(w, mux.Vars(r), "conversation_id", constants.ErrInvalidConvID)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	conversation, err := h.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la conversation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if conversation == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrConvNotFound)
		return
	}
	if !conversation.IsParticipant(user.ID) {
		utils.RespondError(w, http.StatusForbidden, constants.ErrConvAccessDenied)
		return
	}

	message := &models.ChatMessage{
		ConversationID: conversationID,
		SenderID:       user.ID,
		Content:        req.Content,
	}

	if err := h.chatRepo.CreateMessage(message); err != nil {
		log.Printf("Erreur lors de l'envoi du message: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Retrouver l'autre participant pour la diffusion temps réel
	var recipient *models.User
	for _, participantID := range conversation.Participants {
		if participantID != user.ID {
			recipient, _ = h.userRepo.FindByID(participantID)
			break
		}
	}

	h.pushMessage(conversation, message, user, recipient)

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// pushMessage diffuse un message en temps réel, avec repli FCM quand le
// destinataire n'a pas de connexion WebSocket active
func (h *ChatHandler) pushMessage(conversation *models.Conversation, message *models.ChatMessage, sender *models.User, recipient *models.User) {
	if h.hub != nil {
		h.hub.SendToConversation(conversation.ID.Hex(), map[string]interface{}{
			"type":            "new_message",
			"conversation_id": conversation.ID.Hex(),
			"message":         message,
			"sender": models.UserInfo{
				ID:        sender.ID.Hex(),
				Firstname: sender.Firstname,
				Lastname:  sender.Lastname,
				Email:     sender.Email,
			},
		}, sender.ID.Hex())
	}

	if recipient == nil {
		return
	}

	if h.hub != nil && h.hub.IsUserOnline(recipient.ID.Hex()) {
		return
	}

	// Destinataire hors ligne : notification push
	if h.fcmService == nil {
		return
	}

	tokens, err := h.fcmTokenRepo.FindByUserID(recipient.Email)
	if err != nil || len(tokens) == 0 {
		return
	}

	var tokenStrings []string
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	go func() {
		title := sender.Firstname + " " + sender.Lastname
		_, _, failedTokens := h.fcmService.SendToAll(tokenStrings, title, message.Content, map[string]string{
			"action":          "new_message",
			"conversation_id": conversation.ID.Hex(),
		})
		if len(failedTokens) > 0 {
			// Purger les tokens devenus invalides
			if err := h.fcmTokenRepo.DeleteTokens(failedTokens); err != nil {
				log.Printf("⚠️  Erreur purge tokens FCM: %v", err)
			}
		}
	}()
}
