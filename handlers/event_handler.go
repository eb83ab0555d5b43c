package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/models"
	"association-backend/services"
	"association-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventHandler gère les requêtes pour les événements
type EventHandler struct {
	eventRepo    *database.EventRepository
	fcmTokenRepo *database.FCMTokenRepository
	fcmService   *services.FCMService
}

// NewEventHandler crée une nouvelle instance de EventHandler
func NewEventHandler(db *mongo.Database, fcmService *services.FCMService) *EventHandler {
	return &EventHandler{
		eventRepo:    database.NewEventRepository(db),
		fcmTokenRepo: database.NewFCMTokenRepository(db),
		fcmService:   fcmService,
	}
}

// notifyNewEvent diffuse une notification FCM à tous les appareils abonnés
// lors de la publication d'un événement
func (h *EventHandler) notifyNewEvent(event *models.Event) {
	if h.fcmService == nil {
		return
	}

	tokens, err := h.fcmTokenRepo.FindAll()
	if err != nil {
		log.Printf("⚠️ Erreur récupération tokens FCM: %v", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	success, failed, failedTokens := h.fcmService.SendToAll(
		tokenStrings,
		"Nouvel événement: "+event.Title,
		event.Description,
		map[string]string{
			"action":   "new_event",
			"event_id": event.ID.Hex(),
		},
	)

	if len(failedTokens) > 0 {
		if err := h.fcmTokenRepo.DeleteTokens(failedTokens); err != nil {
			log.Printf("⚠️ Erreur suppression tokens invalides: %v", err)
		}
	}

	log.Printf("🔔 Notification nouvel événement: %d envoyées, %d échecs", success, failed)
}

// refreshStatuses recalcule le statut dérivé des événements au moment de la
// lecture, sans attendre le prochain passage du cron
func refreshStatuses(events []models.Event) []models.Event {
	now := time.Now()
	for i := range events {
		events[i].EventStatus = events[i].ComputeStatus(now)
	}
	return events
}

// GetPublicEvents retourne la liste publique des événements actifs
func (h *EventHandler) GetPublicEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	events, err := h.eventRepo.FindActive()
	if err != nil {
		log.Printf("Erreur lors de la récupération des événements publics: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if events == nil {
		events = []models.Event{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"events": refreshStatuses(events),
	})
}

// GetBannerEvents retourne les événements mis en avant sur la page d'accueil
func (h *EventHandler) GetBannerEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	events, err := h.eventRepo.FindBannerEvents()
	if err != nil {
		log.Printf("Erreur lors de la récupération des événements bannière: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if events == nil {
		events = []models.Event{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"events": refreshStatuses(events),
	})
}

// GetPublicEvent retourne les détails d'un événement spécifique (PUBLIC)
func (h *EventHandler) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	eventID, ok := ParseObjectIDVar(w, mux.Vars(r), "event_id", constants.ErrInvalidEventID)
	if !ok {
		return
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil {
		log.Printf("Erreur lors de la récupération de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	event.EventStatus = event.ComputeStatus(time.Now())

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"event":   event,
	})
}

// GetAllEvents retourne tous les événements, y compris inactifs (ADMIN)
func (h *EventHandler) GetAllEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	events, err := h.eventRepo.FindAll()
	if err != nil {
		log.Printf("Erreur lors de la récupération des événements: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if events == nil {
		events = []models.Event{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"events": refreshStatuses(events),
		"total":  len(events),
	})
}

// CreateEvent crée un événement (ADMIN)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	event := &models.Event{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Date:            req.Date.Time,
		BackgroundImage: req.BackgroundImage,
		IsBannerEvent:   req.IsBannerEvent,
	}
	if req.RegistrationDeadline != nil {
		deadline := req.RegistrationDeadline.Time
		event.RegistrationDeadline = &deadline
	}

	if err := h.eventRepo.Create(event); err != nil {
		log.Printf("Erreur lors de la création de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Événement créé: %s (%s)", event.Title, event.ID.Hex())

	go h.notifyNewEvent(event)

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"event":   event,
	})
}

// UpdateEvent modifie un événement (ADMIN).
// Le seul statut acceptable en écriture est "cancelled" : les autres
// statuts sont dérivés et jamais fournis par le client.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	eventID, ok := ParseObjectIDVar(w, mux.Vars(r), "event_id", constants.ErrInvalidEventID)
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
		event.Title = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.Date != nil {
		update["date"] = req.Date.Time
		event.Date = req.Date.Time
	}
	if req.BackgroundImage != "" {
		update["background_image"] = req.BackgroundImage
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}
	if req.IsBannerEvent != nil {
		update["is_banner_event"] = *req.IsBannerEvent
	}
	if req.RegistrationDeadline != nil {
		deadline := req.RegistrationDeadline.Time
		update["registration_deadline"] = deadline
		event.RegistrationDeadline = &deadline
	}
	if req.EventStatus != "" {
		if req.EventStatus != models.EventStatusCancelled {
			utils.RespondError(w, http.StatusBadRequest, "Seul le statut 'cancelled' peut être forcé")
			return
		}
		update["event_status"] = models.EventStatusCancelled
		event.EventStatus = models.EventStatusCancelled
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}

	// Recalculer le statut dérivé avec les nouveaux champs
	if event.EventStatus != models.EventStatusCancelled {
		update["event_status"] = event.ComputeStatus(time.Now())
	}

	if err := h.eventRepo.Update(eventID, update); err != nil {
		log.Printf("Erreur lors de la mise à jour de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	updated, err := h.eventRepo.FindByID(eventID)
	if err != nil || updated == nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Événement mis à jour: %s", updated.Title)
	utils.RespondSuccess(w, "Événement mis à jour", updated)
}

// DeleteEvent supprime un événement (ADMIN)
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	eventID, ok := ParseObjectIDVar(w, mux.Vars(r), "event_id", constants.ErrInvalidEventID)
	if !ok {
		return
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	if err := h.eventRepo.Delete(eventID); err != nil {
		log.Printf("Erreur lors de la suppression de l'événement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Événement supprimé: %s", event.Title)
	utils.RespondSuccess(w, "Événement supprimé", nil)
}
