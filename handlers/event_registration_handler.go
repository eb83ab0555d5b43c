package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/models"
	"association-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventRegistrationHandler gère les offres d'inscription
type EventRegistrationHandler struct {
	offerRepo        *database.EventRegistrationRepository
	eventRepo        *database.EventRepository
	registrationRepo *database.RegistrationRepository
	publicBaseURL    string
}

// NewEventRegistrationHandler crée une nouvelle instance
func NewEventRegistrationHandler(db *mongo.Database, publicBaseURL string) *EventRegistrationHandler {
	return &EventRegistrationHandler{
		offerRepo:        database.NewEventRegistrationRepository(db),
		eventRepo:        database.NewEventRepository(db),
		registrationRepo: database.NewRegistrationRepository(db),
		publicBaseURL:    publicBaseURL,
	}
}

// registrationLink construit le lien public d'inscription d'un événement.
// Le chemin porte l'identifiant de l'événement ET celui de l'offre.
func registrationLink(baseURL string, eventID, offerID primitive.ObjectID) string {
	return fmt.Sprintf("%s/evenements/%s/inscription/%s", baseURL, eventID.Hex(), offerID.Hex())
}

// attachLiveCount remplit CurrentAttendees depuis les inscriptions payées.
// La capacité n'est jamais stockée : elle est recomptée à chaque lecture.
func (h *EventRegistrationHandler) attachLiveCount(offer *models.EventRegistration) error {
	count, err := h.registrationRepo.CountCompletedByOffer(offer.ID)
	if err != nil {
		return err
	}
	offer.CurrentAttendees = int(count)
	return nil
}

// CreateEventRegistration crée une offre d'inscription (ADMIN).
// Si l'offre est liée à un événement, l'événement est mis à jour dans la
// foulée (lien public, deadline, statut). En cas d'échec de cette seconde
// écriture, l'offre est supprimée pour ne pas laisser d'état incohérent.
func (h *EventRegistrationHandler) CreateEventRegistration(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateEventRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.MaxAttendees != nil && *req.MaxAttendees <= 0 {
		utils.RespondError(w, http.StatusBadRequest, "max_attendees doit être strictement positif")
		return
	}

	offer := &models.EventRegistration{
		Title:                     req.Title,
		Description:               req.Description,
		Pricing:                   req.Pricing.Resolve(),
		RegistrationDeadline:      req.RegistrationDeadline.Time,
		MaxAttendees:              req.MaxAttendees,
		CustomFields:              req.CustomFields,
		ConfirmationEmailTemplate: req.ConfirmationEmailTemplate,
	}

	// Offre liée : vérifier l'événement AVANT de créer l'offre
	var event *models.Event
	if req.EventID != "" {
		eventID, err := primitive.ObjectIDFromHex(req.EventID)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidEventID)
			return
		}
		event, err = h.eventRepo.FindByID(eventID)
		if err != nil {
			log.Printf("Erreur lors de la recherche de l'événement: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
		if event == nil {
			utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
			return
		}
		offer.EventID = &event.ID
	}

	if err := h.offerRepo.Create(offer); err != nil {
		log.Printf("Erreur lors de la création de l'offre: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if event != nil {
		deadline := offer.RegistrationDeadline
		event.RegistrationEnabled = true
		event.RegistrationDeadline = &deadline

		update := bson.M{
			"registration_enabled":  true,
			"registration_link":     registrationLink(h.publicBaseURL, event.ID, offer.ID),
			"registration_deadline": deadline,
			"event_status":          event.ComputeStatus(time.Now()),
		}

		if err := h.eventRepo.Update(event.ID, update); err != nil {
			// Action compensatoire : pas de transaction multi-documents,
			// on retire l'offre pour revenir à l'état initial
			log.Printf("❌ Échec liaison événement, suppression de l'offre %s: %v", offer.ID.Hex(), err)
			if delErr := h.offerRepo.Delete(offer.ID); delErr != nil {
				log.Printf("❌ Échec de la compensation, offre orpheline %s: %v", offer.ID.Hex(), delErr)
			}
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
	}

	log.Printf("✓ Offre d'inscription créée: %s (%s)", offer.Title, offer.ID.Hex())
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":            true,
		"event_registration": offer,
	})
}

// GetEventRegistrations retourne les offres d'inscription (ADMIN).
// Filtre optionnel ?event_id=.
func (h *EventRegistrationHandler) GetEventRegistrations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var eventFilter *primitive.ObjectID
	if raw := r.URL.Query().Get("event_id"); raw != "" {
		eventID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidEventID)
			return
		}
		eventFilter = &eventID
	}

	offers, err := h.offerRepo.FindAll(eventFilter)
	if err != nil {
		log.Printf("Erreur lors de la récupération des offres: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if offers == nil {
		offers = []models.EventRegistration{}
	}

	for i := range offers {
		if err := h.attachLiveCount(&offers[i]); err != nil {
			log.Printf("Erreur lors du comptage des participants: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"event_registrations": offers,
		"total":               len(offers),
	})
}

// GetEventRegistration retourne une offre avec son compteur en direct (ADMIN)
func (h *EventRegistrationHandler) GetEventRegistration(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	offerID, ok := ParseObjectIDVar(w, mux.Vars(r), "registration_id", constants.ErrInvalidOfferID)
	if !ok {
		return
	}

	offer, err := h.offerRepo.FindByID(offerID)
	if err != nil {
		log.Printf("Erreur lors de la récupération de l'offre: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if offer == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrOfferNotFound)
		return
	}

	if err := h.attachLiveCount(offer); err != nil {
		log.Printf("Erreur lors du comptage des participants: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"event_registration": offer,
	})
}

// UpdateEventRegistration remplace intégralement une offre (ADMIN).
// L'appelant renvoie tous les champs : les absents reprennent leur
// valeur par défaut, comme pour toute sémantique PUT.
func (h *EventRegistrationHandler) UpdateEventRegistration(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	offerID, ok := ParseObjectIDVar(w, mux.Vars(r), "registration_id", constants.ErrInvalidOfferID)
	if !ok {
		return
	}

	var req models.UpdateEventRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.MaxAttendees != nil && *req.MaxAttendees <= 0 {
		utils.RespondError(w, http.StatusBadRequest, "max_attendees doit être strictement positif")
		return
	}

	offer, err := h.offerRepo.FindByID(offerID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'offre: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if offer == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrOfferNotFound)
		return
	}

	offer.Title = req.Title
	offer.Description = req.Description
	offer.Pricing = req.Pricing.Resolve()
	offer.RegistrationDeadline = req.RegistrationDeadline.Time
	offer.MaxAttendees = req.MaxAttendees
	offer.CustomFields = req.CustomFields
	offer.ConfirmationEmailTemplate = req.ConfirmationEmailTemplate
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}

	if err := h.offerRepo.Update(offer); err != nil {
		log.Printf("Erreur lors de la mise à jour de l'offre: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Propager la nouvelle deadline à l'événement lié
	if offer.EventID != nil {
		if event, err := h.eventRepo.FindByID(*offer.EventID); err == nil && event != nil {
			deadline := offer.RegistrationDeadline
			event.RegistrationDeadline = &deadline
			if err := h.eventRepo.Update(event.ID, bson.M{
				"registration_deadline": deadline,
				"event_status":          event.ComputeStatus(time.Now()),
			}); err != nil {
				log.Printf("⚠️  Échec propagation deadline à l'événement %s: %v", event.ID.Hex(), err)
			}
		}
	}

	if err := h.attachLiveCount(offer); err != nil {
		log.Printf("Erreur lors du comptage des participants: %v", err)
	}

	log.Printf("✓ Offre d'inscription mise à jour: %s", offer.Title)
	utils.RespondSuccess(w, "Offre d'inscription mise à jour", offer)
}

// DeleteEventRegistration supprime une offre (ADMIN).
// L'événement lié est délié AVANT la suppression : si la déliaison échoue,
// l'offre reste en place et aucun lien public ne devient orphelin.
// Les inscriptions existantes ne sont jamais supprimées.
func (h *EventRegistrationHandler) DeleteEventRegistration(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	offerID, ok := ParseObjectIDVar(w, mux.Vars(r), "registration_id", constants.ErrInvalidOfferID)
	if !ok {
		return
	}

	offer, err := h.offerRepo.FindByID(offerID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'offre: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if offer == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrOfferNotFound)
		return
	}

	if offer.EventID != nil {
		event, err := h.eventRepo.FindByID(*offer.EventID)
		if err != nil {
			log.Printf("Erreur lors de la recherche de l'événement lié: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
		if event != nil {
			event.RegistrationEnabled = false
			event.RegistrationDeadline = nil
			update := bson.M{
				"registration_enabled": false,
				"registration_link":    "",
				"event_status":         event.ComputeStatus(time.Now()),
			}
			if err := h.eventRepo.Update(event.ID, update); err != nil {
				log.Printf("❌ Échec déliaison de l'événement %s, offre conservée: %v", event.ID.Hex(), err)
				utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
				return
			}
		}
	}

	if err := h.offerRepo.Delete(offerID); err != nil {
		log.Printf("Erreur lors de la suppression de l'offre: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Offre d'inscription supprimée: %s (les inscriptions sont conservées)", offer.Title)
	utils.RespondSuccess(w, "Offre d'inscription supprimée", nil)
}

// GetPublicEventRegistration amorce la page publique d'inscription.
// Garde-fous dans l'ordre : introuvable/inactive (404), deadline dépassée
// (410), capacité atteinte (410).
func (h *EventRegistrationHandler) GetPublicEventRegistration(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	offerID, ok := ParseObjectIDVar(w, mux.Vars(r), "registration_id", constants.ErrInvalidOfferID)
	if !ok {
		return
	}

	offer, err := h.offerRepo.FindByID(offerID)
	if err != nil {
		log.Printf("Erreur lors de la récupération de l'offre publique: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if offer == nil || !offer.IsActive {
		utils.RespondError(w, http.StatusNotFound, constants.ErrOfferNotFound)
		return
	}

	if time.Now().After(offer.RegistrationDeadline) {
		utils.RespondError(w, http.StatusGone, constants.ErrOfferExpired)
		return
	}

	if err := h.attachLiveCount(offer); err != nil {
		log.Printf("Erreur lors du comptage des participants: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if offer.MaxAttendees != nil && offer.CurrentAttendees >= *offer.MaxAttendees {
		utils.RespondError(w, http.StatusGone, constants.ErrOfferFull)
		return
	}

	response := models.PublicEventRegistrationResponse{
		EventRegistration: *offer,
	}

	if offer.EventID != nil {
		if event, err := h.eventRepo.FindByID(*offer.EventID); err == nil && event != nil {
			response.Event = &models.EventDisplayInfo{
				ID:              event.ID.Hex(),
				Title:           event.Title,
				Date:            event.Date,
				Location:        event.Location,
				Description:     event.Description,
				BackgroundImage: event.BackgroundImage,
			}
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"event_registration": response,
	})
}
