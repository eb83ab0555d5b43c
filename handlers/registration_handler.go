package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/middleware"
	"association-backend/models"
	"association-backend/services"
	"association-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// Nombre maximum d'envois d'emails de rappel en parallèle
const maxConcurrentReminders = 5

// RegistrationHandler gère le cycle de vie des inscriptions des participants
type RegistrationHandler struct {
	registrationRepo *database.RegistrationRepository
	offerRepo        *database.EventRegistrationRepository
	eventRepo        *database.EventRepository
	userRepo         *database.UserRepository
	paymentService   *services.PaymentService
	emailSender      services.EmailSender
}

// NewRegistrationHandler crée une nouvelle instance
func NewRegistrationHandler(db *mongo.Database, paymentService *services.PaymentService, emailSender services.EmailSender) *RegistrationHandler {
	return &RegistrationHandler{
		registrationRepo: database.NewRegistrationRepository(db),
		offerRepo:        database.NewEventRegistrationRepository(db),
		eventRepo:        database.NewEventRepository(db),
		userRepo:         database.NewUserRepository(db),
		paymentService:   paymentService,
		emailSender:      emailSender,
	}
}

// validateCustomFields vérifie les réponses contre la définition des champs
func validateCustomFields(fields []models.CustomField, responses []models.CustomFieldResponse) error {
	byName := make(map[string]string, len(responses))
	for _, resp := range responses {
		byName[resp.FieldName] = strings.TrimSpace(resp.Response)
	}

	for _, field := range fields {
		value, present := byName[field.Name]
		if field.Required && (!present || value == "") {
			return fmt.Errorf("le champ '%s' est requis", field.Name)
		}
		if present && value != "" && field.Type == "select" && len(field.Options) > 0 {
			valid := false
			for _, opt := range field.Options {
				if opt == value {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("valeur invalide pour le champ '%s'", field.Name)
			}
		}
	}
	return nil
}

// CreateRegistration inscrit un participant à une offre (PUBLIC).
// Les gardes sont réévaluées ici même si la page publique les a déjà
// vérifiées : l'état peut avoir changé entre les deux appels.
func (h *RegistrationHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	offerID, err := primitive.ObjectIDFromHex(req.EventRegistrationID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidOfferID)
		return
	}

	offer, err := h.offerRepo.FindByID(offerID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'offre: %v", err)
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

	if offer.MaxAttendees != nil {
		count, err := h.registrationRepo.CountCompletedByOffer(offer.ID)
		if err != nil {
			log.Printf("Erreur lors du comptage des participants: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
		if int(count) >= *offer.MaxAttendees {
			utils.RespondError(w, http.StatusGone, constants.ErrOfferFull)
			return
		}
	}

	if err := validateCustomFields(offer.CustomFields, req.CustomFieldResponses); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Le rôle d'adhésion vient du compte connecté quand il existe : le rôle
	// déclaré dans la requête ne fait foi que pour les invités
	userRole := "guest"
	membershipRole := req.MembershipRole
	var memberID *primitive.ObjectID

	if claims := middleware.GetUserFromContext(r.Context()); claims != nil {
		if objID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			if member, err := h.userRepo.FindByID(objID); err == nil && member != nil {
				userRole = "member"
				membershipRole = member.MembershipRole
				memberID = &member.ID
			}
		}
	}

	switch membershipRole {
	case models.MembershipRoleStudent, models.MembershipRoleFull, models.MembershipRoleAffiliate:
	default:
		membershipRole = models.MembershipRoleNonMember
	}

	amount := offer.Pricing.ForRole(membershipRole)

	registration := &models.Registration{
		EventRegistrationID:  offer.ID,
		MemberID:             memberID,
		UserRole:             userRole,
		MembershipRole:       membershipRole,
		Firstname:            req.Firstname,
		Lastname:             req.Lastname,
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                req.Phone,
		AmountPaid:           amount,
		PaymentStatus:        models.PaymentStatusPending,
		CustomFieldResponses: req.CustomFieldResponses,
	}
	if offer.EventID != nil {
		registration.EventID = *offer.EventID
	}

	// Gratuit : l'inscription est validée immédiatement, sans paiement
	if amount == 0 {
		registration.PaymentStatus = models.PaymentStatusCompleted
	}

	if err := h.registrationRepo.Create(registration); err != nil {
		log.Printf("Erreur lors de la création de l'inscription: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	response := map[string]interface{}{
		"success":      true,
		"registration": registration,
	}

	if amount == 0 {
		go h.sendConfirmationEmail(registration, offer)
	} else if h.paymentService != nil && h.paymentService.Enabled() {
		intent, err := h.paymentService.CreatePaymentIntent(amount,
			fmt.Sprintf("Inscription: %s", offer.Title),
			map[string]string{
				"registration_id":       registration.ID.Hex(),
				"event_registration_id": offer.ID.Hex(),
			})
		if err != nil {
			// L'inscription reste "pending" : le paiement pourra être rejoué
			log.Printf("❌ Erreur création PaymentIntent pour %s: %v", registration.ID.Hex(), err)
			utils.RespondError(w, http.StatusBadGateway, "Le paiement n'a pas pu être initialisé, veuillez réessayer")
			return
		}

		if err := h.registrationRepo.UpdatePaymentStatus(registration.ID, models.PaymentStatusPending, intent.ID); err != nil {
			log.Printf("⚠️  Échec enregistrement du PaymentIntent %s: %v", intent.ID, err)
		}
		registration.PaymentIntentID = intent.ID
		response["client_secret"] = intent.ClientSecret
	}

	log.Printf("✓ Inscription créée: %s %s -> %s (%.2f €, %s)",
		registration.Firstname, registration.Lastname, offer.Title, amount, registration.PaymentStatus)

	utils.RespondJSON(w, http.StatusCreated, response)
}

// sendConfirmationEmail envoie l'email de confirmation, sans bloquer la requête
func (h *RegistrationHandler) sendConfirmationEmail(registration *models.Registration, offer *models.EventRegistration) {
	if h.emailSender == nil {
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

// GetRegistrations retourne les inscriptions d'une offre (ADMIN)
func (h *RegistrationHandler) GetRegistrations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	offerID, ok := ParseObjectIDVar(w, mux.Vars(r), "registration_id", constants.ErrInvalidOfferID)
	if !ok {
		return
	}

	registrations, err := h.registrationRepo.FindByOffer(offerID)
	if err != nil {
		log.Printf("Erreur lors de la récupération des inscriptions: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if registrations == nil {
		registrations = []models.Registration{}
	}

	completed := 0
	for _, reg := range registrations {
		if reg.PaymentStatus == models.PaymentStatusCompleted {
			completed++
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"registrations": registrations,
		"total":         len(registrations),
		"completed":     completed,
	})
}

// UpdatePaymentStatus fait transiter le statut de paiement (ADMIN).
// Le passage à "refunded" déclenche le remboursement Stripe si un
// PaymentIntent est associé.
func (h *RegistrationHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	var req models.UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !models.IsValidPaymentStatus(req.PaymentStatus) {
		utils.RespondError(w, http.StatusBadRequest, "Statut de paiement invalide")
		return
	}

	registrationID, err := primitive.ObjectIDFromHex(req.RegistrationID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidRegistrationID)
		return
	}

	registration, err := h.registrationRepo.FindByID(registrationID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'inscription: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if registration == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrRegistrationNotFound)
		return
	}

	if req.PaymentStatus == models.PaymentStatusRefunded && registration.PaymentIntentID != "" &&
		h.paymentService != nil && h.paymentService.Enabled() {
		if err := h.paymentService.RefundPaymentIntent(registration.PaymentIntentID); err != nil {
			log.Printf("❌ Échec remboursement pour %s: %v", registration.ID.Hex(), err)
			utils.RespondError(w, http.StatusBadGateway, "Le remboursement Stripe a échoué")
			return
		}
	}

	if err := h.registrationRepo.UpdatePaymentStatus(registrationID, req.PaymentStatus, req.PaymentIntentID); err != nil {
		log.Printf("Erreur lors de la mise à jour du statut: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Statut de paiement: %s -> %s (%s)", registration.PaymentStatus, req.PaymentStatus, registrationID.Hex())
	utils.RespondSuccess(w, "Statut de paiement mis à jour", nil)
}

// UpdateAdminNotes enregistre les notes internes sur une inscription (ADMIN)
func (h *RegistrationHandler) UpdateAdminNotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	registrationID, ok := ParseObjectIDVar(w, mux.Vars(r), "registration_id", constants.ErrInvalidRegistrationID)
	if !ok {
		return
	}

	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	registration, err := h.registrationRepo.FindByID(registrationID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'inscription: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if registration == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrRegistrationNotFound)
		return
	}

	if err := h.registrationRepo.UpdateAdminNotes(registrationID, req.AdminNotes); err != nil {
		log.Printf("Erreur lors de la mise à jour des notes: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Notes mises à jour", nil)
}

// SendConfirmation renvoie l'email de confirmation d'une inscription (ADMIN)
func (h *RegistrationHandler) SendConfirmation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.SendConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	registrationID, err := primitive.ObjectIDFromHex(req.RegistrationID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidRegistrationID)
		return
	}

	registration, err := h.registrationRepo.FindByID(registrationID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'inscription: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if registration == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrRegistrationNotFound)
		return
	}

	offer, err := h.offerRepo.FindByID(registration.EventRegistrationID)
	if err != nil || offer == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrOfferNotFound)
		return
	}

	if h.emailSender == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "L'envoi d'emails est désactivé")
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
		log.Printf("❌ Échec envoi confirmation à %s: %v", registration.Email, err)
		utils.RespondError(w, http.StatusBadGateway, "L'envoi de l'email a échoué")
		return
	}

	log.Printf("✓ Confirmation renvoyée à %s", registration.Email)
	utils.RespondSuccess(w, "Email de confirmation envoyé", nil)
}

// SendReminders envoie un rappel à tous les inscrits payés d'une offre (ADMIN).
// Les envois sont parallélisés avec une limite de concurrence, et un échec
// individuel n'interrompt jamais le lot : le bilan liste chaque destinataire.
func (h *RegistrationHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.SendRemindersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	offerID, err := primitive.ObjectIDFromHex(req.EventRegistrationID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidOfferID)
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

	if h.emailSender == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "L'envoi d'emails est désactivé")
		return
	}

	// Seuls les inscrits dont le paiement est validé reçoivent un rappel
	registrations, err := h.registrationRepo.FindCompletedByOffer(offerID)
	if err != nil {
		log.Printf("Erreur lors de la récupération des inscrits: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	eventDate := req.EventDate.Time
	if eventDate.IsZero() && offer.EventID != nil {
		if event, err := h.eventRepo.FindByID(*offer.EventID); err == nil && event != nil {
			eventDate = event.Date
		}
	}

	sent, failed, results := dispatchReminders(h.emailSender, registrations, offer, eventDate)

	log.Printf("📧 Rappels '%s': %d envoyés, %d échecs sur %d", offer.Title, sent, failed, len(registrations))

	utils.RespondJSON(w, http.StatusOK, models.SendRemindersResponse{
		RemindersSent:   sent,
		RemindersFailed: failed,
		Results:         results,
	})
}

// dispatchReminders envoie les rappels en parallèle (limite de concurrence)
// et collecte un bilan par destinataire. Un échec individuel n'interrompt
// jamais le lot.
func dispatchReminders(sender services.EmailSender, registrations []models.Registration, offer *models.EventRegistration, eventDate time.Time) (sent, failed int, results []models.ReminderResult) {
	results = make([]models.ReminderResult, len(registrations))

	var g errgroup.Group
	g.SetLimit(maxConcurrentReminders)
	var mu sync.Mutex

	for i := range registrations {
		i := i
		reg := registrations[i]
		g.Go(func() error {
			result := models.ReminderResult{
				RegistrationID: reg.ID.Hex(),
				Email:          reg.Email,
				Status:         "sent",
			}

			if err := sender.SendRegistrationReminder(&reg, offer, eventDate); err != nil {
				result.Status = "failed"
				result.Error = err.Error()
				log.Printf("❌ Rappel échoué pour %s: %v", reg.Email, err)
			}

			mu.Lock()
			results[i] = result
			if result.Status == "sent" {
				sent++
			} else {
				failed++
			}
			mu.Unlock()

			// Toujours nil : un échec d'envoi ne doit pas annuler le lot
			return nil
		})
	}

	_ = g.Wait()
	return sent, failed, results
}

// GetMyRegistrations retourne les inscriptions de l'adhérent connecté
func (h *RegistrationHandler) GetMyRegistrations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	memberID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
		return
	}

	registrations, err := h.registrationRepo.FindByMember(memberID)
	if err != nil {
		log.Printf("Erreur lors de la récupération des inscriptions: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if registrations == nil {
		registrations = []models.Registration{}
	}

	// Masquer les notes internes dans la vue adhérent
	for i := range registrations {
		registrations[i].AdminNotes = ""
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"registrations": registrations,
		"total":         len(registrations),
	})
}
