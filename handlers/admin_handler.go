package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/middleware"
	"association-backend/models"
	"association-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminHandler gère le back office : adhérents et statistiques
type AdminHandler struct {
	userRepo         *database.UserRepository
	eventRepo        *database.EventRepository
	registrationRepo *database.RegistrationRepository
	articleRepo      *database.ArticleRepository
	jobRepo          *database.JobRepository
}

// NewAdminHandler crée une nouvelle instance de AdminHandler
func NewAdminHandler(db *mongo.Database) *AdminHandler {
	return &AdminHandler{
		userRepo:         database.NewUserRepository(db),
		eventRepo:        database.NewEventRepository(db),
		registrationRepo: database.NewRegistrationRepository(db),
		articleRepo:      database.NewArticleRepository(db),
		jobRepo:          database.NewJobRepository(db),
	}
}

// GetUsers retourne la liste des adhérents
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	// ?q= filtre par nom ou prénom
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var users []models.User
	var err error
	if query != "" {
		users, err = h.userRepo.SearchByName(query)
	} else {
		users, err = h.userRepo.FindAll()
	}
	if err != nil {
		log.Printf("Erreur lors de la récupération des adhérents: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if users == nil {
		users = []models.User{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": len(users),
	})
}

// UpdateUser modifie un adhérent (rôle d'adhésion, statut admin...)
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	userID, ok := ParseObjectIDVar(w, mux.Vars(r), "user_id", constants.ErrInvalidData)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'adhérent: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if user == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrUserNotFound)
		return
	}

	update := bson.M{}
	if req.Firstname != "" {
		update["firstname"] = req.Firstname
	}
	if req.Lastname != "" {
		update["lastname"] = req.Lastname
	}
	if req.Email != "" {
		update["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.MembershipRole != "" {
		switch req.MembershipRole {
		case models.MembershipRoleStudent, models.MembershipRoleFull,
			models.MembershipRoleAffiliate, models.MembershipRoleNonMember:
			update["membership_role"] = req.MembershipRole
		default:
			utils.RespondError(w, http.StatusBadRequest, "Rôle d'adhésion invalide")
			return
		}
	}
	if req.Admin != nil {
		if *req.Admin != 0 && *req.Admin != 1 {
			utils.RespondError(w, http.StatusBadRequest, "Le champ admin doit valoir 0 ou 1")
			return
		}
		update["admin"] = *req.Admin
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}

	if err := h.userRepo.Update(userID, update); err != nil {
		log.Printf("Erreur lors de la mise à jour de l'adhérent: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	updated, err := h.userRepo.FindByID(userID)
	if err != nil || updated == nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Adhérent %s mis à jour par un admin", updated.Email)
	utils.RespondSuccess(w, "Adhérent mis à jour", updated)
}

// DeleteUser supprime un adhérent.
// Un admin ne peut pas supprimer son propre compte.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	userID, ok := ParseObjectIDVar(w, mux.Vars(r), "user_id", constants.ErrInvalidData)
	if !ok {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims != nil && claims.UserID == userID.Hex() {
		utils.RespondError(w, http.StatusBadRequest, "Impossible de supprimer votre propre compte")
		return
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'adhérent: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if user == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrUserNotFound)
		return
	}

	if err := h.userRepo.Delete(userID); err != nil {
		log.Printf("Erreur lors de la suppression de l'adhérent: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Adhérent supprimé: %s", user.Email)
	utils.RespondSuccess(w, "Adhérent supprimé", nil)
}

// GetStats retourne les statistiques du back office.
// Tous les compteurs sont calculés en direct, rien n'est dénormalisé.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	totalMembers, err := h.userRepo.CountAll()
	if err != nil {
		log.Printf("Erreur stats adhérents: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	totalAdmins, _ := h.userRepo.CountAdmins()
	totalEvents, _ := h.eventRepo.CountAll()
	activeEvents, _ := h.eventRepo.CountActive()
	totalRegistrations, _ := h.registrationRepo.CountAll()
	completedRegistrations, _ := h.registrationRepo.CountByStatus(models.PaymentStatusCompleted)
	totalRevenue, _ := h.registrationRepo.GetTotalRevenue()
	totalArticles, _ := h.articleRepo.CountAll()
	totalJobs, _ := h.jobRepo.CountAll()

	stats := models.AdminStatsResponse{
		TotalMembers:           int(totalMembers),
		TotalAdmins:            int(totalAdmins),
		TotalEvents:            int(totalEvents),
		ActiveEvents:           int(activeEvents),
		TotalRegistrations:     int(totalRegistrations),
		CompletedRegistrations: int(completedRegistrations),
		TotalRevenue:           totalRevenue,
		TotalArticles:          int(totalArticles),
		TotalJobPostings:       int(totalJobs),
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"stats":        stats,
		"generated_at": time.Now(),
	})
}
