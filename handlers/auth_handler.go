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

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthHandler gère l'inscription et la connexion des adhérents
type AuthHandler struct {
	userRepo  *database.UserRepository
	jwtSecret string
}

// NewAuthHandler crée une nouvelle instance de AuthHandler
func NewAuthHandler(db *mongo.Database, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepo:  database.NewUserRepository(db),
		jwtSecret: jwtSecret,
	}
}

// Register crée un compte adhérent
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Un rôle non reconnu est traité comme non-membre
	role := req.MembershipRole
	switch role {
	case models.MembershipRoleStudent, models.MembershipRoleFull, models.MembershipRoleAffiliate:
	default:
		role = models.MembershipRoleNonMember
	}

	exists, err := h.userRepo.EmailExists(req.Email)
	if err != nil {
		log.Printf("Erreur lors de la vérification de l'email: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if exists {
		utils.RespondError(w, http.StatusConflict, "Cet email est déjà utilisé")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Erreur lors du hachage du mot de passe: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	user := &models.User{
		Firstname:      req.Firstname,
		Lastname:       req.Lastname,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       hashedPassword,
		MembershipRole: role,
		Admin:          0,
		CreatedAt:      time.Now(),
	}

	if err := h.userRepo.Create(user); err != nil {
		log.Printf("Erreur lors de la création de l'adhérent: %v", err)
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Admin, h.jwtSecret)
	if err != nil {
		log.Printf("Erreur lors de la génération du token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Nouvel adhérent: %s (%s)", user.Email, user.MembershipRole)

	utils.RespondJSON(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

// Login authentifie un adhérent
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.userRepo.FindByEmail(req.Email)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'adhérent: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Même message pour email inconnu et mauvais mot de passe
	if user == nil || !utils.CheckPassword(user.Password, req.Password) {
		utils.RespondError(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Admin, h.jwtSecret)
	if err != nil {
		log.Printf("Erreur lors de la génération du token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Connexion: %s", user.Email)

	utils.RespondJSON(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

// Me retourne le profil de l'adhérent connecté
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
		return
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		log.Printf("Erreur lors de la récupération du profil: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if user == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrUserNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}
