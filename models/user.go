package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rôles d'adhésion reconnus pour la tarification des offres
const (
	MembershipRoleStudent   = "student"
	MembershipRoleFull      = "full"
	MembershipRoleAffiliate = "affiliate"
	MembershipRoleNonMember = "non-member"
)

// User représente un adhérent de l'association
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Firstname      string             `json:"firstname" bson:"firstname"`
	Lastname       string             `json:"lastname" bson:"lastname"`
	Email          string             `json:"email" bson:"email"`
	Phone          string             `json:"phone" bson:"phone"`
	Password       string             `json:"-" bson:"password"` // Le "-" empêche la sérialisation du mot de passe
	MembershipRole string             `json:"membership_role" bson:"membership_role"`
	Admin          int                `json:"admin" bson:"admin"`                             // 0 = adhérent, 1 = admin
	FCMToken       string             `json:"fcm_token,omitempty" bson:"fcm_token,omitempty"` // Token FCM pour les notifications
	LastSeen       *time.Time         `json:"last_seen,omitempty" bson:"last_seen,omitempty"` // Dernière activité WebSocket
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// RegisterRequest représente la requête de création de compte
type RegisterRequest struct {
	Firstname      string `json:"firstname" validate:"required"`
	Lastname       string `json:"lastname" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	MembershipRole string `json:"membership_role"`
	Password       string `json:"password" validate:"required,min=6"`
}

// LoginRequest représente la requête de connexion
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse représente la réponse d'authentification
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateUserRequest représente la requête admin de modification d'un adhérent
type UpdateUserRequest struct {
	Firstname      string `json:"firstname,omitempty"`
	Lastname       string `json:"lastname,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	MembershipRole string `json:"membership_role,omitempty"`
	Admin          *int   `json:"admin,omitempty"` // Pointeur pour distinguer 0 de non-fourni
}

// AdminStatsResponse représente les statistiques du back office
type AdminStatsResponse struct {
	TotalMembers            int     `json:"total_members"`
	TotalAdmins             int     `json:"total_admins"`
	TotalEvents             int     `json:"total_events"`
	ActiveEvents            int     `json:"active_events"`
	TotalRegistrations      int     `json:"total_registrations"`
	CompletedRegistrations  int     `json:"completed_registrations"`
	TotalRevenue            float64 `json:"total_revenue"`
	TotalArticles           int     `json:"total_articles"`
	TotalJobPostings        int     `json:"total_job_postings"`
}

// ErrorResponse représente une réponse d'erreur
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse représente une réponse de succès générique
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
