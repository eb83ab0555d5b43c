package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de paiement d'une inscription.
// Seule une inscription "completed" occupe une place dans la capacité.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// IsValidPaymentStatus vérifie qu'un statut de paiement fait partie de la taxonomie
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// CustomFieldResponse représente la réponse d'un participant à un champ personnalisé
type CustomFieldResponse struct {
	FieldName string `json:"field_name" bson:"field_name"`
	Response  string `json:"response" bson:"response"`
}

// Registration représente l'inscription acceptée d'un participant à une offre.
// Jamais supprimée : la suppression orphelinerait les traces de paiement.
type Registration struct {
	ID                   primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	EventRegistrationID  primitive.ObjectID  `json:"event_registration_id" bson:"event_registration_id"`
	EventID              primitive.ObjectID  `json:"event_id" bson:"event_id"` // Dupliqué pour faciliter les requêtes
	MemberID             *primitive.ObjectID `json:"member_id,omitempty" bson:"member_id,omitempty"`
	UserRole             string              `json:"user_role" bson:"user_role"`
	MembershipRole       string              `json:"membership_role" bson:"membership_role"`
	Firstname            string              `json:"firstname" bson:"firstname"`
	Lastname             string              `json:"lastname" bson:"lastname"`
	Email                string              `json:"email" bson:"email"`
	Phone                string              `json:"phone,omitempty" bson:"phone,omitempty"`
	AmountPaid           float64             `json:"amount_paid" bson:"amount_paid"`
	PaymentStatus        string              `json:"payment_status" bson:"payment_status"`
	PaymentIntentID      string              `json:"payment_intent_id,omitempty" bson:"payment_intent_id,omitempty"`
	CustomFieldResponses []CustomFieldResponse `json:"custom_field_responses" bson:"custom_field_responses"`
	RegisteredAt         time.Time           `json:"registered_at" bson:"registered_at"`
	AdminNotes           string              `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
}

// CreateRegistrationRequest représente la requête publique d'inscription à une offre
type CreateRegistrationRequest struct {
	EventRegistrationID  string                `json:"event_registration_id" validate:"required"`
	Firstname            string                `json:"firstname" validate:"required"`
	Lastname             string                `json:"lastname" validate:"required"`
	Email                string                `json:"email" validate:"required,email"`
	Phone                string                `json:"phone"`
	MembershipRole       string                `json:"membership_role"`
	CustomFieldResponses []CustomFieldResponse `json:"custom_field_responses"`
}

// UpdatePaymentStatusRequest représente la transition du statut de paiement.
// PaymentIntentID n'est écrit que s'il est fourni : jamais effacé.
type UpdatePaymentStatusRequest struct {
	RegistrationID  string `json:"registration_id" validate:"required"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	PaymentStatus   string `json:"payment_status" validate:"required"`
}

// SendConfirmationRequest représente la demande d'envoi d'un email de confirmation
type SendConfirmationRequest struct {
	RegistrationID string `json:"registration_id" validate:"required"`
}

// SendRemindersRequest représente la demande d'envoi groupé de rappels
type SendRemindersRequest struct {
	EventRegistrationID string       `json:"event_registration_id" validate:"required"`
	EventDate           FlexibleTime `json:"event_date"`
}

// ReminderResult représente le résultat d'envoi pour un destinataire
type ReminderResult struct {
	RegistrationID string `json:"registration_id"`
	Email          string `json:"email"`
	Status         string `json:"status"` // "sent" ou "failed"
	Error          string `json:"error,omitempty"`
}

// SendRemindersResponse agrège les résultats de l'envoi groupé.
// Un échec individuel n'interrompt jamais le lot.
type SendRemindersResponse struct {
	RemindersSent   int              `json:"reminders_sent"`
	RemindersFailed int              `json:"reminders_failed"`
	Results         []ReminderResult `json:"results"`
}
