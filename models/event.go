package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts possibles d'un événement.
// Le statut est DÉRIVÉ : il est recalculé à chaque mutation d'une offre
// d'inscription et toutes les minutes par le cron (services/event_status_cron.go).
const (
	EventStatusUpcoming           = "upcoming"
	EventStatusRegistrationOpen   = "registration-open"
	EventStatusRegistrationClosed = "registration-closed"
	EventStatusCancelled          = "cancelled"
	EventStatusCompleted          = "completed"
)

// Event représente un événement de l'association
type Event struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title                string             `json:"title" bson:"title"`
	Description          string             `json:"description" bson:"description"`
	Location             string             `json:"location" bson:"location"`
	Date                 time.Time          `json:"date" bson:"date"`
	BackgroundImage      string             `json:"background_image,omitempty" bson:"background_image,omitempty"`
	IsActive             bool               `json:"is_active" bson:"is_active"`
	IsBannerEvent        bool               `json:"is_banner_event" bson:"is_banner_event"` // Mis en avant sur la page d'accueil
	RegistrationEnabled  bool               `json:"registration_enabled" bson:"registration_enabled"`
	RegistrationLink     string             `json:"registration_link" bson:"registration_link"`
	RegistrationDeadline *time.Time         `json:"registration_deadline,omitempty" bson:"registration_deadline,omitempty"`
	EventStatus          string             `json:"event_status" bson:"event_status"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`
}

// ComputeStatus calcule le statut dérivé de l'événement à l'instant donné.
// "cancelled" est définitif et n'est jamais recalculé.
func (e *Event) ComputeStatus(now time.Time) string {
	if e.EventStatus == EventStatusCancelled {
		return EventStatusCancelled
	}
	if !e.Date.IsZero() && now.After(e.Date) {
		return EventStatusCompleted
	}
	if e.RegistrationEnabled && e.RegistrationDeadline != nil {
		if now.Before(*e.RegistrationDeadline) {
			return EventStatusRegistrationOpen
		}
		return EventStatusRegistrationClosed
	}
	return EventStatusUpcoming
}

// CreateEventRequest représente la requête de création d'événement
type CreateEventRequest struct {
	Title                string        `json:"title" validate:"required"`
	Description          string        `json:"description"`
	Location             string        `json:"location"`
	Date                 FlexibleTime  `json:"date" validate:"required"`
	BackgroundImage      string        `json:"background_image"`
	IsBannerEvent        bool          `json:"is_banner_event"`
	RegistrationDeadline *FlexibleTime `json:"registration_deadline,omitempty"`
}

// UpdateEventRequest représente la requête de modification d'événement
type UpdateEventRequest struct {
	Title                string        `json:"title,omitempty"`
	Description          string        `json:"description,omitempty"`
	Location             string        `json:"location,omitempty"`
	Date                 *FlexibleTime `json:"date,omitempty"`
	BackgroundImage      string        `json:"background_image,omitempty"`
	IsActive             *bool         `json:"is_active,omitempty"`
	IsBannerEvent        *bool         `json:"is_banner_event,omitempty"`
	EventStatus          string        `json:"event_status,omitempty"` // Seul "cancelled" est accepté ici
	RegistrationDeadline *FlexibleTime `json:"registration_deadline,omitempty"`
}
