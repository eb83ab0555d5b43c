package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tarifs par défaut appliqués quand un palier est absent de la requête
// de création d'une offre autonome.
const (
	DefaultPriceStudent   = 10
	DefaultPriceFull      = 50
	DefaultPriceAffiliate = 30
	DefaultPriceNonMember = 100
)

// PricingTiers contient les quatre paliers tarifaires d'une offre d'inscription
type PricingTiers struct {
	Student   float64 `json:"student" bson:"student"`
	Full      float64 `json:"full" bson:"full"`
	Affiliate float64 `json:"affiliate" bson:"affiliate"`
	NonMember float64 `json:"non_member" bson:"non_member"`
}

// ForRole retourne le tarif applicable pour un rôle d'adhésion.
// Tout rôle inconnu paie le tarif non-membre.
func (p PricingTiers) ForRole(role string) float64 {
	switch role {
	case MembershipRoleStudent:
		return p.Student
	case MembershipRoleFull:
		return p.Full
	case MembershipRoleAffiliate:
		return p.Affiliate
	default:
		return p.NonMember
	}
}

// PricingInput représente les tarifs tels que fournis par le client.
// Les pointeurs distinguent un palier absent d'un palier à 0.
type PricingInput struct {
	Student   *float64 `json:"student,omitempty"`
	Full      *float64 `json:"full,omitempty"`
	Affiliate *float64 `json:"affiliate,omitempty"`
	NonMember *float64 `json:"non_member,omitempty"`
}

// Resolve complète les paliers manquants avec les tarifs par défaut
func (p *PricingInput) Resolve() PricingTiers {
	tiers := PricingTiers{
		Student:   DefaultPriceStudent,
		Full:      DefaultPriceFull,
		Affiliate: DefaultPriceAffiliate,
		NonMember: DefaultPriceNonMember,
	}
	if p == nil {
		return tiers
	}
	if p.Student != nil {
		tiers.Student = *p.Student
	}
	if p.Full != nil {
		tiers.Full = *p.Full
	}
	if p.Affiliate != nil {
		tiers.Affiliate = *p.Affiliate
	}
	if p.NonMember != nil {
		tiers.NonMember = *p.NonMember
	}
	return tiers
}

// CustomField représente un champ personnalisé du formulaire d'inscription
type CustomField struct {
	Name     string   `json:"name" bson:"name"`
	Type     string   `json:"type" bson:"type"` // "text", "select", "checkbox"...
	Required bool     `json:"required" bson:"required"`
	Options  []string `json:"options,omitempty" bson:"options,omitempty"`
}

// EventRegistration représente une offre d'inscription : soit liée à un
// événement, soit autonome (event_id absent).
//
// CurrentAttendees n'est JAMAIS persisté : la capacité est toujours calculée
// en direct à partir des inscriptions dont payment_status = "completed".
type EventRegistration struct {
	ID                        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	EventID                   *primitive.ObjectID `json:"event_id,omitempty" bson:"event_id,omitempty"`
	Title                     string              `json:"title" bson:"title"`
	Description               string              `json:"description" bson:"description"`
	Pricing                   PricingTiers        `json:"pricing" bson:"pricing"`
	RegistrationDeadline      time.Time           `json:"registration_deadline" bson:"registration_deadline"`
	MaxAttendees              *int                `json:"max_attendees,omitempty" bson:"max_attendees,omitempty"` // nil = illimité
	CurrentAttendees          int                 `json:"current_attendees" bson:"-"`
	CustomFields              []CustomField       `json:"custom_fields" bson:"custom_fields"`
	ConfirmationEmailTemplate string              `json:"confirmation_email_template,omitempty" bson:"confirmation_email_template,omitempty"`
	IsActive                  bool                `json:"is_active" bson:"is_active"`
	CreatedAt                 time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt                 time.Time           `json:"updated_at" bson:"updated_at"`
}

// CreateEventRegistrationRequest représente la requête de création d'offre
type CreateEventRegistrationRequest struct {
	Title                     string        `json:"title" validate:"required"`
	Description               string        `json:"description"`
	Pricing                   *PricingInput `json:"pricing,omitempty"`
	RegistrationDeadline      FlexibleTime  `json:"registration_deadline" validate:"required"`
	MaxAttendees              *int          `json:"max_attendees,omitempty"`
	CustomFields              []CustomField `json:"custom_fields,omitempty"`
	ConfirmationEmailTemplate string        `json:"confirmation_email_template,omitempty"`
	EventID                   string        `json:"event_id,omitempty"`
}

// UpdateEventRegistrationRequest représente la requête de modification d'offre.
// C'est un remplacement intégral : l'appelant fournit tous les champs tels quels.
type UpdateEventRegistrationRequest struct {
	Title                     string        `json:"title" validate:"required"`
	Description               string        `json:"description"`
	Pricing                   *PricingInput `json:"pricing,omitempty"`
	RegistrationDeadline      FlexibleTime  `json:"registration_deadline" validate:"required"`
	MaxAttendees              *int          `json:"max_attendees,omitempty"`
	CustomFields              []CustomField `json:"custom_fields,omitempty"`
	ConfirmationEmailTemplate string        `json:"confirmation_email_template,omitempty"`
	IsActive                  *bool         `json:"is_active,omitempty"`
}

// EventDisplayInfo contient les champs de l'événement parent affichés sur la
// page publique d'inscription
type EventDisplayInfo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	BackgroundImage string    `json:"background_image,omitempty"`
}

// PublicEventRegistrationResponse représente la réponse du bootstrap de la
// page publique d'inscription
type PublicEventRegistrationResponse struct {
	EventRegistration
	Event *EventDisplayInfo `json:"event,omitempty"`
}
