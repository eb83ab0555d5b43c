package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobPosting représente une offre d'emploi publiée sur le job board
type JobPosting struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Company      string             `json:"company" bson:"company"`
	Location     string             `json:"location" bson:"location"`
	ContractType string             `json:"contract_type" bson:"contract_type"` // "cdi", "cdd", "stage", "alternance"
	Description  string             `json:"description" bson:"description"`
	ApplyURL     string             `json:"apply_url,omitempty" bson:"apply_url,omitempty"`
	ContactEmail string             `json:"contact_email,omitempty" bson:"contact_email,omitempty"`
	ExpiresAt    *time.Time         `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	IsActive     bool               `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateJobPostingRequest représente la requête de création d'offre d'emploi
type CreateJobPostingRequest struct {
	Title        string        `json:"title" validate:"required"`
	Company      string        `json:"company" validate:"required"`
	Location     string        `json:"location"`
	ContractType string        `json:"contract_type"`
	Description  string        `json:"description" validate:"required"`
	ApplyURL     string        `json:"apply_url"`
	ContactEmail string        `json:"contact_email"`
	ExpiresAt    *FlexibleTime `json:"expires_at,omitempty"`
}

// UpdateJobPostingRequest représente la requête de modification d'offre d'emploi
type UpdateJobPostingRequest struct {
	Title        string        `json:"title,omitempty"`
	Company      string        `json:"company,omitempty"`
	Location     string        `json:"location,omitempty"`
	ContractType string        `json:"contract_type,omitempty"`
	Description  string        `json:"description,omitempty"`
	ApplyURL     string        `json:"apply_url,omitempty"`
	ContactEmail string        `json:"contact_email,omitempty"`
	ExpiresAt    *FlexibleTime `json:"expires_at,omitempty"`
	IsActive     *bool         `json:"is_active,omitempty"`
}
