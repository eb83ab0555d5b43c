package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article représente un billet du blog de l'association
type Article struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Slug        string             `json:"slug" bson:"slug"`
	Content     string             `json:"content" bson:"content"`
	Excerpt     string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Author      string             `json:"author" bson:"author"`
	CoverImage  string             `json:"cover_image,omitempty" bson:"cover_image,omitempty"`
	IsPublished bool               `json:"is_published" bson:"is_published"`
	PublishedAt *time.Time         `json:"published_at,omitempty" bson:"published_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateArticleRequest représente la requête de création d'article
type CreateArticleRequest struct {
	Title       string `json:"title" validate:"required"`
	Slug        string `json:"slug"` // Généré depuis le titre si absent
	Content     string `json:"content" validate:"required"`
	Excerpt     string `json:"excerpt"`
	CoverImage  string `json:"cover_image"`
	IsPublished bool   `json:"is_published"`
}

// UpdateArticleRequest représente la requête de modification d'article
type UpdateArticleRequest struct {
	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	CoverImage  string `json:"cover_image,omitempty"`
	IsPublished *bool  `json:"is_published,omitempty"`
}
