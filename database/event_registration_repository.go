package database

import (
	"context"
	"fmt"
	"time"

	"association-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRegistrationRepository gère les opérations sur les offres d'inscription
type EventRegistrationRepository struct {
	collection *mongo.Collection
}

// NewEventRegistrationRepository crée une nouvelle instance
func NewEventRegistrationRepository(db *mongo.Database) *EventRegistrationRepository {
	return &EventRegistrationRepository{
		collection: db.Collection("event_registrations"),
	}
}

// Create crée une nouvelle offre d'inscription
func (r *EventRegistrationRepository) Create(offer *models.EventRegistration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	offer.ID = primitive.NewObjectID()
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = time.Now()
	offer.IsActive = true

	if offer.CustomFields == nil {
		offer.CustomFields = []models.CustomField{}
	}

	_, err := r.collection.InsertOne(ctx, offer)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'offre d'inscription: %w", err)
	}

	return nil
}

// FindByID recherche une offre par ID
func (r *EventRegistrationRepository) FindByID(id primitive.ObjectID) (*models.EventRegistration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var offer models.EventRegistration
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'offre d'inscription: %w", err)
	}

	return &offer, nil
}

// FindAll retourne toutes les offres, éventuellement filtrées par événement
func (r *EventRegistrationRepository) FindAll(eventID *primitive.ObjectID) ([]models.EventRegistration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if eventID != nil {
		filter["event_id"] = *eventID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des offres d'inscription: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []models.EventRegistration
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des offres d'inscription: %w", err)
	}

	return offers, nil
}

// Update remplace intégralement les champs modifiables d'une offre
func (r *EventRegistrationRepository) Update(offer *models.EventRegistration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	offer.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": offer.ID},
		bson.M{"$set": bson.M{
			"title":                       offer.Title,
			"description":                 offer.Description,
			"pricing":                     offer.Pricing,
			"registration_deadline":       offer.RegistrationDeadline,
			"max_attendees":               offer.MaxAttendees,
			"custom_fields":               offer.CustomFields,
			"confirmation_email_template": offer.ConfirmationEmailTemplate,
			"is_active":                   offer.IsActive,
			"updated_at":                  offer.UpdatedAt,
		}},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'offre d'inscription: %w", err)
	}

	return nil
}

// Delete supprime une offre d'inscription
func (r *EventRegistrationRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'offre d'inscription: %w", err)
	}

	return nil
}
