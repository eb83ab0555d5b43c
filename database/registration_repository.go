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

// RegistrationRepository gère les opérations sur les inscriptions des participants.
// Aucune méthode de suppression : une inscription porte des traces de paiement
// et n'est jamais effacée.
type RegistrationRepository struct {
	collection *mongo.Collection
}

// NewRegistrationRepository crée une nouvelle instance
func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{
		collection: db.Collection("registrations"),
	}
}

// Create crée une nouvelle inscription
func (r *RegistrationRepository) Create(registration *models.Registration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	registration.ID = primitive.NewObjectID()
	registration.RegisteredAt = time.Now()

	if registration.CustomFieldResponses == nil {
		registration.CustomFieldResponses = []models.CustomFieldResponse{}
	}

	_, err := r.collection.InsertOne(ctx, registration)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'inscription: %w", err)
	}

	return nil
}

// FindByID recherche une inscription par ID
func (r *RegistrationRepository) FindByID(id primitive.ObjectID) (*models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var registration models.Registration
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&registration)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'inscription: %w", err)
	}

	return &registration, nil
}

// FindByPaymentIntentID recherche une inscription par son PaymentIntent Stripe
func (r *RegistrationRepository) FindByPaymentIntentID(paymentIntentID string) (*models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var registration models.Registration
	err := r.collection.FindOne(ctx, bson.M{"payment_intent_id": paymentIntentID}).Decode(&registration)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'inscription: %w", err)
	}

	return &registration, nil
}

// FindByOffer retourne toutes les inscriptions d'une offre
func (r *RegistrationRepository) FindByOffer(offerID primitive.ObjectID) ([]models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"event_registration_id": offerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des inscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var registrations []models.Registration
	if err = cursor.All(ctx, &registrations); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des inscriptions: %w", err)
	}

	return registrations, nil
}

// FindCompletedByOffer retourne les inscriptions payées d'une offre.
// Seules celles-ci reçoivent les rappels et occupent la capacité.
func (r *RegistrationRepository) FindCompletedByOffer(offerID primitive.ObjectID) ([]models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{
		"event_registration_id": offerID,
		"payment_status":        models.PaymentStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des inscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var registrations []models.Registration
	if err = cursor.All(ctx, &registrations); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des inscriptions: %w", err)
	}

	return registrations, nil
}

// CountCompletedByOffer compte les participants effectifs d'une offre.
// C'est la SEULE source de vérité pour la capacité : le compteur dénormalisé
// n'est jamais persisté.
func (r *RegistrationRepository) CountCompletedByOffer(offerID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"event_registration_id": offerID,
		"payment_status":        models.PaymentStatusCompleted,
	})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des inscriptions: %w", err)
	}

	return count, nil
}

// FindByMember retourne les inscriptions d'un adhérent
func (r *RegistrationRepository) FindByMember(memberID primitive.ObjectID) ([]models.Registration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des inscriptions de l'adhérent: %w", err)
	}
	defer cursor.Close(ctx)

	var registrations []models.Registration
	if err = cursor.All(ctx, &registrations); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des inscriptions: %w", err)
	}

	return registrations, nil
}

// paymentStatusUpdate construit le document $set d'une transition de statut.
// Le payment_intent_id n'est écrit que s'il est fourni : un intent existant
// n'est jamais effacé.
func paymentStatusUpdate(status, paymentIntentID string) bson.M {
	set := bson.M{"payment_status": status}
	if paymentIntentID != "" {
		set["payment_intent_id"] = paymentIntentID
	}
	return set
}

// UpdatePaymentStatus fait passer une inscription dans un nouveau statut de paiement
func (r *RegistrationRepository) UpdatePaymentStatus(id primitive.ObjectID, status, paymentIntentID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": paymentStatusUpdate(status, paymentIntentID)},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour du statut de paiement: %w", err)
	}

	return nil
}

// UpdateAdminNotes met à jour les notes admin d'une inscription
func (r *RegistrationRepository) UpdateAdminNotes(id primitive.ObjectID, notes string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"admin_notes": notes}},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour des notes admin: %w", err)
	}

	return nil
}

// CountAll compte toutes les inscriptions
func (r *RegistrationRepository) CountAll() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des inscriptions: %w", err)
	}

	return count, nil
}

// CountByStatus compte les inscriptions par statut de paiement
func (r *RegistrationRepository) CountByStatus(status string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"payment_status": status})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des inscriptions: %w", err)
	}

	return count, nil
}

// GetTotalRevenue calcule le montant total encaissé (inscriptions payées)
func (r *RegistrationRepository) GetTotalRevenue() (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"payment_status": models.PaymentStatusCompleted}},
		{"$group": bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount_paid"},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("erreur lors de l'agrégation: %w", err)
	}
	defer cursor.Close(ctx)

	var result []bson.M
	if err = cursor.All(ctx, &result); err != nil {
		return 0, err
	}

	if len(result) == 0 {
		return 0, nil
	}

	total, ok := result[0]["total"].(float64)
	if !ok {
		return 0, nil
	}

	return total, nil
}
