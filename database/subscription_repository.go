package database

import (
	"context"
	"fmt"
	"time"

	"association-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubscriptionRepository gère les abonnements webpush (VAPID)
type SubscriptionRepository struct {
	collection *mongo.Collection
}

// NewSubscriptionRepository crée une nouvelle instance
func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("push_subscriptions"),
	}
}

// Upsert crée ou remplace l'abonnement d'un endpoint
func (r *SubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing := r.collection.FindOne(ctx, bson.M{"endpoint": sub.Endpoint})
	if existing.Err() == nil {
		_, err := r.collection.UpdateOne(
			ctx,
			bson.M{"endpoint": sub.Endpoint},
			bson.M{"$set": bson.M{"user_id": sub.UserID, "keys": sub.Keys}},
		)
		return err
	}

	sub.ID = primitive.NewObjectID()
	sub.Created = time.Now()

	_, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'abonnement: %w", err)
	}

	return nil
}

// FindByUserID retourne les abonnements d'un adhérent (email)
func (r *SubscriptionRepository) FindByUserID(userID string) ([]models.PushSubscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des abonnements: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des abonnements: %w", err)
	}

	return subs, nil
}

// FindAll retourne tous les abonnements
func (r *SubscriptionRepository) FindAll() ([]models.PushSubscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la récupération des abonnements: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des abonnements: %w", err)
	}

	return subs, nil
}

// DeleteByEndpoint supprime l'abonnement d'un endpoint
func (r *SubscriptionRepository) DeleteByEndpoint(endpoint string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"endpoint": endpoint})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'abonnement: %w", err)
	}

	return nil
}
