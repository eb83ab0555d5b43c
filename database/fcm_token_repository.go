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

// FCMTokenRepository gère les opérations sur les tokens FCM
type FCMTokenRepository struct {
	collection *mongo.Collection
}

// NewFCMTokenRepository crée une nouvelle instance
func NewFCMTokenRepository(db *mongo.Database) *FCMTokenRepository {
	return &FCMTokenRepository{
		collection: db.Collection("fcm_tokens"),
	}
}

// Upsert crée ou met à jour un token FCM
func (r *FCMTokenRepository) Upsert(token *models.FCMToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := r.FindByToken(token.Token)
	if err != nil {
		return err
	}

	if existing != nil {
		token.ID = existing.ID
		token.CreatedAt = existing.CreatedAt
		token.UpdatedAt = time.Now()

		_, err := r.collection.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": token})
		return err
	}

	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()
	token.UpdatedAt = time.Now()

	_, err = r.collection.InsertOne(ctx, token)
	if err != nil {
		return fmt.Errorf("erreur lors de la création du token FCM: %w", err)
	}

	return nil
}

// FindByUserID retourne tous les tokens d'un adhérent (email)
func (r *FCMTokenRepository) FindByUserID(userID string) ([]models.FCMToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []models.FCMToken
	if err = cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des tokens: %w", err)
	}

	return tokens, nil
}

// FindAll retourne tous les tokens FCM
func (r *FCMTokenRepository) FindAll() ([]models.FCMToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []models.FCMToken
	if err = cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des tokens: %w", err)
	}

	return tokens, nil
}

// FindByToken recherche un token spécifique
func (r *FCMTokenRepository) FindByToken(token string) (*models.FCMToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fcmToken models.FCMToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&fcmToken)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du token: %w", err)
	}

	return &fcmToken, nil
}

// DeleteTokens supprime une liste de tokens (tokens invalides signalés par FCM)
func (r *FCMTokenRepository) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"token": bson.M{"$in": tokens}})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression des tokens: %w", err)
	}

	return nil
}
