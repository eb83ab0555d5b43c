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

// UserRepository gère les opérations sur les adhérents
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository crée une nouvelle instance de UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// Create crée un nouvel adhérent
func (r *UserRepository) Create(user *models.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user.CreatedAt = time.Now()
	user.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("cet email est déjà utilisé")
		}
		return fmt.Errorf("erreur lors de la création de l'adhérent: %w", err)
	}

	return nil
}

// FindByEmail recherche un adhérent par email
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'adhérent: %w", err)
	}

	return &user, nil
}

// FindByID recherche un adhérent par ID
func (r *UserRepository) FindByID(id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'adhérent: %w", err)
	}

	return &user, nil
}

// EmailExists vérifie si un email existe déjà
func (r *UserRepository) EmailExists(email string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("erreur lors de la vérification de l'email: %w", err)
	}

	return count > 0, nil
}

// FindAll retourne tous les adhérents triés par date de création
func (r *UserRepository) FindAll() ([]models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des adhérents: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des adhérents: %w", err)
	}

	return users, nil
}

// FindAdmins retourne tous les administrateurs
func (r *UserRepository) FindAdmins() ([]models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"admin": 1})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des admins: %w", err)
	}
	defer cursor.Close(ctx)

	var admins []models.User
	if err = cursor.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des admins: %w", err)
	}

	return admins, nil
}

// SearchByName recherche des adhérents par nom, prénom ou email
func (r *UserRepository) SearchByName(query string) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"firstname": bson.M{"$regex": query, "$options": "i"}},
		{"lastname": bson.M{"$regex": query, "$options": "i"}},
		{"email": bson.M{"$regex": query, "$options": "i"}},
	}}

	opts := options.Find().SetLimit(20)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des adhérents: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des adhérents: %w", err)
	}

	return users, nil
}

// Update met à jour les champs modifiables d'un adhérent
func (r *UserRepository) Update(id primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'adhérent: %w", err)
	}

	return nil
}

// UpdateLastSeen met à jour la dernière activité WebSocket d'un adhérent
func (r *UserRepository) UpdateLastSeen(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_seen": time.Now()}},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de last_seen: %w", err)
	}

	return nil
}

// Delete supprime un adhérent
func (r *UserRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'adhérent: %w", err)
	}

	return nil
}

// CountAll compte tous les adhérents
func (r *UserRepository) CountAll() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des adhérents: %w", err)
	}

	return count, nil
}

// CountAdmins compte les administrateurs
func (r *UserRepository) CountAdmins() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"admin": 1})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des admins: %w", err)
	}

	return count, nil
}
