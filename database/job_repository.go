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

// JobRepository gère les opérations sur les offres d'emploi
type JobRepository struct {
	collection *mongo.Collection
}

// NewJobRepository crée une nouvelle instance
func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{
		collection: db.Collection("job_postings"),
	}
}

// Create crée une nouvelle offre d'emploi
func (r *JobRepository) Create(job *models.JobPosting) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job.ID = primitive.NewObjectID()
	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()
	job.IsActive = true

	_, err := r.collection.InsertOne(ctx, job)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'offre d'emploi: %w", err)
	}

	return nil
}

// FindActive retourne les offres actives et non expirées
func (r *JobRepository) FindActive() ([]models.JobPosting, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"expires_at": bson.M{"$exists": false}},
			{"expires_at": nil},
			{"expires_at": bson.M{"$gt": time.Now()}},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des offres d'emploi: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []models.JobPosting
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des offres d'emploi: %w", err)
	}

	return jobs, nil
}

// FindAll retourne toutes les offres d'emploi (back office)
func (r *JobRepository) FindAll() ([]models.JobPosting, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des offres d'emploi: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []models.JobPosting
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des offres d'emploi: %w", err)
	}

	return jobs, nil
}

// FindByID recherche une offre d'emploi par ID
func (r *JobRepository) FindByID(id primitive.ObjectID) (*models.JobPosting, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var job models.JobPosting
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'offre d'emploi: %w", err)
	}

	return &job, nil
}

// Update met à jour une offre d'emploi
func (r *JobRepository) Update(id primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'offre d'emploi: %w", err)
	}

	return nil
}

// Delete supprime une offre d'emploi
func (r *JobRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'offre d'emploi: %w", err)
	}

	return nil
}

// CountAll compte toutes les offres d'emploi
func (r *JobRepository) CountAll() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des offres d'emploi: %w", err)
	}

	return count, nil
}
