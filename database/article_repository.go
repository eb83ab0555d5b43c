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

// ArticleRepository gère les opérations sur les articles du blog
type ArticleRepository struct {
	collection *mongo.Collection
}

// NewArticleRepository crée une nouvelle instance
func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{
		collection: db.Collection("articles"),
	}
}

// Create crée un nouvel article
func (r *ArticleRepository) Create(article *models.Article) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	article.ID = primitive.NewObjectID()
	article.CreatedAt = time.Now()
	article.UpdatedAt = time.Now()

	if article.IsPublished && article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}

	_, err := r.collection.InsertOne(ctx, article)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("un article avec ce slug existe déjà")
		}
		return fmt.Errorf("erreur lors de la création de l'article: %w", err)
	}

	return nil
}

// FindPublished retourne les articles publiés, du plus récent au plus ancien
func (r *ArticleRepository) FindPublished() ([]models.Article, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_published": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []models.Article
	if err = cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des articles: %w", err)
	}

	return articles, nil
}

// FindAll retourne tous les articles (back office, brouillons compris)
func (r *ArticleRepository) FindAll() ([]models.Article, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []models.Article
	if err = cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des articles: %w", err)
	}

	return articles, nil
}

// FindBySlug recherche un article publié par slug
func (r *ArticleRepository) FindBySlug(slug string) (*models.Article, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var article models.Article
	err := r.collection.FindOne(ctx, bson.M{"slug": slug, "is_published": true}).Decode(&article)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'article: %w", err)
	}

	return &article, nil
}

// FindByID recherche un article par ID
func (r *ArticleRepository) FindByID(id primitive.ObjectID) (*models.Article, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var article models.Article
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&article)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'article: %w", err)
	}

	return &article, nil
}

// Update met à jour un article
func (r *ArticleRepository) Update(id primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'article: %w", err)
	}

	return nil
}

// Delete supprime un article
func (r *ArticleRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'article: %w", err)
	}

	return nil
}

// CountAll compte tous les articles
func (r *ArticleRepository) CountAll() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des articles: %w", err)
	}

	return count, nil
}
