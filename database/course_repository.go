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

// CourseRepository gère les opérations sur les formations et leurs quiz
type CourseRepository struct {
	courses *mongo.Collection
	quizzes *mongo.Collection
}

// NewCourseRepository crée une nouvelle instance
func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{
		courses: db.Collection("courses"),
		quizzes: db.Collection("quizzes"),
	}
}

// Create crée une nouvelle formation
func (r *CourseRepository) Create(course *models.Course) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	course.ID = primitive.NewObjectID()
	course.CreatedAt = time.Now()
	course.UpdatedAt = time.Now()
	course.IsActive = true

	_, err := r.courses.InsertOne(ctx, course)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la formation: %w", err)
	}

	return nil
}

// FindActive retourne les formations actives
func (r *CourseRepository) FindActive() ([]models.Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.courses.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des formations: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des formations: %w", err)
	}

	return courses, nil
}

// FindByID recherche une formation par ID
func (r *CourseRepository) FindByID(id primitive.ObjectID) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var course models.Course
	err := r.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de la formation: %w", err)
	}

	return &course, nil
}

// Update met à jour une formation
func (r *CourseRepository) Update(id primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update["updated_at"] = time.Now()

	_, err := r.courses.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de la formation: %w", err)
	}

	return nil
}

// Delete supprime une formation et ses quiz
func (r *CourseRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.quizzes.DeleteMany(ctx, bson.M{"course_id": id}); err != nil {
		return fmt.Errorf("erreur lors de la suppression des quiz: %w", err)
	}

	if _, err := r.courses.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("erreur lors de la suppression de la formation: %w", err)
	}

	return nil
}

// CreateQuiz crée un quiz rattaché à une formation
func (r *CourseRepository) CreateQuiz(quiz *models.Quiz) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	quiz.ID = primitive.NewObjectID()
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = time.Now()
	quiz.IsActive = true

	_, err := r.quizzes.InsertOne(ctx, quiz)
	if err != nil {
		return fmt.Errorf("erreur lors de la création du quiz: %w", err)
	}

	return nil
}

// FindQuizByID recherche un quiz par ID
func (r *CourseRepository) FindQuizByID(id primitive.ObjectID) (*models.Quiz, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var quiz models.Quiz
	err := r.quizzes.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du quiz: %w", err)
	}

	return &quiz, nil
}

// FindQuizzesByCourse retourne les quiz actifs d'une formation
func (r *CourseRepository) FindQuizzesByCourse(courseID primitive.ObjectID) ([]models.Quiz, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.quizzes.Find(ctx, bson.M{"course_id": courseID, "is_active": true})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des quiz: %w", err)
	}
	defer cursor.Close(ctx)

	var quizzes []models.Quiz
	if err = cursor.All(ctx, &quizzes); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des quiz: %w", err)
	}

	return quizzes, nil
}

// DeleteQuiz supprime un quiz
func (r *CourseRepository) DeleteQuiz(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.quizzes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression du quiz: %w", err)
	}

	return nil
}
