package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course représente une formation de la plateforme de cours
type Course struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	VideoURL    string             `json:"video_url,omitempty" bson:"video_url,omitempty"` // URL YouTube normalisée (format embed)
	IsActive    bool               `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateCourseRequest représente la requête de création de formation
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

// UpdateCourseRequest représente la requête de modification de formation
type UpdateCourseRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// QuizQuestion représente une question de quiz avec ses options ordonnées
type QuizQuestion struct {
	Question     string   `json:"question" bson:"question"`
	Options      []string `json:"options" bson:"options"`
	CorrectIndex int      `json:"correct_index" bson:"correct_index"`
	Points       int      `json:"points" bson:"points"`
}

// Quiz représente un quiz rattaché à une formation
type Quiz struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourseID  primitive.ObjectID `json:"course_id" bson:"course_id"`
	Title     string             `json:"title" bson:"title"`
	Questions []QuizQuestion     `json:"questions" bson:"questions"`
	IsActive  bool               `json:"is_active" bson:"is_active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// QuizQuestionPublic est une question sans l'index de la bonne réponse
type QuizQuestionPublic struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
}

// QuizPublicView représente un quiz tel qu'exposé aux adhérents
type QuizPublicView struct {
	ID        string               `json:"id"`
	CourseID  string               `json:"course_id"`
	Title     string               `json:"title"`
	Questions []QuizQuestionPublic `json:"questions"`
}

// PublicView retire les bonnes réponses du quiz
func (q *Quiz) PublicView() QuizPublicView {
	questions := make([]QuizQuestionPublic, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, QuizQuestionPublic{
			Question: question.Question,
			Options:  question.Options,
			Points:   question.Points,
		})
	}
	return QuizPublicView{
		ID:        q.ID.Hex(),
		CourseID:  q.CourseID.Hex(),
		Title:     q.Title,
		Questions: questions,
	}
}

// SubmitQuizRequest représente les réponses d'un adhérent au quiz.
// Answers[i] est l'index de l'option choisie pour la question i (-1 = sans réponse).
type SubmitQuizRequest struct {
	Answers []int `json:"answers"`
}

// QuizResult représente le résultat d'une soumission de quiz
type QuizResult struct {
	Score          int `json:"score"`
	MaxScore       int `json:"max_score"`
	CorrectAnswers int `json:"correct_answers"`
	TotalQuestions int `json:"total_questions"`
}

// Grade corrige une soumission et calcule le score
func (q *Quiz) Grade(answers []int) QuizResult {
	result := QuizResult{TotalQuestions: len(q.Questions)}
	for i, question := range q.Questions {
		result.MaxScore += question.Points
		if i < len(answers) && answers[i] == question.CorrectIndex {
			result.Score += question.Points
			result.CorrectAnswers++
		}
	}
	return result
}
