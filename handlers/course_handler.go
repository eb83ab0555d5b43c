package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/models"
	"association-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Taille maximale d'un fichier CSV de quiz (1 Mo)
const maxQuizCSVBytes = 1 << 20

// CourseHandler gère la plateforme de formations et leurs quiz
type CourseHandler struct {
	courseRepo *database.CourseRepository
}

// NewCourseHandler crée une nouvelle instance de CourseHandler
func NewCourseHandler(db *mongo.Database) *CourseHandler {
	return &CourseHandler{
		courseRepo: database.NewCourseRepository(db),
	}
}

// GetCourses retourne les formations actives (MEMBRES)
func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	courses, err := h.courseRepo.FindActive()
	if err != nil {
		log.Printf("Erreur lors de la récupération des formations: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if courses == nil {
		courses = []models.Course{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
	})
}

// GetCourse retourne une formation avec ses quiz (MEMBRES).
// Les quiz sont renvoyés sans les bonnes réponses.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	courseID, ok := ParseObjectIDVar(w, mux.Vars(r), "course_id", constants.ErrInvalidCourseID)
	if !ok {
		return
	}

	course, err := h.courseRepo.FindByID(courseID)
	if err != nil {
		log.Printf("Erreur lors de la récupération de la formation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if course == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourseNotFound)
		return
	}

	quizzes, err := h.courseRepo.FindQuizzesByCourse(courseID)
	if err != nil {
		log.Printf("Erreur lors de la récupération des quiz: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	publicQuizzes := make([]models.QuizPublicView, 0, len(quizzes))
	for i := range quizzes {
		if quizzes[i].IsActive {
			publicQuizzes = append(publicQuizzes, quizzes[i].PublicView())
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"course":  course,
		"quizzes": publicQuizzes,
	})
}

// CreateCourse crée une formation (ADMIN).
// L'URL vidéo est normalisée au format embed YouTube.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.VideoURL != "" {
		normalized, err := utils.NormalizeYouTubeURL(req.VideoURL)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		course.VideoURL = normalized
	}

	if err := h.courseRepo.Create(course); err != nil {
		log.Printf("Erreur lors de la création de la formation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Formation créée: %s", course.Title)
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"course":  course,
	})
}

// UpdateCourse modifie une formation (ADMIN)
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	courseID, ok := ParseObjectIDVar(w, mux.Vars(r), "course_id", constants.ErrInvalidCourseID)
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	course, err := h.courseRepo.FindByID(courseID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la formation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if course == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourseNotFound)
		return
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.VideoURL != "" {
		normalized, err := utils.NormalizeYouTubeURL(req.VideoURL)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update["video_url"] = normalized
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}

	if err := h.courseRepo.Update(courseID, update); err != nil {
		log.Printf("Erreur lors de la mise à jour de la formation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	updated, err := h.courseRepo.FindByID(courseID)
	if err != nil || updated == nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Formation mise à jour", updated)
}

// DeleteCourse supprime une formation et ses quiz (ADMIN)
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	courseID, ok := ParseObjectIDVar(w, mux.Vars(r), "course_id", constants.ErrInvalidCourseID)
	if !ok {
		return
	}

	course, err := h.courseRepo.FindByID(courseID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la formation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if course == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourseNotFound)
		return
	}

	if err := h.courseRepo.Delete(courseID); err != nil {
		log.Printf("Erreur lors de la suppression de la formation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Formation supprimée: %s", course.Title)
	utils.RespondSuccess(w, "Formation supprimée", nil)
}

// ImportQuiz crée un quiz depuis un fichier CSV (ADMIN).
// Le fichier est attendu en multipart/form-data sous la clé "file",
// avec le titre du quiz dans le champ "title".
func (h *CourseHandler) ImportQuiz(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	courseID, ok := ParseObjectIDVar(w, mux.Vars(r), "course_id", constants.ErrInvalidCourseID)
	if !ok {
		return
	}

	course, err := h.courseRepo.FindByID(courseID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la formation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if course == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourseNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxQuizCSVBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Fichier multipart invalide")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		utils.RespondError(w, http.StatusBadRequest, "Le titre du quiz est requis")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Le fichier CSV est requis (clé 'file')")
		return
	}
	defer file.Close()

	questions, err := utils.ParseQuizCSV(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	quiz := &models.Quiz{
		CourseID:  courseID,
		Title:     title,
		Questions: questions,
	}

	if err := h.courseRepo.CreateQuiz(quiz); err != nil {
		log.Printf("Erreur lors de la création du quiz: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Quiz importé: %s (%d questions)", quiz.Title, len(questions))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"quiz":      quiz.PublicView(),
		"questions": len(questions),
	})
}

// GetQuiz retourne un quiz sans les bonnes réponses (MEMBRES)
func (h *CourseHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	quizID, ok := ParseObjectIDVar(w, mux.Vars(r), "quiz_id", constants.ErrInvalidQuizID)
	if !ok {
		return
	}

	quiz, err := h.courseRepo.FindQuizByID(quizID)
	if err != nil {
		log.Printf("Erreur lors de la récupération du quiz: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if quiz == nil || !quiz.IsActive {
		utils.RespondError(w, http.StatusNotFound, constants.ErrQuizNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quiz":    quiz.PublicView(),
	})
}

// SubmitQuiz corrige la soumission d'un adhérent (MEMBRES)
func (h *CourseHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	quizID, ok := ParseObjectIDVar(w, mux.Vars(r), "quiz_id", constants.ErrInvalidQuizID)
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	quiz, err := h.courseRepo.FindQuizByID(quizID)
	if err != nil {
		log.Printf("Erreur lors de la récupération du quiz: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if quiz == nil || !quiz.IsActive {
		utils.RespondError(w, http.StatusNotFound, constants.ErrQuizNotFound)
		return
	}

	if len(req.Answers) > len(quiz.Questions) {
		utils.RespondError(w, http.StatusBadRequest, "Plus de réponses que de questions")
		return
	}

	result := quiz.Grade(req.Answers)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// DeleteQuiz supprime un quiz (ADMIN)
func (h *CourseHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	quizID, ok := ParseObjectIDVar(w, mux.Vars(r), "quiz_id", constants.ErrInvalidQuizID)
	if !ok {
		return
	}

	quiz, err := h.courseRepo.FindQuizByID(quizID)
	if err != nil {
		log.Printf("Erreur lors de la recherche du quiz: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if quiz == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrQuizNotFound)
		return
	}

	if err := h.courseRepo.DeleteQuiz(quizID); err != nil {
		log.Printf("Erreur lors de la suppression du quiz: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Quiz supprimé: %s", quiz.Title)
	utils.RespondSuccess(w, "Quiz supprimé", nil)
}
