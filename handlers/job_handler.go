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

// Types de contrat acceptés sur le job board
var validContractTypes = map[string]bool{
	"cdi":        true,
	"cdd":        true,
	"stage":      true,
	"alternance": true,
}

// JobHandler gère le job board de l'association
type JobHandler struct {
	jobRepo *database.JobRepository
}

// NewJobHandler crée une nouvelle instance de JobHandler
func NewJobHandler(db *mongo.Database) *JobHandler {
	return &JobHandler{
		jobRepo: database.NewJobRepository(db),
	}
}

// GetPublicJobs retourne les offres d'emploi actives et non expirées (PUBLIC)
func (h *JobHandler) GetPublicJobs(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	jobs, err := h.jobRepo.FindActive()
	if err != nil {
		log.Printf("Erreur lors de la récupération des offres d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if jobs == nil {
		jobs = []models.JobPosting{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": jobs,
	})
}

// GetPublicJob retourne le détail d'une offre d'emploi (PUBLIC)
func (h *JobHandler) GetPublicJob(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	jobID, ok := ParseObjectIDVar(w, mux.Vars(r), "job_id", constants.ErrInvalidJobID)
	if !ok {
		return
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		log.Printf("Erreur lors de la récupération de l'offre d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if job == nil || !job.IsActive {
		utils.RespondError(w, http.StatusNotFound, constants.ErrJobNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"job":     job,
	})
}

// GetAllJobs retourne toutes les offres d'emploi (ADMIN)
func (h *JobHandler) GetAllJobs(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	jobs, err := h.jobRepo.FindAll()
	if err != nil {
		log.Printf("Erreur lors de la récupération des offres d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if jobs == nil {
		jobs = []models.JobPosting{}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// CreateJob publie une offre d'emploi (ADMIN)
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateJobPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.ContractType != "" && !validContractTypes[req.ContractType] {
		utils.RespondError(w, http.StatusBadRequest, "Type de contrat invalide (cdi, cdd, stage, alternance)")
		return
	}

	job := &models.JobPosting{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		ContractType: req.ContractType,
		Description:  req.Description,
		ApplyURL:     req.ApplyURL,
		ContactEmail: req.ContactEmail,
	}
	if req.ExpiresAt != nil {
		expires := req.ExpiresAt.Time
		job.ExpiresAt = &expires
	}

	if err := h.jobRepo.Create(job); err != nil {
		log.Printf("Erreur lors de la création de l'offre d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Offre d'emploi publiée: %s chez %s", job.Title, job.Company)
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"job":     job,
	})
}

// UpdateJob modifie une offre d'emploi (ADMIN)
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	jobID, ok := ParseObjectIDVar(w, mux.Vars(r), "job_id", constants.ErrInvalidJobID)
	if !ok {
		return
	}

	var req models.UpdateJobPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'offre d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if job == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrJobNotFound)
		return
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Company != "" {
		update["company"] = req.Company
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.ContractType != "" {
		if !validContractTypes[req.ContractType] {
			utils.RespondError(w, http.StatusBadRequest, "Type de contrat invalide (cdi, cdd, stage, alternance)")
			return
		}
		update["contract_type"] = req.ContractType
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.ApplyURL != "" {
		update["apply_url"] = req.ApplyURL
	}
	if req.ContactEmail != "" {
		update["contact_email"] = req.ContactEmail
	}
	if req.ExpiresAt != nil {
		update["expires_at"] = req.ExpiresAt.Time
	}
	if req.IsActive != nil {
		update["is_active"] = *req.IsActive
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}

	if err := h.jobRepo.Update(jobID, update); err != nil {
		log.Printf("Erreur lors de la mise à jour de l'offre d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	updated, err := h.jobRepo.FindByID(jobID)
	if err != nil || updated == nil {
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Offre d'emploi mise à jour", updated)
}

// DeleteJob supprime une offre d'emploi (ADMIN)
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	jobID, ok := ParseObjectIDVar(w, mux.Vars(r), "job_id", constants.ErrInvalidJobID)
	if !ok {
		return
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'offre d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if job == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrJobNotFound)
		return
	}

	if err := h.jobRepo.Delete(jobID); err != nil {
		log.Printf("Erreur lors de la suppression de l'offre d'emploi: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Offre d'emploi supprimée: %s", job.Title)
	utils.RespondSuccess(w, "Offre d'emploi supprimée", nil)
}
