package handlers

import (
	"net/http"
	"runtime"
	"time"

	"association-backend/database"
	"association-backend/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

// HealthHandler gère les endpoints de santé
type HealthHandler struct {
	environment string
	db          *mongo.Database
}

// NewHealthHandler crée un nouveau HealthHandler
func NewHealthHandler(environment string, db *mongo.Database) *HealthHandler {
	return &HealthHandler{environment: environment, db: db}
}

// Health retourne l'état de santé du serveur avec métriques
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(startTime).String()

	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "error"
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"message":    "Le serveur fonctionne correctement",
		"env":        h.environment,
		"database":   "MongoDB",
		"db_status":  dbStatus,
		"uptime":     uptime,
		"go_version": runtime.Version(),
	})
}
