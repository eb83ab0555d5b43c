package middleware

import (
	"log"
	"net/http"

	"association-backend/constants"
	"association-backend/database"
	"association-backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequireAdmin vérifie que l'adhérent connecté est un administrateur.
// Le statut admin est relu en base : le token seul ne fait pas foi,
// une révocation prend effet immédiatement.
func RequireAdmin(db *mongo.Database) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				utils.RespondError(w, http.StatusUnauthorized, "Non authentifié")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "Identifiant utilisateur invalide")
				return
			}

			userRepo := database.NewUserRepository(db)
			user, err := userRepo.FindByID(userID)
			if err != nil || user == nil {
				log.Printf("Utilisateur non trouvé: %v", err)
				utils.RespondError(w, http.StatusUnauthorized, "Utilisateur non trouvé")
				return
			}

			if user.Admin != 1 {
				log.Printf("⚠️  Accès admin refusé pour: %s (admin=%d)", user.Email, user.Admin)
				utils.RespondError(w, http.StatusForbidden, constants.ErrAdminOnly)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
