package constants

// Messages d'erreur HTTP courants
const (
	ErrMethodNotAllowed      = "Méthode non autorisée"
	ErrServerError           = "Erreur serveur"
	ErrInvalidData           = "Données invalides"
	ErrInvalidJSONBody       = "Body JSON invalide"
	ErrNotAuthenticated      = "Non authentifié"
	ErrInvalidToken          = "Token invalide"
	ErrInvalidEventID        = "ID d'événement invalide"
	ErrEventNotFound         = "Événement non trouvé"
	ErrInvalidOfferID        = "ID d'offre d'inscription invalide"
	ErrOfferNotFound         = "Offre d'inscription non trouvée"
	ErrOfferExpired          = "La date limite d'inscription est dépassée"
	ErrOfferFull             = "L'offre d'inscription est complète"
	ErrInvalidRegistrationID = "ID d'inscription invalide"
	ErrRegistrationNotFound  = "Inscription non trouvée"
	ErrInvalidArticleID      = "ID d'article invalide"
	ErrArticleNotFound       = "Article non trouvé"
	ErrInvalidJobID          = "ID d'offre d'emploi invalide"
	ErrJobNotFound           = "Offre d'emploi non trouvée"
	ErrInvalidCourseID       = "ID de formation invalide"
	ErrCourseNotFound        = "Formation non trouvée"
	ErrInvalidQuizID         = "ID de quiz invalide"
	ErrQuizNotFound          = "Quiz non trouvé"
	ErrInvalidConvID         = "ID de conversation invalide"
	ErrConvNotFound          = "Conversation non trouvée"
	ErrConvAccessDenied      = "Accès refusé à cette conversation"
	ErrUserNotFound          = "Adhérent introuvable"
	ErrAdminOnly             = "Accès refusé. Admin uniquement"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
)
