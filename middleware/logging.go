package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"association-backend/services"
)

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// isCriticalError détermine si une erreur doit être notifiée sur Slack.
// Les erreurs serveur (5xx) et les 403 (CORS ou accès admin refusé) le sont,
// les erreurs utilisateur (400, 401, 404...) ne le sont pas.
func isCriticalError(statusCode int) bool {
	if statusCode >= http.StatusInternalServerError {
		return true
	}
	return statusCode == http.StatusForbidden
}

// Logging enregistre les requêtes HTTP et notifie Slack des erreurs critiques
func Logging(slackService *services.SlackService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode

			if statusCode >= http.StatusBadRequest {
				log.Printf(
					"⚠️ %s %s -> %d (%s)",
					r.Method,
					r.RequestURI,
					statusCode,
					duration,
				)

				if isCriticalError(statusCode) && slackService != nil {
					origin := r.Header.Get("Origin")
					userAgent := r.Header.Get("User-Agent")
					statusCodeStr := strconv.Itoa(statusCode)

					if statusCode == http.StatusForbidden {
						slackService.SendCORSError(r.Method, r.RequestURI, origin, userAgent)
					} else {
						slackService.SendCriticalError(r.Method, r.RequestURI, statusCodeStr, http.StatusText(statusCode), origin, userAgent)
					}
				}
			} else {
				log.Printf("%s %s -> %d (%s)", r.Method, r.RequestURI, statusCode, duration)
			}
		})
	}
}
