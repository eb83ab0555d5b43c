package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// SlackService alerte les administrateurs de l'association sur un canal
// Slack quand le backend rencontre une erreur serveur
type SlackService struct {
	webhookURL  string
	environment string
	client      *http.Client
}

// SlackMessage représente un message Slack
type SlackMessage struct {
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment représente une pièce jointe Slack
type Attachment struct {
	Color     string  `json:"color,omitempty"`
	Title     string  `json:"title,omitempty"`
	Text      string  `json:"text,omitempty"`
	Fields    []Field `json:"fields,omitempty"`
	Timestamp int64   `json:"ts,omitempty"`
	Footer    string  `json:"footer,omitempty"`
}

// Field représente un champ dans une pièce jointe Slack
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackService crée une nouvelle instance de SlackService
func NewSlackService(webhookURL, environment string) *SlackService {
	if webhookURL == "" {
		log.Println("⚠️  Slack webhook URL non configuré - notifications Slack désactivées")
	}

	return &SlackService{
		webhookURL:  webhookURL,
		environment: environment,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// errorFields construit les champs de contexte d'une alerte.
// L'environnement est toujours présent : les admins reçoivent les alertes
// de la préproduction et de la production sur le même canal.
func (s *SlackService) errorFields(method, path, statusCode, origin, userAgent string) []Field {
	fields := []Field{
		{Title: "Environnement", Value: s.environment, Short: true},
		{Title: "Méthode", Value: method, Short: true},
		{Title: "Status Code", Value: statusCode, Short: true},
		{Title: "Chemin", Value: path, Short: false},
	}
	if origin != "" {
		fields = append(fields, Field{Title: "Origin", Value: origin, Short: true})
	}
	if userAgent != "" {
		fields = append(fields, Field{Title: "User-Agent", Value: userAgent, Short: false})
	}
	return fields
}

// SendErrorNotification envoie une notification d'erreur sur Slack
func (s *SlackService) SendErrorNotification(errorType, method, path, statusCode, message, origin, userAgent string) error {
	if s.webhookURL == "" {
		return nil // Service désactivé
	}

	color := "danger"
	if statusCode == "403" {
		color = "warning" // Orange pour les erreurs CORS/Forbidden
	}

	slackMsg := SlackMessage{
		Attachments: []Attachment{
			{
				Color:     color,
				Title:     fmt.Sprintf("🚨 Erreur serveur: %s", errorType),
				Text:      message,
				Timestamp: time.Now().Unix(),
				Footer:    "Backend associatif",
				Fields:    s.errorFields(method, path, statusCode, origin, userAgent),
			},
		},
	}

	jsonData, err := json.Marshal(slackMsg)
	if err != nil {
		return fmt.Errorf("erreur lors de la sérialisation du message Slack: %w", err)
	}

	req, err := http.NewRequest("POST", s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la requête: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi à Slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack a retourné un code d'erreur: %d", resp.StatusCode)
	}

	log.Printf("✓ Notification Slack envoyée pour l'erreur: %s %s", method, path)
	return nil
}

// SendCriticalError envoie une notification pour une erreur critique
func (s *SlackService) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	if err := s.SendErrorNotification(
		"Erreur Critique",
		method,
		path,
		statusCode,
		errorMessage,
		origin,
		userAgent,
	); err != nil {
		log.Printf("❌ Erreur lors de l'envoi de la notification Slack: %v", err)
	}
}

// SendCORSError envoie une notification pour une erreur CORS
func (s *SlackService) SendCORSError(method, path, origin, userAgent string) {
	if err := s.SendErrorNotification(
		"Erreur CORS",
		method,
		path,
		"403",
		fmt.Sprintf("Origine non autorisée: %s", origin),
		origin,
		userAgent,
	); err != nil {
		log.Printf("❌ Erreur lors de l'envoi de la notification Slack: %v", err)
	}
}
