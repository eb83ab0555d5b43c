package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"association-backend/models"
)

// EmailSender est l'interface d'envoi des emails transactionnels
type EmailSender interface {
	SendRegistrationConfirmation(registration *models.Registration, offer *models.EventRegistration, event *models.EventDisplayInfo) error
	SendRegistrationReminder(registration *models.Registration, offer *models.EventRegistration, eventDate time.Time) error
}

// EmailService envoie les emails via l'API HTTP du fournisseur d'emailing
type EmailService struct {
	apiURL string
	apiKey string
	sender string
	client *http.Client
}

// emailPayload représente la requête attendue par l'API d'emailing
type emailPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// NewEmailService crée une nouvelle instance d'EmailService
func NewEmailService(apiURL, apiKey, sender string) *EmailService {
	if apiURL == "" {
		log.Println("⚠️  API email non configurée - envoi d'emails désactivé")
	}

	return &EmailService{
		apiURL: apiURL,
		apiKey: apiKey,
		sender: sender,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendRegistrationConfirmation envoie l'email de confirmation d'inscription.
// Le template de l'offre est utilisé s'il existe, avec substitution des
// variables {{firstname}}, {{lastname}}, {{event_title}} et {{amount}}.
func (s *EmailService) SendRegistrationConfirmation(registration *models.Registration, offer *models.EventRegistration, event *models.EventDisplayInfo) error {
	subject := fmt.Sprintf("Confirmation d'inscription - %s", offer.Title)

	body := offer.ConfirmationEmailTemplate
	if body == "" {
		body = defaultConfirmationTemplate
	}

	eventTitle := offer.Title
	if event != nil {
		eventTitle = event.Title
	}

	replacer := strings.NewReplacer(
		"{{firstname}}", registration.Firstname,
		"{{lastname}}", registration.Lastname,
		"{{event_title}}", eventTitle,
		"{{amount}}", fmt.Sprintf("%.2f €", registration.AmountPaid),
	)

	return s.send(registration.Email, subject, replacer.Replace(body))
}

// SendRegistrationReminder envoie un email de rappel avant l'événement
func (s *EmailService) SendRegistrationReminder(registration *models.Registration, offer *models.EventRegistration, eventDate time.Time) error {
	subject := fmt.Sprintf("Rappel - %s", offer.Title)

	dateLine := ""
	if !eventDate.IsZero() {
		dateLine = fmt.Sprintf("<p>Rendez-vous le %s.</p>", eventDate.Format("02/01/2006 à 15h04"))
	}

	body := fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Petit rappel concernant votre inscription à <strong>%s</strong>.</p>%s<p>À très bientôt !</p>",
		registration.Firstname, offer.Title, dateLine,
	)

	return s.send(registration.Email, subject, body)
}

// send poste le message à l'API d'emailing
func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.apiURL == "" {
		return fmt.Errorf("l'envoi d'emails est désactivé")
	}

	payload := emailPayload{
		From:     s.sender,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erreur lors de la sérialisation de l'email: %w", err)
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la requête: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi de l'email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("l'API email a retourné un code d'erreur: %d", resp.StatusCode)
	}

	log.Printf("✓ Email envoyé à %s: %s", to, subject)
	return nil
}

const defaultConfirmationTemplate = `<p>Bonjour {{firstname}} {{lastname}},</p>
<p>Votre inscription à <strong>{{event_title}}</strong> est confirmée.</p>
<p>Montant réglé : {{amount}}</p>
<p>À très bientôt !</p>`
