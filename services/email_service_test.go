package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"association-backend/models"
)

func TestSendRegistrationConfirmation(t *testing.T) {
	var received struct {
		From     string `json:"from"`
		To       string `json:"to"`
		Subject  string `json:"subject"`
		HTMLBody string `json:"html_body"`
	}
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("décodage payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewEmailService(server.URL, "cle-api", "contact@association.fr")

	registration := &models.Registration{
		Firstname:  "Marie",
		Lastname:   "Dupont",
		Email:      "marie@example.com",
		AmountPaid: 50,
	}
	offer := &models.EventRegistration{Title: "Gala annuel"}

	if err := svc.SendRegistrationConfirmation(registration, offer, nil); err != nil {
		t.Fatalf("SendRegistrationConfirmation() erreur = %v", err)
	}

	if authHeader != "Bearer cle-api" {
		t.Errorf("Authorization = %q", authHeader)
	}
	if received.To != "marie@example.com" {
		t.Errorf("To = %q", received.To)
	}
	if received.From != "contact@association.fr" {
		t.Errorf("From = %q", received.From)
	}
	if !strings.Contains(received.HTMLBody, "Marie Dupont") {
		t.Errorf("le corps devrait contenir le nom substitué, got %s", received.HTMLBody)
	}
	if !strings.Contains(received.HTMLBody, "Gala annuel") {
		t.Errorf("le corps devrait contenir le titre de l'offre, got %s", received.HTMLBody)
	}
	if !strings.Contains(received.HTMLBody, "50.00 €") {
		t.Errorf("le corps devrait contenir le montant, got %s", received.HTMLBody)
	}
}

func TestSendRegistrationConfirmationTemplatePersonnalise(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		body = payload["html_body"]
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewEmailService(server.URL, "", "contact@association.fr")

	registration := &models.Registration{Firstname: "Paul", Email: "paul@example.com"}
	offer := &models.EventRegistration{
		Title:                     "Conférence",
		ConfirmationEmailTemplate: "Bienvenue {{firstname}} à {{event_title}} !",
	}
	event := &models.EventDisplayInfo{Title: "Conférence de rentrée"}

	if err := svc.SendRegistrationConfirmation(registration, offer, event); err != nil {
		t.Fatalf("SendRegistrationConfirmation() erreur = %v", err)
	}

	// Le titre de l'événement parent prime sur celui de l'offre
	if body != "Bienvenue Paul à Conférence de rentrée !" {
		t.Errorf("body = %q", body)
	}
}

func TestSendRegistrationReminderDesactive(t *testing.T) {
	svc := NewEmailService("", "", "contact@association.fr")

	registration := &models.Registration{Firstname: "Luc", Email: "luc@example.com"}
	offer := &models.EventRegistration{Title: "Gala"}

	err := svc.SendRegistrationReminder(registration, offer, time.Now())
	if err == nil {
		t.Error("SendRegistrationReminder() devrait échouer sans API configurée")
	}
}

func TestSendErreurAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewEmailService(server.URL, "", "contact@association.fr")
	registration := &models.Registration{Firstname: "Eva", Email: "eva@example.com"}
	offer := &models.EventRegistration{Title: "Gala"}

	if err := svc.SendRegistrationConfirmation(registration, offer, nil); err == nil {
		t.Error("SendRegistrationConfirmation() devrait remonter l'erreur de l'API")
	}
}
