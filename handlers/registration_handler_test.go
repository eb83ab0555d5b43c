package handlers

import (
	"errors"
	"sync"
	"testing"
	"time"

	"association-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateCustomFields(t *testing.T) {
	fields := []models.CustomField{
		{Name: "regime", Type: "select", Required: true, Options: []string{"standard", "végétarien", "vegan"}},
		{Name: "allergies", Type: "text", Required: false},
		{Name: "taille_tshirt", Type: "select", Required: false, Options: []string{"S", "M", "L"}},
	}

	tests := []struct {
		name      string
		responses []models.CustomFieldResponse
		wantErr   bool
	}{
		{
			"toutes les réponses valides",
			[]models.CustomFieldResponse{
				{FieldName: "regime", Response: "vegan"},
				{FieldName: "allergies", Response: "arachides"},
			},
			false,
		},
		{
			"champ requis absent",
			[]models.CustomFieldResponse{
				{FieldName: "allergies", Response: "aucune"},
			},
			true,
		},
		{
			"champ requis vide",
			[]models.CustomFieldResponse{
				{FieldName: "regime", Response: "   "},
			},
			true,
		},
		{
			"valeur hors options du select",
			[]models.CustomFieldResponse{
				{FieldName: "regime", Response: "carnivore"},
			},
			true,
		},
		{
			"select optionnel absent",
			[]models.CustomFieldResponse{
				{FieldName: "regime", Response: "standard"},
			},
			false,
		},
		{
			"select optionnel vide est toléré",
			[]models.CustomFieldResponse{
				{FieldName: "regime", Response: "standard"},
				{FieldName: "taille_tshirt", Response: ""},
			},
			false,
		},
		{
			"réponse à un champ inconnu est ignorée",
			[]models.CustomFieldResponse{
				{FieldName: "regime", Response: "standard"},
				{FieldName: "inconnu", Response: "peu importe"},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCustomFields(fields, tt.responses)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCustomFields() erreur = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCustomFieldsSansChamps(t *testing.T) {
	if err := validateCustomFields(nil, nil); err != nil {
		t.Errorf("validateCustomFields() erreur = %v, attendu nil", err)
	}
}

// fakeEmailSender compte les appels et échoue pour les adresses listées
type fakeEmailSender struct {
	mu        sync.Mutex
	calls     int
	failFor   map[string]bool
	reminders []string
}

func (f *fakeEmailSender) SendRegistrationConfirmation(registration *models.Registration, offer *models.EventRegistration, event *models.EventDisplayInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeEmailSender) SendRegistrationReminder(registration *models.Registration, offer *models.EventRegistration, eventDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.reminders = append(f.reminders, registration.Email)
	if f.failFor[registration.Email] {
		return errors.New("boîte aux lettres pleine")
	}
	return nil
}

func TestDispatchRemindersEchecPartiel(t *testing.T) {
	offer := &models.EventRegistration{Title: "Gala annuel"}
	registrations := []models.Registration{
		{ID: primitive.NewObjectID(), Email: "alice@example.com"},
		{ID: primitive.NewObjectID(), Email: "bob@example.com"},
		{ID: primitive.NewObjectID(), Email: "carol@example.com"},
	}
	sender := &fakeEmailSender{failFor: map[string]bool{"bob@example.com": true}}

	sent, failed, results := dispatchReminders(sender, registrations, offer, time.Now())

	if sent != 2 {
		t.Errorf("sent = %d, attendu 2", sent)
	}
	if failed != 1 {
		t.Errorf("failed = %d, attendu 1", failed)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, attendu 3", len(results))
	}
	// Les résultats gardent l'ordre des inscriptions
	if results[1].Email != "bob@example.com" || results[1].Status != "failed" {
		t.Errorf("results[1] = %+v, attendu échec pour bob@example.com", results[1])
	}
	if results[1].Error == "" {
		t.Error("results[1].Error vide, attendu le message d'erreur de l'envoi")
	}
	if results[0].Status != "sent" || results[2].Status != "sent" {
		t.Errorf("statuts = %s/%s, attendu sent/sent", results[0].Status, results[2].Status)
	}
	if sender.calls != 3 {
		t.Errorf("appels au sender = %d, attendu 3 (un échec n'interrompt pas le lot)", sender.calls)
	}
}

func TestDispatchRemindersAucunInscrit(t *testing.T) {
	sender := &fakeEmailSender{}

	sent, failed, results := dispatchReminders(sender, nil, &models.EventRegistration{Title: "Gala annuel"}, time.Now())

	if sent != 0 || failed != 0 {
		t.Errorf("sent/failed = %d/%d, attendu 0/0", sent, failed)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, attendu 0", len(results))
	}
	if sender.calls != 0 {
		t.Errorf("appels au sender = %d, attendu aucun", sender.calls)
	}
}
