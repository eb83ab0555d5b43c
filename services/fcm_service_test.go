package services

import (
	"testing"
)

func TestDataPayload(t *testing.T) {
	t.Run("map nil", func(t *testing.T) {
		data := dataPayload("Titre", "Corps", nil)
		if data["title"] != "Titre" || data["message"] != "Corps" {
			t.Errorf("dataPayload() = %v, attendu title/message remplis", data)
		}
	})

	t.Run("données existantes conservées", func(t *testing.T) {
		data := dataPayload("Titre", "Corps", map[string]string{"action": "new_event", "event_id": "abc"})
		if data["action"] != "new_event" || data["event_id"] != "abc" {
			t.Errorf("dataPayload() a perdu les données métier: %v", data)
		}
		if data["title"] != "Titre" || data["message"] != "Corps" {
			t.Errorf("dataPayload() = %v, attendu title/message remplis", data)
		}
	})
}

func TestWebpushHighUrgency(t *testing.T) {
	cfg := webpushHighUrgency()
	if cfg == nil || cfg.Headers["Urgency"] != "high" {
		t.Errorf("webpushHighUrgency() = %+v, attendu header Urgency=high", cfg)
	}
}
