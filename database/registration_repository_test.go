package database

import (
	"testing"
)

func TestPaymentStatusUpdate(t *testing.T) {
	t.Run("avec payment_intent_id", func(t *testing.T) {
		set := paymentStatusUpdate("completed", "pi_123")
		if set["payment_status"] != "completed" {
			t.Errorf("payment_status = %v, attendu completed", set["payment_status"])
		}
		if set["payment_intent_id"] != "pi_123" {
			t.Errorf("payment_intent_id = %v, attendu pi_123", set["payment_intent_id"])
		}
	})

	t.Run("sans payment_intent_id l'intent stocké est préservé", func(t *testing.T) {
		set := paymentStatusUpdate("refunded", "")
		if set["payment_status"] != "refunded" {
			t.Errorf("payment_status = %v, attendu refunded", set["payment_status"])
		}
		// La clé ne doit pas figurer dans le $set : sinon l'intent
		// existant serait écrasé par une chaîne vide
		if _, present := set["payment_intent_id"]; present {
			t.Error("payment_intent_id présent dans le $set, il ne doit jamais être effacé")
		}
		if len(set) != 1 {
			t.Errorf("len(set) = %d, attendu 1", len(set))
		}
	})
}
