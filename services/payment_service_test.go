package services

import "testing"

func TestPaymentServiceDesactive(t *testing.T) {
	svc := NewPaymentService("", "eur")

	if svc.Enabled() {
		t.Error("Enabled() devrait retourner false sans clé")
	}

	if _, err := svc.CreatePaymentIntent(50, "test", nil); err == nil {
		t.Error("CreatePaymentIntent() devrait échouer quand les paiements sont désactivés")
	}

	if err := svc.RefundPaymentIntent("pi_123"); err == nil {
		t.Error("RefundPaymentIntent() devrait échouer quand les paiements sont désactivés")
	}
}

func TestRefundSansPaymentIntent(t *testing.T) {
	svc := NewPaymentService("sk_test_fake", "eur")

	if !svc.Enabled() {
		t.Fatal("Enabled() devrait retourner true avec une clé")
	}

	if err := svc.RefundPaymentIntent(""); err == nil {
		t.Error("RefundPaymentIntent() devrait échouer sans identifiant")
	}
}
