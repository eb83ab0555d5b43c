package utils

import (
	"strings"
	"testing"
)

type inscriptionPayload struct {
	Firstname string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
}

func TestValidateStruct(t *testing.T) {
	valide := inscriptionPayload{
		Firstname: "Marie",
		Email:     "marie@example.com",
		Password:  "motdepasse",
	}
	if err := ValidateStruct(&valide); err != nil {
		t.Errorf("ValidateStruct() erreur = %v, attendu nil", err)
	}
}

func TestValidateStructChampRequis(t *testing.T) {
	payload := inscriptionPayload{Email: "marie@example.com", Password: "motdepasse"}
	err := ValidateStruct(&payload)
	if err == nil {
		t.Fatal("ValidateStruct() devrait échouer sans prénom")
	}
	if !strings.Contains(err.Error(), "requis") {
		t.Errorf("message = %v, devrait mentionner 'requis'", err)
	}
}

func TestValidateStructEmailInvalide(t *testing.T) {
	payload := inscriptionPayload{Firstname: "Marie", Email: "pas-un-email", Password: "motdepasse"}
	err := ValidateStruct(&payload)
	if err == nil {
		t.Fatal("ValidateStruct() devrait échouer avec un email invalide")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("message = %v, devrait mentionner l'email", err)
	}
}

func TestValidateStructMin(t *testing.T) {
	payload := inscriptionPayload{Firstname: "Marie", Email: "marie@example.com", Password: "court"}
	err := ValidateStruct(&payload)
	if err == nil {
		t.Fatal("ValidateStruct() devrait échouer avec un mot de passe trop court")
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("nom", "valeur"); err != nil {
		t.Errorf("ValidateRequired() erreur = %v", err)
	}
	if err := ValidateRequired("nom", "   "); err == nil {
		t.Error("ValidateRequired() devrait échouer sur une valeur vide")
	}
}
