package handlers

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegistrationLink(t *testing.T) {
	eventID := primitive.NewObjectID()
	offerID := primitive.NewObjectID()

	link := registrationLink("https://association.fr", eventID, offerID)

	want := "https://association.fr/evenements/" + eventID.Hex() + "/inscription/" + offerID.Hex()
	if link != want {
		t.Errorf("registrationLink() = %s, attendu %s", link, want)
	}
	// Le chemin public doit porter les deux identifiants
	if !strings.Contains(link, eventID.Hex()) {
		t.Error("le lien ne contient pas l'identifiant de l'événement")
	}
	if !strings.Contains(link, offerID.Hex()) {
		t.Error("le lien ne contient pas l'identifiant de l'offre")
	}
}
