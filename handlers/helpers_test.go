package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	if !RequireMethod(rr, req, http.MethodGet) {
		t.Error("RequireMethod() devrait accepter la bonne méthode")
	}

	rr = httptest.NewRecorder()
	if RequireMethod(rr, req, http.MethodPost) {
		t.Error("RequireMethod() devrait refuser une mauvaise méthode")
	}
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Code = %v, attendu 405", rr.Code)
	}
}

func TestParseObjectIDVar(t *testing.T) {
	valid := primitive.NewObjectID()

	rr := httptest.NewRecorder()
	id, ok := ParseObjectIDVar(rr, map[string]string{"event_id": valid.Hex()}, "event_id", "ID invalide")
	if !ok {
		t.Fatal("ParseObjectIDVar() devrait accepter un ObjectID valide")
	}
	if id != valid {
		t.Errorf("id = %v, attendu %v", id, valid)
	}

	rr = httptest.NewRecorder()
	if _, ok := ParseObjectIDVar(rr, map[string]string{"event_id": "pas-un-id"}, "event_id", "ID invalide"); ok {
		t.Error("ParseObjectIDVar() devrait refuser un hex invalide")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Code = %v, attendu 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	if _, ok := ParseObjectIDVar(rr, map[string]string{}, "event_id", "ID invalide"); ok {
		t.Error("ParseObjectIDVar() devrait refuser une clé absente")
	}
}
