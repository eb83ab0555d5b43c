package database

import (
	"testing"
)

func TestPing_dbNil(t *testing.T) {
	err := Ping(nil)
	if err == nil {
		t.Error("Ping(nil) devrait échouer quand la base n'est pas initialisée")
	}
	if err != nil && err.Error() != "base de données non initialisée" {
		t.Errorf("Ping(nil) erreur = %v", err)
	}
}

func TestClose_dbNil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Errorf("Close(nil) erreur = %v, attendu nil", err)
	}
}
