package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Assemblée Générale 2026", "assemblee-generale-2026"},
		{"  Soirée d'été  ", "soiree-d-ete"},
		{"Déjà un slug", "deja-un-slug"},
		{"---", ""},
		{"Titre: avec! ponctuation?", "titre-avec-ponctuation"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, attendu %q", tt.input, got, tt.want)
		}
	}
}
