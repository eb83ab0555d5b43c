package utils

import (
	"strings"
	"testing"
)

const quizCSVValide = `question,option_a,option_b,option_c,option_d,correct,points
Quelle est la capitale de la France ?,Paris,Lyon,Marseille,Lille,a,2
Combien font 2+2 ?,3,4,,,b,1
`

func TestParseQuizCSV(t *testing.T) {
	questions, err := ParseQuizCSV(strings.NewReader(quizCSVValide))
	if err != nil {
		t.Fatalf("ParseQuizCSV() erreur = %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("len(questions) = %d, attendu 2", len(questions))
	}

	q := questions[0]
	if q.Question != "Quelle est la capitale de la France ?" {
		t.Errorf("Question = %q", q.Question)
	}
	if len(q.Options) != 4 {
		t.Errorf("len(Options) = %d, attendu 4", len(q.Options))
	}
	if q.CorrectIndex != 0 {
		t.Errorf("CorrectIndex = %d, attendu 0", q.CorrectIndex)
	}
	if q.Points != 2 {
		t.Errorf("Points = %d, attendu 2", q.Points)
	}

	// Les options vides en fin de ligne sont ignorées
	if len(questions[1].Options) != 2 {
		t.Errorf("len(Options) = %d, attendu 2", len(questions[1].Options))
	}
	if questions[1].CorrectIndex != 1 {
		t.Errorf("CorrectIndex = %d, attendu 1", questions[1].CorrectIndex)
	}
}

func TestParseQuizCSVErreurs(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			"en-tête invalide",
			"question,a,b,c,d,correct,points\nQ,x,y,,,a,1\n",
		},
		{
			"question vide",
			"question,option_a,option_b,option_c,option_d,correct,points\n,x,y,,,a,1\n",
		},
		{
			"une seule option",
			"question,option_a,option_b,option_c,option_d,correct,points\nQ,x,,,,a,1\n",
		},
		{
			"bonne réponse hors taxonomie",
			"question,option_a,option_b,option_c,option_d,correct,points\nQ,x,y,,,e,1\n",
		},
		{
			"bonne réponse sans option correspondante",
			"question,option_a,option_b,option_c,option_d,correct,points\nQ,x,y,,,d,1\n",
		},
		{
			"points négatifs",
			"question,option_a,option_b,option_c,option_d,correct,points\nQ,x,y,,,a,-3\n",
		},
		{
			"points non numériques",
			"question,option_a,option_b,option_c,option_d,correct,points\nQ,x,y,,,a,beaucoup\n",
		},
		{
			"aucune question",
			"question,option_a,option_b,option_c,option_d,correct,points\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseQuizCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("ParseQuizCSV() devrait échouer")
			}
		})
	}
}
