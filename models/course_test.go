package models

import "testing"

func sampleQuiz() *Quiz {
	return &Quiz{
		Title: "Quiz de test",
		Questions: []QuizQuestion{
			{Question: "Q1", Options: []string{"a", "b", "c"}, CorrectIndex: 0, Points: 2},
			{Question: "Q2", Options: []string{"a", "b"}, CorrectIndex: 1, Points: 3},
			{Question: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 3, Points: 1},
		},
	}
}

func TestQuiz_Grade(t *testing.T) {
	quiz := sampleQuiz()

	tests := []struct {
		name        string
		answers     []int
		wantScore   int
		wantCorrect int
	}{
		{"toutes bonnes", []int{0, 1, 3}, 6, 3},
		{"toutes fausses", []int{1, 0, 0}, 0, 0},
		{"partiellement correct", []int{0, 0, 3}, 3, 2},
		{"réponses manquantes", []int{0}, 2, 1},
		{"aucune réponse", nil, 0, 0},
		{"sans réponse explicite", []int{-1, 1, -1}, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := quiz.Grade(tt.answers)
			if result.Score != tt.wantScore {
				t.Errorf("Score = %v, attendu %v", result.Score, tt.wantScore)
			}
			if result.CorrectAnswers != tt.wantCorrect {
				t.Errorf("CorrectAnswers = %v, attendu %v", result.CorrectAnswers, tt.wantCorrect)
			}
			if result.MaxScore != 6 {
				t.Errorf("MaxScore = %v, attendu 6", result.MaxScore)
			}
			if result.TotalQuestions != 3 {
				t.Errorf("TotalQuestions = %v, attendu 3", result.TotalQuestions)
			}
		})
	}
}

func TestQuiz_PublicView(t *testing.T) {
	quiz := sampleQuiz()
	view := quiz.PublicView()

	if len(view.Questions) != 3 {
		t.Fatalf("Questions = %d, attendu 3", len(view.Questions))
	}
	for i, q := range view.Questions {
		if q.Question != quiz.Questions[i].Question {
			t.Errorf("Question[%d] = %v", i, q.Question)
		}
		if len(q.Options) != len(quiz.Questions[i].Options) {
			t.Errorf("Options[%d] = %d options", i, len(q.Options))
		}
	}
}
