package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"association-backend/models"
)

// En-tête attendu pour l'import CSV de quiz
var quizCSVHeader = []string{"question", "option_a", "option_b", "option_c", "option_d", "correct", "points"}

// ParseQuizCSV lit un fichier CSV de questions de quiz.
// Format: question,option_a,option_b,option_c,option_d,correct,points
// où correct vaut a, b, c ou d. Les options vides en fin de ligne sont ignorées.
func ParseQuizCSV(r io.Reader) ([]models.QuizQuestion, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture de l'en-tête CSV: %w", err)
	}
	if err := checkQuizHeader(header); err != nil {
		return nil, err
	}

	var questions []models.QuizQuestion
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("erreur CSV ligne %d: %w", line, err)
		}

		question, err := parseQuizRecord(record, line)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("le fichier CSV ne contient aucune question")
	}

	return questions, nil
}

func checkQuizHeader(header []string) error {
	if len(header) != len(quizCSVHeader) {
		return fmt.Errorf("en-tête CSV invalide: %d colonnes attendues, %d trouvées", len(quizCSVHeader), len(header))
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(col)) != quizCSVHeader[i] {
			return fmt.Errorf("en-tête CSV invalide: colonne %q attendue à la position %d", quizCSVHeader[i], i+1)
		}
	}
	return nil
}

func parseQuizRecord(record []string, line int) (models.QuizQuestion, error) {
	var q models.QuizQuestion

	if len(record) != len(quizCSVHeader) {
		return q, fmt.Errorf("ligne %d: %d colonnes attendues, %d trouvées", line, len(quizCSVHeader), len(record))
	}

	q.Question = strings.TrimSpace(record[0])
	if q.Question == "" {
		return q, fmt.Errorf("ligne %d: la question est vide", line)
	}

	// Seules les options renseignées sont conservées, sans trou
	for _, opt := range record[1:5] {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			break
		}
		q.Options = append(q.Options, opt)
	}
	if len(q.Options) < 2 {
		return q, fmt.Errorf("ligne %d: au moins deux options sont requises", line)
	}

	correct := strings.TrimSpace(strings.ToLower(record[5]))
	if len(correct) != 1 || correct[0] < 'a' || correct[0] > 'd' {
		return q, fmt.Errorf("ligne %d: la bonne réponse doit être a, b, c ou d", line)
	}
	q.CorrectIndex = int(correct[0] - 'a')
	if q.CorrectIndex >= len(q.Options) {
		return q, fmt.Errorf("ligne %d: la bonne réponse %q ne correspond à aucune option", line, correct)
	}

	points, err := strconv.Atoi(strings.TrimSpace(record[6]))
	if err != nil || points <= 0 {
		return q, fmt.Errorf("ligne %d: le nombre de points doit être un entier positif", line)
	}
	q.Points = points

	return q, nil
}
