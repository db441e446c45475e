package services

import (
	"testing"

	"examportal/models"

	"github.com/lib/pq"
)

func question(correct int) models.Question {
	return models.Question{
		Options:       pq.StringArray{"A", "B", "C", "D"},
		CorrectAnswer: correct,
	}
}

func TestScoreAnswers(t *testing.T) {
	questions := []models.Question{question(1), question(3), question(0), question(2)}

	tests := []struct {
		name      string
		answers   []models.Answer
		wantScore int
	}{
		{
			name: "all correct",
			answers: []models.Answer{
				{QuestionIndex: 0, SelectedOption: 1},
				{QuestionIndex: 1, SelectedOption: 3},
				{QuestionIndex: 2, SelectedOption: 0},
				{QuestionIndex: 3, SelectedOption: 2},
			},
			wantScore: 4,
		},
		{
			name: "all wrong",
			answers: []models.Answer{
				{QuestionIndex: 0, SelectedOption: 0},
				{QuestionIndex: 1, SelectedOption: 0},
				{QuestionIndex: 2, SelectedOption: 1},
				{QuestionIndex: 3, SelectedOption: 3},
			},
			wantScore: 0,
		},
		{
			name: "unanswered questions count as wrong",
			answers: []models.Answer{
				{QuestionIndex: 0, SelectedOption: 1},
			},
			wantScore: 1,
		},
		{
			name:      "no answers at all",
			answers:   nil,
			wantScore: 0,
		},
		{
			name: "duplicate index, last write wins",
			answers: []models.Answer{
				{QuestionIndex: 0, SelectedOption: 1},
				{QuestionIndex: 0, SelectedOption: 2},
			},
			wantScore: 0,
		},
		{
			name: "answer for nonexistent question is ignored",
			answers: []models.Answer{
				{QuestionIndex: 9, SelectedOption: 1},
				{QuestionIndex: 1, SelectedOption: 3},
			},
			wantScore: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, totalMarks := ScoreAnswers(questions, tt.answers)
			if totalMarks != len(questions) {
				t.Errorf("expected totalMarks %d, got %d", len(questions), totalMarks)
			}
			if score != tt.wantScore {
				t.Errorf("expected score %d, got %d", tt.wantScore, score)
			}
		})
	}
}

func TestScoreAnswersNoQuestions(t *testing.T) {
	score, totalMarks := ScoreAnswers(nil, []models.Answer{{QuestionIndex: 0, SelectedOption: 0}})
	if score != 0 || totalMarks != 0 {
		t.Errorf("expected 0/0 for an exam without questions, got %d/%d", score, totalMarks)
	}
}
