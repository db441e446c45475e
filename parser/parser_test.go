package parser

import (
	"reflect"
	"testing"
)

func TestParsePipeGrammar(t *testing.T) {
	questions := Parse("What is 2+2? | 3 | 4 | 5 | 6 | 2")
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}

	q := questions[0]
	if q.Text != "What is 2+2?" {
		t.Errorf("unexpected question text: %q", q.Text)
	}
	if !reflect.DeepEqual(q.Options, []string{"3", "4", "5", "6"}) {
		t.Errorf("unexpected options: %v", q.Options)
	}
	if q.CorrectAnswer != 1 {
		t.Errorf("expected correct answer 1, got %d", q.CorrectAnswer)
	}
}

func TestParsePipeGrammarAnswerRange(t *testing.T) {
	for k := 1; k <= 4; k++ {
		text := "Q | A | B | C | D | " + string(rune('0'+k))
		questions := Parse(text)
		if len(questions) != 1 {
			t.Fatalf("k=%d: expected 1 question, got %d", k, len(questions))
		}
		if questions[0].CorrectAnswer != k-1 {
			t.Errorf("k=%d: expected correct answer %d, got %d", k, k-1, questions[0].CorrectAnswer)
		}
	}
}

func TestParsePipeGrammarSkipsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty question", " | A | B | C | D | 1"},
		{"empty option", "Q | A |  | C | D | 1"},
		{"non-integer answer", "Q | A | B | C | D | x"},
		{"answer zero", "Q | A | B | C | D | 0"},
		{"answer out of range", "Q | A | B | C | D | 5"},
		{"too few fields", "Q | A | B | C | 1"},
		{"too many fields", "Q | A | B | C | D | E | 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A malformed line is skipped without aborting later lines.
			text := tt.line + "\nGood | A | B | C | D | 3\n"
			questions := Parse(text)
			if len(questions) != 1 {
				t.Fatalf("expected 1 question, got %d", len(questions))
			}
			if questions[0].Text != "Good" {
				t.Errorf("expected the valid line to survive, got %q", questions[0].Text)
			}
			if questions[0].CorrectAnswer != 2 {
				t.Errorf("expected correct answer 2, got %d", questions[0].CorrectAnswer)
			}
		})
	}
}

func TestParsePipeGrammarMultipleLines(t *testing.T) {
	text := "Q1 | A | B | C | D | 1\r\nnot a question line\r\nQ2 | A | B | C | D | 4\r\n"
	questions := Parse(text)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Text != "Q1" || questions[1].Text != "Q2" {
		t.Errorf("order not preserved: %q, %q", questions[0].Text, questions[1].Text)
	}
}

func TestParseBlockGrammar(t *testing.T) {
	text := "1. Capital of France\na) Paris\nb) Rome\nc) Berlin\nd) Madrid\nAnswer: a"
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}

	q := questions[0]
	if q.Text != "Capital of France" {
		t.Errorf("number prefix not stripped: %q", q.Text)
	}
	if !reflect.DeepEqual(q.Options, []string{"Paris", "Rome", "Berlin", "Madrid"}) {
		t.Errorf("unexpected options: %v", q.Options)
	}
	if q.CorrectAnswer != 0 {
		t.Errorf("expected correct answer 0, got %d", q.CorrectAnswer)
	}
}

func TestParseBlockGrammarDigitAnswer(t *testing.T) {
	text := "Pick one\na) w\nb) x\nc) y\nd) z\nAnswer: 3"
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != 2 {
		t.Errorf("expected correct answer 2, got %d", questions[0].CorrectAnswer)
	}
}

func TestParseBlockGrammarMissingAnswerDefaultsToFirst(t *testing.T) {
	text := "2. Largest planet\na) Jupiter\nb) Saturn\nc) Earth\nd) Mars"
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != 0 {
		t.Errorf("expected lenient default 0, got %d", questions[0].CorrectAnswer)
	}
}

func TestParseBlockGrammarPartialBlockDiscarded(t *testing.T) {
	text := "1. Incomplete\na) only\nb) three\nc) options\n2. Complete\na) w\nb) x\nc) y\nd) z\nAnswer: b"
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected only the complete block, got %d questions", len(questions))
	}
	if questions[0].Text != "Complete" {
		t.Errorf("unexpected question: %q", questions[0].Text)
	}
	if questions[0].CorrectAnswer != 1 {
		t.Errorf("expected correct answer 1, got %d", questions[0].CorrectAnswer)
	}
}

func TestParseBlockGrammarStrayOptionLines(t *testing.T) {
	text := "a) stray\nb) stray\n1. Real question\na) w\nb) x\nc) y\nd) z\nAnswer: d"
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].Text != "Real question" {
		t.Errorf("unexpected question: %q", questions[0].Text)
	}
	if questions[0].CorrectAnswer != 3 {
		t.Errorf("expected correct answer 3, got %d", questions[0].CorrectAnswer)
	}
}

func TestParseBlockGrammarMalformedAnswerNotConsumed(t *testing.T) {
	// An out-of-grammar Answer line defaults the first block to option 0
	// and is itself skipped as a partial block.
	text := "First\na) 1\nb) 2\nc) 3\nd) 4\nAnswer: 9\nSecond\na) 1\nb) 2\nc) 3\nd) 4\nAnswer: c"
	questions := Parse(text)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != 0 {
		t.Errorf("first block: expected default 0, got %d", questions[0].CorrectAnswer)
	}
	if questions[1].CorrectAnswer != 2 {
		t.Errorf("second block: expected 2, got %d", questions[1].CorrectAnswer)
	}
}

func TestParsePipeGrammarWinsOverBlocks(t *testing.T) {
	// Block grammar only runs when the pipe grammar finds nothing.
	text := "Piped | A | B | C | D | 1\n1. Blocked\na) w\nb) x\nc) y\nd) z\nAnswer: b"
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].Text != "Piped" {
		t.Errorf("expected the pipe record only, got %q", questions[0].Text)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n\n\n", "   \r\n \t \n", "no grammar here at all"} {
		if questions := Parse(text); len(questions) != 0 {
			t.Errorf("input %q: expected no questions, got %d", text, len(questions))
		}
	}
}

func TestParseCaseInsensitiveMarkers(t *testing.T) {
	text := "Q\nA) w\nB) x\nC) y\nD) z\nANSWER: B"
	questions := Parse(text)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != 1 {
		t.Errorf("expected correct answer 1, got %d", questions[0].CorrectAnswer)
	}
}
