// Package parser turns uploaded question documents into structured
// multiple-choice question records. Two mutually exclusive line grammars
// are supported per upload: a pipe-delimited single-line form
//
//	Question | Option1 | Option2 | Option3 | Option4 | CorrectOption(1-4)
//
// and a multi-line block form
//
//	1. Question
//	a) Option
//	b) Option
//	c) Option
//	d) Option
//	Answer: c
//
// The block form is only tried when the pipe form yields nothing.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedQuestion is one question record extracted from an upload.
type ParsedQuestion struct {
	Text          string
	Options       []string // always exactly 4
	CorrectAnswer int      // 0-3
}

var (
	optionRe   = regexp.MustCompile(`^[a-dA-D]\)\s*(.*)$`)
	numberedRe = regexp.MustCompile(`^\d+\.\s*(.*)$`)
	answerRe   = regexp.MustCompile(`(?i)^answer\s*:\s*([1-4a-d])\s*$`)
)

// Parse extracts question records from text, in order of appearance.
// It never fails: malformed lines and partial blocks are skipped, and an
// empty slice is returned when nothing usable is found. The caller
// decides whether an empty result is an error.
func Parse(text string) []ParsedQuestion {
	lines := normalizeLines(text)

	if questions := parsePipeLines(lines); len(questions) > 0 {
		return questions
	}
	return parseBlocks(lines)
}

// normalizeLines splits raw text into trimmed, non-empty lines. Trimming
// covers carriage returns, so both \n and \r\n endings are handled.
func normalizeLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parsePipeLines handles the pipe-delimited grammar. A line is a valid
// record iff splitting on | yields exactly 6 trimmed fields, the question
// and all 4 options are non-empty, and the last field is an integer 1-4.
// Anything else contributes no record.
func parsePipeLines(lines []string) []ParsedQuestion {
	var questions []ParsedQuestion

	for _, line := range lines {
		if !strings.Contains(line, "|") {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) != 6 {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		empty := false
		for _, f := range fields[:5] {
			if f == "" {
				empty = true
				break
			}
		}
		if empty {
			continue
		}

		answer, err := strconv.Atoi(fields[5])
		if err != nil || answer < 1 || answer > 4 {
			continue
		}

		questions = append(questions, ParsedQuestion{
			Text:          fields[0],
			Options:       append([]string(nil), fields[1:5]...),
			CorrectAnswer: answer - 1, // 1-based input to 0-based index
		})
	}

	return questions
}

// parseBlocks handles the multi-line grammar with a cursor scan. A block
// yields a record only when the question text is non-empty and exactly 4
// option lines were consumed; partial blocks are dropped entirely. A
// missing or malformed Answer line defaults the correct option to the
// first one.
func parseBlocks(lines []string) []ParsedQuestion {
	var questions []ParsedQuestion

	i := 0
	for i < len(lines) {
		// A stray option line cannot start a question block.
		if optionRe.MatchString(lines[i]) {
			i++
			continue
		}

		text := lines[i]
		if m := numberedRe.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
		}
		i++

		var options []string
		for i < len(lines) && len(options) < 4 {
			m := optionRe.FindStringSubmatch(lines[i])
			if m == nil {
				break
			}
			options = append(options, strings.TrimSpace(m[1]))
			i++
		}

		answer := 0
		if i < len(lines) {
			if m := answerRe.FindStringSubmatch(lines[i]); m != nil {
				answer = answerIndex(m[1])
				i++
			}
		}

		if text == "" || len(options) != 4 {
			continue
		}
		if answer < 0 || answer > 3 {
			answer = 0
		}

		questions = append(questions, ParsedQuestion{
			Text:          text,
			Options:       options,
			CorrectAnswer: answer,
		})
	}

	return questions
}

func answerIndex(token string) int {
	token = strings.ToLower(token)
	if n, err := strconv.Atoi(token); err == nil {
		return n - 1
	}
	return int(token[0] - 'a')
}
