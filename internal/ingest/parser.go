package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

type ParsedQuestion struct {
	Number        int               `json:"question_number"`
	Text          string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Comment       string            `json:"comment"`
}

type ParsedExam struct {
	Title     string           `json:"exam_title"`
	Questions []ParsedQuestion `json:"questions"`
}

var (
	questionRe = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)
	optionRe   = regexp.MustCompile(`^([A-D])[.)]\s+(.+)$`)
	answerRe   = regexp.MustCompile(`(?i)^answer:\s*(.+)$`)
	commentRe  = regexp.MustCompile(`(?i)^comment:\s*(.+)$`)
)

// Parse extracts an exam from recognized document text. Expected shape: a
// title line, then numbered questions ("1. ..."), each followed by options
// ("A) ..." through "D) ..."), an "Answer:" line and an optional "Comment:"
// line. Lines that fit nowhere are appended to the current question text,
// since OCR tends to break sentences across lines.
func Parse(text string) *ParsedExam {
	exam := &ParsedExam{}
	var current *ParsedQuestion

	flush := func() {
		if current != nil {
			current.Text = strings.TrimSpace(current.Text)
			exam.Questions = append(exam.Questions, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := questionRe.FindStringSubmatch(line); m != nil {
			flush()
			number, _ := strconv.Atoi(m[1])
			current = &ParsedQuestion{
				Number:  number,
				Text:    m[2],
				Options: make(map[string]string),
			}
			continue
		}

		if current == nil {
			if exam.Title == "" {
				exam.Title = line
			}
			continue
		}

		if m := optionRe.FindStringSubmatch(line); m != nil {
			current.Options[m[1]] = m[2]
			continue
		}
		if m := answerRe.FindStringSubmatch(line); m != nil {
			current.CorrectAnswer = strings.TrimSpace(m[1])
			continue
		}
		if m := commentRe.FindStringSubmatch(line); m != nil {
			current.Comment = strings.TrimSpace(m[1])
			continue
		}

		current.Text += " " + line
	}
	flush()

	return exam
}
