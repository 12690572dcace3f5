// Package parser implements the GIFT text grammar: block segmentation,
// answer-span extraction, question classification and the per-variant answer
// parsers. Parsing is whole-input, synchronous and allocation-light; each
// block parses independently of the others.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quizmesh/giftbridge/internal/gift"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

// Parse converts GIFT source into format-neutral questions. The first
// malformed block aborts the whole batch; there is no skip-and-continue.
func Parse(src string) ([]quiz.Question, error) {
	blocks := segment(src)
	out := make([]quiz.Question, 0, len(blocks))
	for i, b := range blocks {
		q, err := parseBlock(b)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func parseBlock(b block) (quiz.Question, error) {
	body := strings.Join(b.lines, "\n")
	if cat, ok := categoryLine(body); ok {
		return quiz.Question{Type: quiz.TypeCategory, Category: cat}, nil
	}
	idnumber, tags := extractMeta(b.comments)
	ts := lex(body)

	open := indexSym(ts, '{')
	closing := lastIndexSym(ts, '}')

	if open < 0 && closing < 0 {
		name, rest := takeName(ts)
		qt := parseText(rest)
		if name == "" {
			name = quiz.DefaultName(qt.Text)
		}
		return quiz.Question{
			Type:            quiz.TypeDescription,
			Name:            name,
			QuestionText:    qt,
			GeneralFeedback: quiz.NewText(""),
			IDNumber:        idnumber,
			Tags:            tags,
		}, nil
	}
	if open < 0 || closing < 0 || closing < open {
		return quiz.Question{}, gift.ErrBraceMismatch
	}

	span := ts[open+1 : closing]
	qtToks := ts[:open]
	if tail := trimTokens(ts[closing+1:]); len(tail) > 0 {
		// The answer span sits mid-sentence: its position becomes a blank
		// fill so the question reads as fill-in-the-blank.
		qtToks = append(append(append([]tok{}, ts[:open]...), tok{tokText, "_____"}), ts[closing+1:]...)
	}

	general := quiz.NewText("")
	ansBody := span
	if i := lastFeedbackMark(span); i >= 0 {
		general = parseText(span[i+4:])
		ansBody = span[:i]
	}

	name, rest := takeName(qtToks)
	qt := parseText(rest)
	if name == "" {
		name = quiz.DefaultName(qt.Text)
	}

	q := quiz.Question{
		Name:            name,
		QuestionText:    qt,
		GeneralFeedback: general,
		IDNumber:        idnumber,
		Tags:            tags,
	}

	var err error
	switch classify(ansBody) {
	case quiz.TypeEssay:
		q.Type = quiz.TypeEssay
		q.ApplyEssayDefaults()
	case quiz.TypeNumerical:
		q.Type = quiz.TypeNumerical
		q.Answers, err = parseNumerical(ansBody)
	case quiz.TypeMultichoice:
		q.Type = quiz.TypeMultichoice
		q.Single, q.Answers, err = parseMultichoice(ansBody)
	case quiz.TypeMatch:
		q.Type = quiz.TypeMatch
		q.Subquestions, err = parseMatch(ansBody)
	case quiz.TypeTrueFalse:
		q.Type = quiz.TypeTrueFalse
		parseTrueFalse(ansBody, &q)
	default:
		q.Type = quiz.TypeShortAnswer
		q.Answers, err = parseShortAnswer(ansBody)
	}
	if err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

func categoryLine(body string) (string, bool) {
	t := strings.TrimSpace(body)
	if !strings.HasPrefix(t, "$CATEGORY:") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(t, "$CATEGORY:")), true
}

// classify decides the variant from the feedback-stripped answer body. The
// rules overlap, so they apply in strict priority order, and detection never
// consumes anything: the winning variant re-reads the span itself.
func classify(ts []tok) string {
	ts = trimTokens(ts)
	switch {
	case len(ts) == 0:
		return quiz.TypeEssay
	case isSym(ts[0], '#'):
		return quiz.TypeNumerical
	case hasSym(ts, '~'):
		return quiz.TypeMultichoice
	case hasSym(ts, '=') && strings.Contains(text(ts), "->"):
		return quiz.TypeMatch
	}
	head, _ := splitFirstSym(ts, '#')
	switch strings.ToUpper(strings.TrimSpace(text(head))) {
	case "T", "TRUE", "F", "FALSE":
		return quiz.TypeTrueFalse
	}
	return quiz.TypeShortAnswer
}

// takeName strips a leading ::name:: wrapper, returning the unescaped name
// and the remaining span. An unterminated wrapper is treated as plain text.
func takeName(ts []tok) (string, []tok) {
	ts = trimTokens(ts)
	if len(ts) < 2 || !isSym(ts[0], ':') || !isSym(ts[1], ':') {
		return "", ts
	}
	for i := 2; i+1 < len(ts); i++ {
		if isSym(ts[i], ':') && isSym(ts[i+1], ':') {
			return strings.TrimSpace(text(ts[2:i])), ts[i+2:]
		}
	}
	return "", ts
}

var formatTagRe = regexp.MustCompile(`^\[(moodle|html|plain|markdown)\]\s*`)

// parseText turns a token span into a Text value, consuming a leading format
// tag when present. Unrecognized tags stay in the text and the format
// defaults to moodle.
func parseText(ts []tok) quiz.Text {
	s := strings.TrimSpace(text(ts))
	f := quiz.FormatMoodle
	if m := formatTagRe.FindStringSubmatch(s); m != nil {
		f = quiz.TextFormat(m[1])
		s = s[len(m[0]):]
	}
	return quiz.Text{Text: s, Format: f}
}
