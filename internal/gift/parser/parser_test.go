package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/quizmesh/giftbridge/internal/gift"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

func parseOne(t *testing.T, src string) quiz.Question {
	t.Helper()
	qs, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if len(qs) != 1 {
		t.Fatalf("Parse(%q): got %d questions, want 1", src, len(qs))
	}
	return qs[0]
}

func TestParseShortAnswer(t *testing.T) {
	q := parseOne(t, "::Q1::Capital of France? {=Paris =The capital}")
	if q.Type != quiz.TypeShortAnswer {
		t.Fatalf("type = %q", q.Type)
	}
	if q.Name != "Q1" {
		t.Errorf("name = %q", q.Name)
	}
	if q.QuestionText.Text != "Capital of France?" {
		t.Errorf("questiontext = %q", q.QuestionText.Text)
	}
	if len(q.Answers) != 2 {
		t.Fatalf("answers = %d", len(q.Answers))
	}
	if q.Answers[0].Answer.Str != "Paris" || q.Answers[0].Fraction != 1 {
		t.Errorf("answers[0] = %+v", q.Answers[0])
	}
	if q.Answers[1].Answer.Str != "The capital" {
		t.Errorf("answers[1] = %+v", q.Answers[1])
	}
}

func TestParseShortAnswerWeightAndFeedback(t *testing.T) {
	q := parseOne(t, "Who? {=Grant =%50%Lee#close}")
	if len(q.Answers) != 2 {
		t.Fatalf("answers = %d", len(q.Answers))
	}
	a := q.Answers[1]
	if a.Answer.Str != "Lee" || a.Fraction != 0.5 || a.Feedback.Text != "close" {
		t.Errorf("answers[1] = %+v", a)
	}
}

func TestParseTrueFalse(t *testing.T) {
	q := parseOne(t, "The sky is blue. {T}")
	if q.Type != quiz.TypeTrueFalse {
		t.Fatalf("type = %q", q.Type)
	}
	if !q.CorrectAnswer {
		t.Error("correctanswer = false")
	}
	if q.Penalty != 1 {
		t.Errorf("penalty = %v", q.Penalty)
	}
	if q.Name != "The sky is blue." {
		t.Errorf("name = %q", q.Name)
	}
}

func TestParseTrueFalseFeedback(t *testing.T) {
	// first feedback slot goes with the incorrect choice
	q := parseOne(t, "Grant was buried. {FALSE#Wrong.#Right.}")
	if q.CorrectAnswer {
		t.Fatal("correctanswer = true")
	}
	if q.FeedbackTrue == nil || q.FeedbackTrue.Text != "Wrong." {
		t.Errorf("feedbacktrue = %+v", q.FeedbackTrue)
	}
	if q.FeedbackFalse == nil || q.FeedbackFalse.Text != "Right." {
		t.Errorf("feedbackfalse = %+v", q.FeedbackFalse)
	}
}

func TestParseMultichoice(t *testing.T) {
	q := parseOne(t, "What is 2+2? {=4 ~3 ~5}")
	if q.Type != quiz.TypeMultichoice {
		t.Fatalf("type = %q", q.Type)
	}
	if !q.Single {
		t.Error("single = false")
	}
	if len(q.Answers) != 3 {
		t.Fatalf("answers = %d", len(q.Answers))
	}
	wantVal := []string{"4", "3", "5"}
	wantFrac := []float64{1, 0, 0}
	for i, a := range q.Answers {
		if a.Answer.Rich == nil || a.Answer.Rich.Text != wantVal[i] {
			t.Errorf("answers[%d].value = %+v", i, a.Answer)
		}
		if a.Fraction != wantFrac[i] {
			t.Errorf("answers[%d].fraction = %v", i, a.Fraction)
		}
	}
}

func TestParseMultichoiceWeights(t *testing.T) {
	q := parseOne(t, "Pick some. {~%50%A ~%-25%B#nope ~%75%C}")
	if q.Single {
		t.Error("single = true")
	}
	wantFrac := []float64{0.5, -0.25, 0.75}
	for i, a := range q.Answers {
		if a.Fraction != wantFrac[i] {
			t.Errorf("answers[%d].fraction = %v, want %v", i, a.Fraction, wantFrac[i])
		}
	}
	if q.Answers[1].Feedback.Text != "nope" {
		t.Errorf("answers[1].feedback = %q", q.Answers[1].Feedback.Text)
	}
}

func TestParseWeightClamped(t *testing.T) {
	q := parseOne(t, "Pick. {~%250%A ~%-250%B}")
	if got := q.Answers[0].Fraction; got != 1 {
		t.Errorf("answers[0].fraction = %v, want clamped to 1", got)
	}
	if got := q.Answers[1].Fraction; got != -1 {
		t.Errorf("answers[1].fraction = %v, want clamped to -1", got)
	}
}

func TestParseMultichoiceInsufficient(t *testing.T) {
	_, err := Parse("Pick. {~only}")
	if !errors.Is(err, gift.ErrInsufficientAlternatives) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseNumerical(t *testing.T) {
	tests := []struct {
		src string
		num float64
		tol float64
	}{
		{"Pi? {#3.14159:0.00001}", 3.14159, 0.00001},
		{"Range? {#1..3}", 2, 1},
		{"Bare? {#7}", 7, 0},
		{"Neg? {#=-2.5:0.5}", -2.5, 0.5},
	}
	for _, tt := range tests {
		q := parseOne(t, tt.src)
		if q.Type != quiz.TypeNumerical {
			t.Fatalf("%q: type = %q", tt.src, q.Type)
		}
		if len(q.Answers) != 1 {
			t.Fatalf("%q: answers = %d", tt.src, len(q.Answers))
		}
		a := q.Answers[0]
		if !a.Answer.Numeric || a.Answer.Num != tt.num || a.Tolerance != tt.tol {
			t.Errorf("%q: answer = %+v tol %v, want %v tol %v", tt.src, a.Answer, a.Tolerance, tt.num, tt.tol)
		}
		if a.Fraction != 1 {
			t.Errorf("%q: fraction = %v", tt.src, a.Fraction)
		}
	}
}

func TestParseNumericalWildcardTail(t *testing.T) {
	q := parseOne(t, "Guess. {#=5:0.5#good ~#nope}")
	if len(q.Answers) != 2 {
		t.Fatalf("answers = %d", len(q.Answers))
	}
	if q.Answers[0].Answer.Num != 5 || q.Answers[0].Feedback.Text != "good" {
		t.Errorf("answers[0] = %+v", q.Answers[0])
	}
	tail := q.Answers[1]
	if !tail.Answer.Wildcard() || tail.Fraction != 0 || tail.Feedback.Text != "nope" {
		t.Errorf("tail = %+v", tail)
	}
}

func TestParseNumericalMalformed(t *testing.T) {
	_, err := Parse("N? {#abc}")
	if !errors.Is(err, gift.ErrMalformedNumeric) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseMatch(t *testing.T) {
	q := parseOne(t, "Match them. {=one -> 1 =two -> 2}")
	if q.Type != quiz.TypeMatch {
		t.Fatalf("type = %q", q.Type)
	}
	if len(q.Subquestions) != 2 {
		t.Fatalf("subquestions = %d", len(q.Subquestions))
	}
	if q.Subquestions[0].QuestionText.Text != "one" || q.Subquestions[0].AnswerText != "1" {
		t.Errorf("subquestions[0] = %+v", q.Subquestions[0])
	}
}

func TestParseMatchErrors(t *testing.T) {
	if _, err := Parse("Match. {=one -> 1}"); !errors.Is(err, gift.ErrInsufficientAlternatives) {
		t.Errorf("one pair: err = %v", err)
	}
	if _, err := Parse("Match. {=one -> 1 =two}"); !errors.Is(err, gift.ErrMissingSeparator) {
		t.Errorf("missing arrow: err = %v", err)
	}
}

func TestParseEssay(t *testing.T) {
	q := parseOne(t, "Discuss the causes. {}")
	if q.Type != quiz.TypeEssay {
		t.Fatalf("type = %q", q.Type)
	}
	if q.ResponseFormat != "editor" || !q.ResponseRequired || q.ResponseFieldLines != 15 {
		t.Errorf("essay defaults = %+v", q)
	}
}

func TestParseDescription(t *testing.T) {
	q := parseOne(t, "Read the next passage carefully.")
	if q.Type != quiz.TypeDescription {
		t.Fatalf("type = %q", q.Type)
	}
	if q.QuestionText.Text != "Read the next passage carefully." {
		t.Errorf("questiontext = %q", q.QuestionText.Text)
	}
}

func TestParseCategory(t *testing.T) {
	q := parseOne(t, "$CATEGORY: top/algebra")
	if q.Type != quiz.TypeCategory || q.Category != "top/algebra" {
		t.Fatalf("q = %+v", q)
	}
}

func TestParseCategoryLineIsOwnBlock(t *testing.T) {
	// no blank line between the category and the next question
	qs, err := Parse("$CATEGORY: top/algebra\nLeftover line {=a =b}")
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 {
		t.Fatalf("questions = %d, want 2", len(qs))
	}
	if qs[0].Type != quiz.TypeCategory || qs[0].Category != "top/algebra" {
		t.Errorf("qs[0] = %+v", qs[0])
	}
	if qs[1].Type != quiz.TypeShortAnswer || len(qs[1].Answers) != 2 {
		t.Errorf("qs[1] = %+v", qs[1])
	}
}

func TestParseCategoryAfterQuestionLine(t *testing.T) {
	qs, err := Parse("First? {=a}\n$CATEGORY: next/topic")
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 {
		t.Fatalf("questions = %d, want 2", len(qs))
	}
	if qs[0].Type != quiz.TypeShortAnswer {
		t.Errorf("qs[0] = %+v", qs[0])
	}
	if qs[1].Type != quiz.TypeCategory || qs[1].Category != "next/topic" {
		t.Errorf("qs[1] = %+v", qs[1])
	}
}

func TestParseBraceMismatch(t *testing.T) {
	_, err := Parse("Broken {")
	if !errors.Is(err, gift.ErrBraceMismatch) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "question 1") {
		t.Errorf("err = %v, want question index", err)
	}
}

func TestParseBatchIsAllOrNothing(t *testing.T) {
	qs, err := Parse("Fine. {=ok}\n\nBroken {")
	if err == nil {
		t.Fatal("err = nil")
	}
	if qs != nil {
		t.Errorf("qs = %v, want nil", qs)
	}
	if !strings.Contains(err.Error(), "question 2") {
		t.Errorf("err = %v, want question 2", err)
	}
}

func TestParseGeneralFeedback(t *testing.T) {
	q := parseOne(t, "Q? {=yes ####Well reasoned.}")
	if q.GeneralFeedback.Text != "Well reasoned." {
		t.Errorf("generalfeedback = %q", q.GeneralFeedback.Text)
	}
	if len(q.Answers) != 1 || q.Answers[0].Answer.Str != "yes" {
		t.Errorf("answers = %+v", q.Answers)
	}
}

func TestParseFillInTheBlank(t *testing.T) {
	q := parseOne(t, "Two plus two equals {=four} exactly.")
	if q.QuestionText.Text != "Two plus two equals _____ exactly." {
		t.Errorf("questiontext = %q", q.QuestionText.Text)
	}
}

func TestParseEscapes(t *testing.T) {
	q := parseOne(t, `::esc::What does \:\= mean? {=\~equals\~}`)
	if q.Name != "esc" {
		t.Errorf("name = %q", q.Name)
	}
	if q.QuestionText.Text != "What does := mean?" {
		t.Errorf("questiontext = %q", q.QuestionText.Text)
	}
	if q.Answers[0].Answer.Str != "~equals~" {
		t.Errorf("answer = %q", q.Answers[0].Answer.Str)
	}
}

func TestParseEscapedNewline(t *testing.T) {
	q := parseOne(t, `Line one\nline two. {=ok}`)
	if q.QuestionText.Text != "Line one\nline two." {
		t.Errorf("questiontext = %q", q.QuestionText.Text)
	}
}

func TestParseFormatTag(t *testing.T) {
	q := parseOne(t, "[html]<p>Pick one.</p> {=a =b}")
	if q.QuestionText.Format != quiz.FormatHTML {
		t.Errorf("format = %q", q.QuestionText.Format)
	}
	if q.QuestionText.Text != "<p>Pick one.</p>" {
		t.Errorf("questiontext = %q", q.QuestionText.Text)
	}
}

func TestParseMetadata(t *testing.T) {
	src := "// [id:CHEM-001] [tag:stoichiometry] [tag:unit-3]\nBalance it. {=done}"
	q := parseOne(t, src)
	if q.IDNumber != "CHEM-001" {
		t.Errorf("idnumber = %q", q.IDNumber)
	}
	want := []string{"stoichiometry", "unit-3"}
	if len(q.Tags) != len(want) {
		t.Fatalf("tags = %v", q.Tags)
	}
	for i := range want {
		if q.Tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, q.Tags[i], want[i])
		}
	}
}

func TestParseCommentsIgnored(t *testing.T) {
	qs, err := Parse("// just a note\n\n// another\nReal question. {=x}")
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 {
		t.Fatalf("questions = %d, want 1 (comment-only block dropped)", len(qs))
	}
}

func TestParseMultipleBlocks(t *testing.T) {
	src := "$CATEGORY: quiz/ch1\n\nFirst? {=a}\n\nSecond. {T}\n"
	qs, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 3 {
		t.Fatalf("questions = %d", len(qs))
	}
	wantTypes := []string{quiz.TypeCategory, quiz.TypeShortAnswer, quiz.TypeTrueFalse}
	for i, w := range wantTypes {
		if qs[i].Type != w {
			t.Errorf("qs[%d].Type = %q, want %q", i, qs[i].Type, w)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"", quiz.TypeEssay},
		{"   ", quiz.TypeEssay},
		{"#5", quiz.TypeNumerical},
		{"~a ~b", quiz.TypeMultichoice},
		{"=a -> b =c -> d", quiz.TypeMatch},
		{"T", quiz.TypeTrueFalse},
		{"true#fb", quiz.TypeTrueFalse},
		{"FALSE", quiz.TypeTrueFalse},
		{"=Paris", quiz.TypeShortAnswer},
		{"=a -> b ~c", quiz.TypeMultichoice}, // "~" outranks match
	}
	for _, tt := range tests {
		if got := classify(lex(tt.body)); got != tt.want {
			t.Errorf("classify(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
