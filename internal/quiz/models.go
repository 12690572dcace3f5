package quiz

import (
	"encoding/json"
	"regexp"
	"strings"
)

// TextFormat is the rich-text encoding of a Text span. Formats are tracked as
// opaque tags and never interpreted.
type TextFormat string

const (
	FormatMoodle   TextFormat = "moodle"
	FormatHTML     TextFormat = "html"
	FormatPlain    TextFormat = "plain"
	FormatMarkdown TextFormat = "markdown"
)

// Text is a text span with its format tag.
type Text struct {
	Text   string     `json:"text"`
	Format TextFormat `json:"format"`
}

// NewText wraps s with the default (moodle) format.
func NewText(s string) Text { return Text{Text: s, Format: FormatMoodle} }

// Norm fills in the default format. Hand-authored JSON may omit it.
func (t Text) Norm() Text {
	if t.Format == "" {
		t.Format = FormatMoodle
	}
	return t
}

func (t Text) Empty() bool { return t.Text == "" }

// Question types.
const (
	TypeCategory    = "category"
	TypeDescription = "description"
	TypeEssay       = "essay"
	TypeMultichoice = "multichoice"
	TypeMatch       = "match"
	TypeTrueFalse   = "truefalse"
	TypeShortAnswer = "shortanswer"
	TypeNumerical   = "numerical"
)

// AnswerValue is the payload of one graded alternative. Depending on the
// question type it is rich text (multichoice), a bare string (shortanswer),
// a number (numerical) or the wildcard "*" (numerical catch-all). It
// serializes to whichever JSON shape matches.
type AnswerValue struct {
	Rich    *Text
	Str     string
	Num     float64
	Numeric bool
}

func RichAnswer(t Text) AnswerValue      { return AnswerValue{Rich: &t} }
func StringAnswer(s string) AnswerValue  { return AnswerValue{Str: s} }
func NumberAnswer(f float64) AnswerValue { return AnswerValue{Num: f, Numeric: true} }
func WildcardAnswer() AnswerValue        { return AnswerValue{Str: "*"} }

func (v AnswerValue) Wildcard() bool {
	return v.Rich == nil && !v.Numeric && v.Str == "*"
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Rich != nil:
		return json.Marshal(v.Rich)
	case v.Numeric:
		return json.Marshal(v.Num)
	default:
		return json.Marshal(v.Str)
	}
}

func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "{") {
		var t Text
		if err := json.Unmarshal(b, &t); err != nil {
			return err
		}
		t = t.Norm()
		*v = AnswerValue{Rich: &t}
		return nil
	}
	if strings.HasPrefix(s, "\"") {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = AnswerValue{Str: str}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = AnswerValue{Num: f, Numeric: true}
	return nil
}

// Answer is one graded alternative of a multichoice, shortanswer or numerical
// question. Fraction is a signed weight in [-1,1] (percentage / 100).
type Answer struct {
	Answer    AnswerValue `json:"answer"`
	Tolerance float64     `json:"tolerance,omitempty"`
	Fraction  float64     `json:"fraction"`
	Feedback  Text        `json:"feedback"`
}

// Subquestion is one left/right pair of a match question.
type Subquestion struct {
	QuestionText Text   `json:"questiontext"`
	AnswerText   string `json:"answertext"`
}

// Question is the format-neutral question representation. Type discriminates
// which of the variant fields are populated. A Question is produced whole by
// one parse of one source block and is treated as an immutable value.
type Question struct {
	Type            string   `json:"qtype"`
	Name            string   `json:"name,omitempty"`
	QuestionText    Text     `json:"questiontext"`
	GeneralFeedback Text     `json:"generalfeedback"`
	IDNumber        string   `json:"idnumber,omitempty"`
	Tags            []string `json:"tags,omitempty"`

	// category
	Category string `json:"category,omitempty"`

	// multichoice / shortanswer / numerical
	Single  bool     `json:"single,omitempty"`
	Answers []Answer `json:"answers,omitempty"`

	// match
	Subquestions []Subquestion `json:"subquestions,omitempty"`

	// truefalse
	CorrectAnswer bool    `json:"correctanswer,omitempty"`
	FeedbackTrue  *Text   `json:"feedbacktrue,omitempty"`
	FeedbackFalse *Text   `json:"feedbackfalse,omitempty"`
	Penalty       float64 `json:"penalty,omitempty"`

	// essay response defaults
	ResponseFormat     string `json:"responseformat,omitempty"`
	ResponseRequired   bool   `json:"responserequired,omitempty"`
	ResponseFieldLines int    `json:"responsefieldlines,omitempty"`
	Attachments        int    `json:"attachments,omitempty"`
}

// ApplyEssayDefaults sets the fixed response configuration of an essay.
func (q *Question) ApplyEssayDefaults() {
	q.ResponseFormat = "editor"
	q.ResponseRequired = true
	q.ResponseFieldLines = 15
	q.Attachments = 0
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// DefaultName derives a question name from its text: the first 30 runes of
// the tag-stripped text, or "Question" when that leaves nothing.
func DefaultName(text string) string {
	s := strings.TrimSpace(htmlTagRe.ReplaceAllString(text, ""))
	r := []rune(s)
	if len(r) > 30 {
		s = string(r[:30])
	}
	if s == "" {
		return "Question"
	}
	return s
}

// Bank is a stored collection of questions, the unit the gateway serves.
type Bank struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"created_at,omitempty"`
}
