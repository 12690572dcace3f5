// Package export renders format-neutral questions back into GIFT text, one
// writer per question variant. It is the lexical inverse of the parser: all
// literal text passes through Escape before emission.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quizmesh/giftbridge/internal/gift"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

// Escape makes literal text safe for GIFT emission: the exact inverse of the
// parser's escape reader. Carriage returns are dropped outright.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', ':', '#', '=', '{', '}', '~':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Build renders a batch of questions, blank-line separated. The input is a
// borrowed view: questions may come from the parser or from hand-authored
// JSON and are never mutated.
func Build(qs []quiz.Question) (string, error) {
	var b strings.Builder
	for i, q := range qs {
		s, err := render(i+1, q)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func render(seq int, q quiz.Question) (string, error) {
	if q.Type == quiz.TypeCategory {
		return "$CATEGORY: " + q.Category + "\n", nil
	}

	name := q.Name
	if name == "" {
		name = quiz.DefaultName(q.QuestionText.Text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// question: %d  name: %s\n", seq, name)
	if meta := metaComment(q); meta != "" {
		b.WriteString(meta)
	}
	fmt.Fprintf(&b, "::%s::", Escape(name))
	b.WriteString(renderText(q.QuestionText))

	switch q.Type {
	case quiz.TypeDescription:
		b.WriteString("\n")
	case quiz.TypeEssay:
		b.WriteString("{\n")
		writeGeneral(&b, q.GeneralFeedback)
		b.WriteString("}\n")
	case quiz.TypeTrueFalse:
		writeTrueFalse(&b, q)
	case quiz.TypeMultichoice:
		writeMultichoice(&b, q)
	case quiz.TypeShortAnswer:
		writeShortAnswer(&b, q)
	case quiz.TypeNumerical:
		writeNumerical(&b, q)
	case quiz.TypeMatch:
		writeMatch(&b, q)
	default:
		return "", fmt.Errorf("%w: %q", gift.ErrUnsupportedVariant, q.Type)
	}
	return b.String(), nil
}

func writeTrueFalse(b *strings.Builder, q quiz.Question) {
	verdict := "FALSE"
	if q.CorrectAnswer {
		verdict = "TRUE"
	}
	fbTrue := derefText(q.FeedbackTrue)
	fbFalse := derefText(q.FeedbackFalse)
	// first feedback slot belongs to the incorrect choice
	wrong, right := fbFalse, fbTrue
	if !q.CorrectAnswer {
		wrong, right = fbTrue, fbFalse
	}
	b.WriteString("{")
	b.WriteString(verdict)
	if !wrong.Empty() || !right.Empty() {
		b.WriteString("#")
		b.WriteString(renderText(wrong))
	}
	if !right.Empty() {
		b.WriteString("#")
		b.WriteString(renderText(right))
	}
	if !q.GeneralFeedback.Norm().Empty() {
		b.WriteString("\n####")
		b.WriteString(renderText(q.GeneralFeedback))
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

func writeMultichoice(b *strings.Builder, q quiz.Question) {
	b.WriteString("{\n")
	for _, a := range q.Answers {
		b.WriteString("\t")
		switch {
		case a.Fraction == 1 && q.Single:
			b.WriteString("=")
		case a.Fraction == 0:
			b.WriteString("~")
		default:
			fmt.Fprintf(b, "~%%%s%%", weight(a.Fraction))
		}
		b.WriteString(renderValue(a.Answer))
		writeFeedback(b, a.Feedback)
		b.WriteString("\n")
	}
	writeGeneral(b, q.GeneralFeedback)
	b.WriteString("}\n")
}

func writeShortAnswer(b *strings.Builder, q quiz.Question) {
	b.WriteString("{\n")
	for _, a := range q.Answers {
		b.WriteString("\t=")
		if a.Fraction != 1 {
			fmt.Fprintf(b, "%%%s%%", weight(a.Fraction))
		}
		b.WriteString(renderValue(a.Answer))
		writeFeedback(b, a.Feedback)
		b.WriteString("\n")
	}
	writeGeneral(b, q.GeneralFeedback)
	b.WriteString("}\n")
}

func writeNumerical(b *strings.Builder, q quiz.Question) {
	b.WriteString("{#\n")
	// the catch-all entry must close the span: the parser reads everything
	// after the first "~" as the wildcard tail
	var tail *quiz.Answer
	for i, a := range q.Answers {
		if tail == nil && a.Answer.Wildcard() && a.Fraction == 0 {
			tail = &q.Answers[i]
			continue
		}
		b.WriteString("\t=")
		if a.Fraction != 1 {
			fmt.Fprintf(b, "%%%s%%", weight(a.Fraction))
		}
		b.WriteString(renderValue(a.Answer))
		if a.Tolerance != 0 {
			b.WriteString(":")
			b.WriteString(num(a.Tolerance))
		}
		writeFeedback(b, a.Feedback)
		b.WriteString("\n")
	}
	if tail != nil {
		b.WriteString("\t~")
		writeFeedback(b, tail.Feedback)
		b.WriteString("\n")
	}
	writeGeneral(b, q.GeneralFeedback)
	b.WriteString("}\n")
}

func writeMatch(b *strings.Builder, q quiz.Question) {
	b.WriteString("{\n")
	for _, s := range q.Subquestions {
		fmt.Fprintf(b, "\t=%s -> %s\n", renderText(s.QuestionText), Escape(s.AnswerText))
	}
	writeGeneral(b, q.GeneralFeedback)
	b.WriteString("}\n")
}

func writeFeedback(b *strings.Builder, fb quiz.Text) {
	if fb.Norm().Empty() {
		return
	}
	b.WriteString("#")
	b.WriteString(renderText(fb))
}

func writeGeneral(b *strings.Builder, gf quiz.Text) {
	if gf.Norm().Empty() {
		return
	}
	b.WriteString("####")
	b.WriteString(renderText(gf))
	b.WriteString("\n")
}

// renderText emits a Text span: format tag first (moodle is the default and
// stays implicit), then the escaped text.
func renderText(t quiz.Text) string {
	t = t.Norm()
	prefix := ""
	if t.Format != quiz.FormatMoodle {
		prefix = "[" + string(t.Format) + "]"
	}
	return prefix + Escape(t.Text)
}

func renderValue(v quiz.AnswerValue) string {
	switch {
	case v.Rich != nil:
		return renderText(*v.Rich)
	case v.Numeric:
		return num(v.Num)
	default:
		return Escape(v.Str)
	}
}

func num(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// weight renders a fraction as its percentage form. Plain decimal notation
// only: the parser's %w% reader does not accept exponents.
func weight(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', -1, 64)
}

func metaComment(q quiz.Question) string {
	if q.IDNumber == "" && len(q.Tags) == 0 {
		return ""
	}
	parts := make([]string, 0, 1+len(q.Tags))
	if q.IDNumber != "" {
		parts = append(parts, "[id:"+metaEscape(q.IDNumber)+"]")
	}
	for _, t := range q.Tags {
		parts = append(parts, "[tag:"+metaEscape(t)+"]")
	}
	return "// " + strings.Join(parts, " ") + "\n"
}

func metaEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "]", `\]`)
}

func derefText(t *quiz.Text) quiz.Text {
	if t == nil {
		return quiz.NewText("")
	}
	return t.Norm()
}
