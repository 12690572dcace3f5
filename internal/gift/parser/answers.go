package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/quizmesh/giftbridge/internal/gift"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

var weightRe = regexp.MustCompile(`^\s*%(-?\d+(?:\.\d+)?)%`)

// takeWeight strips a leading %w% percentage prefix, returning the weight as
// a fraction of 1, clamped to [-1,1]. def applies when no prefix is present.
func takeWeight(ts []tok, def float64) (float64, []tok) {
	if len(ts) == 0 || ts[0].kind != tokText {
		return def, ts
	}
	m := weightRe.FindStringSubmatch(ts[0].val)
	if m == nil {
		return def, ts
	}
	w, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return def, ts
	}
	w /= 100
	if w > 1 {
		w = 1
	}
	if w < -1 {
		w = -1
	}
	rest := ts[0].val[len(m[0]):]
	out := append([]tok{}, ts...)
	if rest == "" {
		out = out[1:]
	} else {
		out[0] = tok{tokText, rest}
	}
	return w, out
}

type alternative struct {
	correct bool
	ts      []tok
}

// alternatives splits a multichoice body at every "~" and "=" marker (the
// grammar's "rewrite = to ~= then split on ~" step), dropping blank pieces.
func alternatives(ts []tok) []alternative {
	var out []alternative
	cur := alternative{}
	flush := func() {
		if strings.TrimSpace(text(cur.ts)) != "" {
			out = append(out, cur)
		}
	}
	for _, t := range ts {
		if t.kind == tokSym && (t.val == "~" || t.val == "=") {
			flush()
			cur = alternative{correct: t.val == "="}
			continue
		}
		cur.ts = append(cur.ts, t)
	}
	flush()
	return out
}

func parseMultichoice(ts []tok) (bool, []quiz.Answer, error) {
	single := false
	var answers []quiz.Answer
	for _, alt := range alternatives(ts) {
		var w float64
		rest := alt.ts
		if alt.correct {
			w = 1
			single = true
		} else {
			w, rest = takeWeight(rest, 0)
		}
		ansToks, fbToks := splitFirstSym(rest, '#')
		answers = append(answers, quiz.Answer{
			Answer:   quiz.RichAnswer(parseText(ansToks)),
			Fraction: w,
			Feedback: parseText(fbToks),
		})
	}
	if len(answers) < 2 {
		return false, nil, fmt.Errorf("%w: multichoice needs at least 2", gift.ErrInsufficientAlternatives)
	}
	return single, answers, nil
}

func parseMatch(ts []tok) ([]quiz.Subquestion, error) {
	parts := dropBlank(splitSym(ts, '='))
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: match needs at least 2 pairs", gift.ErrInsufficientAlternatives)
	}
	subs := make([]quiz.Subquestion, 0, len(parts))
	for _, p := range parts {
		left, right, ok := splitArrow(p)
		if !ok {
			return nil, fmt.Errorf("%w: %q", gift.ErrMissingSeparator, strings.TrimSpace(text(p)))
		}
		subs = append(subs, quiz.Subquestion{
			QuestionText: parseText(left),
			AnswerText:   strings.TrimSpace(text(right)),
		})
	}
	return subs, nil
}

// splitArrow splits a match pair at the first "->", which always sits inside
// a literal text run ("-" and ">" are not reserved characters).
func splitArrow(ts []tok) ([]tok, []tok, bool) {
	for i, t := range ts {
		if t.kind != tokText {
			continue
		}
		if j := strings.Index(t.val, "->"); j >= 0 {
			left := append(append([]tok{}, ts[:i]...), tok{tokText, t.val[:j]})
			right := append([]tok{{tokText, t.val[j+2:]}}, ts[i+1:]...)
			return left, right, true
		}
	}
	return nil, nil, false
}

// parseTrueFalse reads up to three "#"-separated parts: the verdict, then the
// feedback for the incorrect choice, then the feedback for the correct one.
func parseTrueFalse(ts []tok, q *quiz.Question) {
	verdictToks, rest := splitFirstSym(ts, '#')
	wrongToks, rightToks := splitFirstSym(rest, '#')

	verdict := strings.ToUpper(strings.TrimSpace(text(verdictToks)))
	correct := verdict == "T" || verdict == "TRUE"
	wrong := parseText(wrongToks)
	right := parseText(rightToks)

	fbTrue, fbFalse := right, wrong
	if !correct {
		fbTrue, fbFalse = wrong, right
	}
	q.CorrectAnswer = correct
	q.FeedbackTrue = &fbTrue
	q.FeedbackFalse = &fbFalse
	q.Penalty = 1
}

func parseShortAnswer(ts []tok) ([]quiz.Answer, error) {
	parts := dropBlank(splitSym(ts, '='))
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: shortanswer needs at least 1", gift.ErrInsufficientAlternatives)
	}
	answers := make([]quiz.Answer, 0, len(parts))
	for _, p := range parts {
		w, rest := takeWeight(p, 1)
		ansToks, fbToks := splitFirstSym(rest, '#')
		answers = append(answers, quiz.Answer{
			Answer:   quiz.StringAnswer(strings.TrimSpace(text(ansToks))),
			Fraction: w,
			Feedback: parseText(fbToks),
		})
	}
	return answers, nil
}

func parseNumerical(ts []tok) ([]quiz.Answer, error) {
	ts = trimTokens(ts)
	if len(ts) > 0 && isSym(ts[0], '#') {
		ts = ts[1:]
	}

	// Everything from a "~" onward is the trailing catch-all entry: its own
	// feedback-suffixed piece, appended last with the "*" wildcard answer.
	var wildcard *quiz.Answer
	if i := indexSym(ts, '~'); i >= 0 {
		_, fbToks := splitFirstSym(ts[i+1:], '#')
		wildcard = &quiz.Answer{Answer: quiz.WildcardAnswer(), Fraction: 0, Feedback: parseText(fbToks)}
		ts = ts[:i]
	}

	parts := dropBlank(splitSym(ts, '='))
	if len(parts) == 0 && wildcard == nil {
		return nil, fmt.Errorf("%w: numerical needs at least 1", gift.ErrInsufficientAlternatives)
	}
	var answers []quiz.Answer
	for _, p := range parts {
		w, rest := takeWeight(p, 1)
		valToks, fbToks := splitFirstSym(rest, '#')
		a, err := numericValue(valToks)
		if err != nil {
			return nil, err
		}
		a.Fraction = w
		a.Feedback = parseText(fbToks)
		answers = append(answers, a)
	}
	if wildcard != nil {
		answers = append(answers, *wildcard)
	}
	return answers, nil
}

// numericValue interprets one numerical answer spec: "a..b" is a range
// (midpoint plus half-width tolerance), "a:t" a value/tolerance pair, and
// anything else a bare number or the "*" wildcard.
func numericValue(ts []tok) (quiz.Answer, error) {
	s := strings.TrimSpace(text(ts))
	if i := strings.Index(s, ".."); i >= 0 {
		lo, err := parseNum(s[:i])
		if err != nil {
			return quiz.Answer{}, err
		}
		hi, err := parseNum(s[i+2:])
		if err != nil {
			return quiz.Answer{}, err
		}
		return quiz.Answer{Answer: quiz.NumberAnswer((lo + hi) / 2), Tolerance: (hi - lo) / 2}, nil
	}
	if i := indexSym(ts, ':'); i >= 0 {
		v, err := parseNum(text(ts[:i]))
		if err != nil {
			return quiz.Answer{}, err
		}
		tol, err := parseNum(text(ts[i+1:]))
		if err != nil {
			return quiz.Answer{}, err
		}
		return quiz.Answer{Answer: quiz.NumberAnswer(v), Tolerance: tol}, nil
	}
	if s == "*" {
		return quiz.Answer{Answer: quiz.WildcardAnswer()}, nil
	}
	v, err := parseNum(s)
	if err != nil {
		return quiz.Answer{}, err
	}
	return quiz.Answer{Answer: quiz.NumberAnswer(v)}, nil
}

func parseNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", gift.ErrMalformedNumeric, s)
	}
	return v, nil
}
