package parser

import "strings"

// The GIFT reserved characters double as syntax and literal content,
// disambiguated by backslash escapes. A single forward scan resolves escapes
// into literal text runs and leaves unescaped reserved characters as symbol
// tokens, so the structural passes below never confuse the two.

type tokKind uint8

const (
	tokText tokKind = iota // literal run, escapes already resolved
	tokSym                 // one unescaped reserved character
)

type tok struct {
	kind tokKind
	val  string
}

const reserved = ":#={}~"

func isReserved(c byte) bool { return strings.IndexByte(reserved, c) >= 0 }

// lex scans s into text runs and symbol tokens. A backslash before a reserved
// character, a backslash or "n" yields the literal character ("n" yields a
// newline); any other backslash stays as-is.
func lex(s string) []tok {
	var out []tok
	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			out = append(out, tok{tokText, run.String()})
			run.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			switch n := s[i+1]; {
			case n == '\\' || isReserved(n):
				run.WriteByte(n)
				i++
			case n == 'n':
				run.WriteByte('\n')
				i++
			default:
				run.WriteByte(c)
			}
		case isReserved(c):
			flush()
			out = append(out, tok{tokSym, string(c)})
		default:
			run.WriteByte(c)
		}
	}
	flush()
	return out
}

// text reassembles the literal text of a span. Symbols that survived to this
// point are plain characters in the output.
func text(ts []tok) string {
	var b strings.Builder
	for _, t := range ts {
		b.WriteString(t.val)
	}
	return b.String()
}

func isSym(t tok, c byte) bool { return t.kind == tokSym && t.val[0] == c }

func indexSym(ts []tok, c byte) int {
	for i, t := range ts {
		if isSym(t, c) {
			return i
		}
	}
	return -1
}

func lastIndexSym(ts []tok, c byte) int {
	for i := len(ts) - 1; i >= 0; i-- {
		if isSym(ts[i], c) {
			return i
		}
	}
	return -1
}

func hasSym(ts []tok, c byte) bool { return indexSym(ts, c) >= 0 }

// splitSym splits ts on every occurrence of the symbol c.
func splitSym(ts []tok, c byte) [][]tok {
	var parts [][]tok
	start := 0
	for i, t := range ts {
		if isSym(t, c) {
			parts = append(parts, ts[start:i])
			start = i + 1
		}
	}
	return append(parts, ts[start:])
}

// splitFirstSym splits at the first occurrence of c. The second span is nil
// when c is absent.
func splitFirstSym(ts []tok, c byte) ([]tok, []tok) {
	if i := indexSym(ts, c); i >= 0 {
		return ts[:i], ts[i+1:]
	}
	return ts, nil
}

// dropBlank removes whitespace-only spans, as the grammar's "split and drop
// empties" steps require.
func dropBlank(parts [][]tok) [][]tok {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(text(p)) != "" {
			out = append(out, p)
		}
	}
	return out
}

// trimTokens trims surrounding whitespace from a span, rewriting the boundary
// text tokens when they are partially blank.
func trimTokens(ts []tok) []tok {
	for len(ts) > 0 {
		t := ts[0]
		if t.kind == tokSym {
			break
		}
		v := strings.TrimLeft(t.val, " \t\n")
		if v == "" {
			ts = ts[1:]
			continue
		}
		if v != t.val {
			ts = append([]tok{{tokText, v}}, ts[1:]...)
		}
		break
	}
	for len(ts) > 0 {
		t := ts[len(ts)-1]
		if t.kind == tokSym {
			break
		}
		v := strings.TrimRight(t.val, " \t\n")
		if v == "" {
			ts = ts[:len(ts)-1]
			continue
		}
		if v != t.val {
			ts = append(append([]tok{}, ts[:len(ts)-1]...), tok{tokText, v})
		}
		break
	}
	return ts
}

// lastFeedbackMark finds the start of the last "####" run (four consecutive
// hash symbols), the general-feedback separator. Returns -1 when absent.
func lastFeedbackMark(ts []tok) int {
	for i := len(ts) - 4; i >= 0; i-- {
		if isSym(ts[i], '#') && isSym(ts[i+1], '#') && isSym(ts[i+2], '#') && isSym(ts[i+3], '#') {
			return i
		}
	}
	return -1
}
