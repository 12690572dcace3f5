package parser

import "strings"

// block is one question's worth of source: its body lines plus the comment
// lines that were diverted out of it.
type block struct {
	lines    []string
	comments []string
}

// segment splits normalized source into question blocks on blank lines.
// Comment lines ("//" prefix) move to the block's comment buffer; their slot
// in the body is kept as a blank line so brace spans keep their positions.
// A "$CATEGORY:" line is a one-line block of its own, whatever surrounds it.
// A trailing partial block is flushed as the final question.
func segment(src string) []block {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "")

	var blocks []block
	var cur block
	hasContent := false

	flush := func() {
		if hasContent {
			blocks = append(blocks, cur)
		}
		cur = block{}
		hasContent = false
	}

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "//"):
			cur.comments = append(cur.comments, strings.TrimPrefix(trimmed, "//"))
			cur.lines = append(cur.lines, "")
		case strings.HasPrefix(trimmed, "$CATEGORY:"):
			flush()
			cur.lines = append(cur.lines, line)
			hasContent = true
			flush()
		default:
			cur.lines = append(cur.lines, line)
			hasContent = true
		}
	}
	flush()
	return blocks
}
