package parser

import (
	"regexp"
	"strings"
)

// Metadata rides in comment lines as bracketed annotations:
//
//	// [id:CHEM-001] [tag:stoichiometry] [tag:unit\]3]
//
// A "\]" inside the captured content is a literal bracket.
var (
	idRe  = regexp.MustCompile(`\[id:((?:\\.|[^\]\\])*)\]`)
	tagRe = regexp.MustCompile(`\[tag:((?:\\.|[^\]\\])*)\]`)
)

// extractMeta pulls the identifier (first match wins) and tags (in order)
// out of a block's accumulated comment buffer.
func extractMeta(comments []string) (idnumber string, tags []string) {
	joined := strings.Join(comments, "\n")
	if m := idRe.FindStringSubmatch(joined); m != nil {
		idnumber = unescapeMeta(m[1])
	}
	for _, m := range tagRe.FindAllStringSubmatch(joined, -1) {
		tags = append(tags, unescapeMeta(m[1]))
	}
	return idnumber, tags
}

func unescapeMeta(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
