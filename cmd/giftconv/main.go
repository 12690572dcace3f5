// giftconv converts between GIFT text and the neutral JSON question model.
//
//	giftconv parse  input.gift [output.json]
//	giftconv export input.json [output.gift]
//
// With no output path the result goes to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quizmesh/giftbridge/internal/gift/export"
	"github.com/quizmesh/giftbridge/internal/gift/parser"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

func main() {
	cmd, in, out, ok := parseArgs(os.Args)
	if !ok {
		usage()
		os.Exit(2)
	}

	src, err := os.ReadFile(in)
	if err != nil {
		fail(err)
	}

	var result []byte
	switch cmd {
	case "parse":
		qs, err := parser.Parse(string(src))
		if err != nil {
			fail(err)
		}
		result, err = json.MarshalIndent(qs, "", "  ")
		if err != nil {
			fail(err)
		}
		result = append(result, '\n')
	case "export":
		var qs []quiz.Question
		if err := json.Unmarshal(src, &qs); err != nil {
			fail(err)
		}
		for i := range qs {
			if qs[i].Type == quiz.TypeEssay {
				qs[i].ApplyEssayDefaults()
			}
		}
		text, err := export.Build(qs)
		if err != nil {
			fail(err)
		}
		result = []byte(text)
	}

	if out == "" {
		_, _ = os.Stdout.Write(result)
		return
	}
	if err := os.WriteFile(out, result, 0o644); err != nil {
		fail(err)
	}
}

// parseArgs validates argv: exactly one known verb, an input path and an
// optional output path. Anything else is a usage error.
func parseArgs(args []string) (cmd, in, out string, ok bool) {
	if len(args) < 3 || len(args) > 4 {
		return "", "", "", false
	}
	cmd, in = args[1], args[2]
	if cmd != "parse" && cmd != "export" {
		return "", "", "", false
	}
	if len(args) == 4 {
		out = args[3]
	}
	return cmd, in, out, true
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: giftconv parse|export <input> [output]")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "giftconv:", err)
	os.Exit(1)
}
