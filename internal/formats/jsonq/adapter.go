// Package jsonq registers the JSON interchange profile: an ordered sequence
// of question objects, the serialized form of the neutral model itself.
package jsonq

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/quizmesh/giftbridge/internal/formats"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

func init() {
	formats.Register("json.v1", New())
}

type AdapterJSON struct{}

func New() *AdapterJSON { return &AdapterJSON{} }

func (a *AdapterJSON) Import(ctx context.Context, r io.Reader) ([]quiz.Question, error) {
	var qs []quiz.Question
	if err := json.NewDecoder(r).Decode(&qs); err != nil {
		return nil, err
	}
	// hand-authored JSON may omit format tags; fill defaults once on entry
	for i := range qs {
		qs[i].QuestionText = qs[i].QuestionText.Norm()
		qs[i].GeneralFeedback = qs[i].GeneralFeedback.Norm()
	}
	return qs, nil
}

func (a *AdapterJSON) Export(ctx context.Context, b formats.BankLike) (io.ReadCloser, error) {
	buf, err := json.MarshalIndent(b.GetQuestions(), "", "  ")
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

func (a *AdapterJSON) ContentType() string { return "application/json" }
