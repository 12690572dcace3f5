// Package gift registers the GIFT text profile with the formats registry.
package gift

import (
	"context"
	"io"
	"strings"

	"github.com/quizmesh/giftbridge/internal/formats"
	"github.com/quizmesh/giftbridge/internal/gift/export"
	"github.com/quizmesh/giftbridge/internal/gift/parser"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

// Register adapter at init
func init() {
	formats.Register("gift.v1", New())
}

type AdapterGIFT struct{}

func New() *AdapterGIFT { return &AdapterGIFT{} }

func (a *AdapterGIFT) Import(ctx context.Context, r io.Reader) ([]quiz.Question, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parser.Parse(string(src))
}

func (a *AdapterGIFT) Export(ctx context.Context, b formats.BankLike) (io.ReadCloser, error) {
	out, err := export.Build(b.GetQuestions())
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(out)), nil
}

func (a *AdapterGIFT) ContentType() string { return "text/plain; charset=utf-8" }
