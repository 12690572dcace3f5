package formats_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/quizmesh/giftbridge/internal/formats"
	"github.com/quizmesh/giftbridge/internal/quiz"

	_ "github.com/quizmesh/giftbridge/internal/formats/gift"
	_ "github.com/quizmesh/giftbridge/internal/formats/jsonq"
)

type fakeBank struct {
	id    string
	title string
	qs    []quiz.Question
}

func (f fakeBank) GetID() string                 { return f.id }
func (f fakeBank) GetTitle() string              { return f.title }
func (f fakeBank) GetQuestions() []quiz.Question { return f.qs }

func TestBuiltinProfilesRegistered(t *testing.T) {
	for _, p := range []string{"gift.v1", "json.v1"} {
		if _, ok := formats.Lookup(p); !ok {
			t.Errorf("profile %q not registered (have %v)", p, formats.Profiles())
		}
	}
	if _, ok := formats.Lookup("bogus"); ok {
		t.Error("bogus profile registered")
	}
}

func TestGIFTAdapterImportExport(t *testing.T) {
	ad, ok := formats.Lookup("gift.v1")
	if !ok {
		t.Fatal("gift.v1 not registered")
	}
	ctx := context.Background()

	qs, err := ad.Import(ctx, strings.NewReader("::Q1::Capital of France? {=Paris}"))
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || qs[0].Type != quiz.TypeShortAnswer {
		t.Fatalf("qs = %+v", qs)
	}

	rc, err := ad.Export(ctx, fakeBank{id: "b1", qs: qs})
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	out, _ := io.ReadAll(rc)
	if !strings.Contains(string(out), "::Q1::") || !strings.Contains(string(out), "=Paris") {
		t.Errorf("export = %q", out)
	}
	if ct := ad.ContentType(); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
}

func TestJSONAdapterFillsDefaults(t *testing.T) {
	ad, ok := formats.Lookup("json.v1")
	if !ok {
		t.Fatal("json.v1 not registered")
	}
	src := `[{"qtype":"description","name":"Note","questiontext":{"text":"Read this."}}]`
	qs, err := ad.Import(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if qs[0].QuestionText.Format != quiz.FormatMoodle {
		t.Errorf("format = %q, want default filled", qs[0].QuestionText.Format)
	}
	if qs[0].GeneralFeedback.Format != quiz.FormatMoodle {
		t.Errorf("generalfeedback format = %q", qs[0].GeneralFeedback.Format)
	}
}

func TestCrossProfileConversion(t *testing.T) {
	ctx := context.Background()
	giftAd, _ := formats.Lookup("gift.v1")
	jsonAd, _ := formats.Lookup("json.v1")

	qs, err := giftAd.Import(ctx, strings.NewReader("What is 2+2? {=4 ~3 ~5}"))
	if err != nil {
		t.Fatal(err)
	}
	rc, err := jsonAd.Export(ctx, fakeBank{qs: qs})
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	buf, _ := io.ReadAll(rc)

	back, err := jsonAd.Import(ctx, strings.NewReader(string(buf)))
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].Type != quiz.TypeMultichoice || len(back[0].Answers) != 3 {
		t.Fatalf("back = %+v", back)
	}
	if back[0].Answers[0].Answer.Rich == nil || back[0].Answers[0].Answer.Rich.Text != "4" {
		t.Errorf("answers[0] = %+v", back[0].Answers[0])
	}
}
