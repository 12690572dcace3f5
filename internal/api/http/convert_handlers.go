package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/quizmesh/giftbridge/internal/formats"
	"github.com/quizmesh/giftbridge/internal/quiz"
)

// POST /convert?from=gift.v1&to=json.v1
// Stateless one-shot conversion: nothing is stored.
func ConvertHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" {
			from = "gift.v1"
		}
		if to == "" {
			to = "json.v1"
		}
		src, ok := formats.Lookup(from)
		if !ok {
			http.Error(w, "unknown profile: "+from+" (have: "+strings.Join(formats.Profiles(), ", ")+")", 400)
			return
		}
		dst, ok := formats.Lookup(to)
		if !ok {
			http.Error(w, "unknown profile: "+to+" (have: "+strings.Join(formats.Profiles(), ", ")+")", 400)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if len(body) > maxUploadBytes {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}

		qs, err := src.Import(r.Context(), bytes.NewReader(body))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}

		rc, err := dst.Export(r.Context(), quiz.Bank{Questions: qs})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", dst.ContentType())
		_, _ = io.Copy(w, rc)
	}
}
