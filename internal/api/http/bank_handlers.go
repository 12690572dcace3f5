package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizmesh/giftbridge/internal/formats"
	"github.com/quizmesh/giftbridge/internal/quiz"
	"github.com/quizmesh/giftbridge/internal/storage"
)

const maxUploadBytes = 8 << 20 // 8 MiB per upload

// POST /banks/import?profile=gift.v1&title=...
// Body is the raw source payload in the given profile.
func ImportBankHandler(store quiz.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := r.URL.Query().Get("profile")
		if profile == "" {
			profile = "gift.v1"
		}
		ad, ok := formats.Lookup(profile)
		if !ok {
			http.Error(w, "unknown profile: "+profile+" (have: "+strings.Join(formats.Profiles(), ", ")+")", 400)
			return
		}

		src, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if len(src) > maxUploadBytes {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}

		qs, err := ad.Import(r.Context(), bytes.NewReader(src))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}

		b := quiz.Bank{
			ID:        uuid.NewString(),
			Title:     r.URL.Query().Get("title"),
			Questions: qs,
			CreatedAt: time.Now().Unix(),
		}
		if b.Title == "" {
			b.Title = "Imported " + time.Now().Format("2006-01-02 15:04")
		}

		// keep the original text so authors can re-download it untouched
		if _, err := bs.Put("sources/"+b.ID, bytes.NewReader(src)); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if err := store.PutBank(r.Context(), b); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"bank_id":        b.ID,
			"question_count": len(b.Questions),
		})
	}
}

// GET /banks?q=&limit=&offset=
func ListBanksHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.ListOpts{Q: r.URL.Query().Get("q")}
		if v := r.URL.Query().Get("limit"); v != "" {
			opts.Limit, _ = strconv.Atoi(v)
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			opts.Offset, _ = strconv.Atoi(v)
		}
		out, err := store.ListBanks(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// GET /banks/{id}
func GetBankHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := store.GetBank(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				http.Error(w, "not found", 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b)
	}
}

// DELETE /banks/{id}
func DeleteBankHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteBank(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				http.Error(w, "not found", 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /banks/{id}/export?profile=gift.v1
func ExportBankHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		profile := r.URL.Query().Get("profile")
		if profile == "" {
			profile = "gift.v1"
		}
		ad, ok := formats.Lookup(profile)
		if !ok {
			http.Error(w, "unknown profile: "+profile+" (have: "+strings.Join(formats.Profiles(), ", ")+")", 400)
			return
		}

		b, err := store.GetBank(r.Context(), id)
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				http.Error(w, "not found", 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}

		rc, err := ad.Export(r.Context(), b)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", ad.ContentType())
		w.Header().Set("Content-Disposition", "attachment; filename=\""+id+exportExt(profile)+"\"")
		_, _ = io.Copy(w, rc)
	}
}

// GET /banks/{id}/source
// Returns the untouched payload the bank was imported from.
func GetSourceHandler(store quiz.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := store.GetBank(r.Context(), id); err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				http.Error(w, "not found", 404)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		rc, err := bs.Get("sources/" + id)
		if err != nil {
			http.Error(w, "source not found", 404)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.Copy(w, rc)
	}
}

func exportExt(profile string) string {
	switch {
	case strings.HasPrefix(profile, "gift"):
		return ".gift"
	case strings.HasPrefix(profile, "json"):
		return ".json"
	default:
		return ".txt"
	}
}
