package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/quizmesh/giftbridge/internal/api/http"
	auth "github.com/quizmesh/giftbridge/internal/auth/middleware"
	"github.com/quizmesh/giftbridge/internal/config"
	"github.com/quizmesh/giftbridge/internal/db"
	"github.com/quizmesh/giftbridge/internal/quiz"
	"github.com/quizmesh/giftbridge/internal/rbac"
	"github.com/quizmesh/giftbridge/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	// interchange profiles register themselves
	_ "github.com/quizmesh/giftbridge/internal/formats/gift"
	_ "github.com/quizmesh/giftbridge/internal/formats/jsonq"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Auth (local JWT for offline/dev) ---
	authSvc := auth.NewAuthService(cfg.JWTSecret)
	accounts := []auth.LocalAccount{
		{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"},
		{Username: cfg.AuthorUser, PassHash: cfg.AuthorPassHash, Role: "author"},
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Local login (enabled in offline mode by default; can be enabled online via env)
	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, accounts))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("bank:import")).
			Post("/banks/import", api.ImportBankHandler(store, bs))
		pr.With(rbac.Require("bank:list")).
			Get("/banks", api.ListBanksHandler(store))
		pr.With(rbac.Require("bank:view")).
			Get("/banks/{id}", api.GetBankHandler(store))
		pr.With(rbac.Require("bank:delete")).
			Delete("/banks/{id}", api.DeleteBankHandler(store))
		pr.With(rbac.Require("bank:export")).
			Get("/banks/{id}/export", api.ExportBankHandler(store))
		pr.With(rbac.RequireAny("source:view", "bank:export")).
			Get("/banks/{id}/source", api.GetSourceHandler(store, bs))

		pr.With(rbac.Require("convert")).
			Post("/convert", api.ConvertHandler())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
