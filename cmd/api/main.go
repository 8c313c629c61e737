package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	"github.com/tweetlead/backend/internal/ai"
	"github.com/tweetlead/backend/internal/handlers"
	"github.com/tweetlead/backend/internal/pipeline"
	"github.com/tweetlead/backend/internal/relevance"
	"github.com/tweetlead/backend/internal/store"
	"github.com/tweetlead/backend/internal/twitter"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Run migrations on startup
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to init migration driver: %v", err)
	}
	migrator, err := migrate.NewWithDatabaseInstance("file://db/migrations", "postgres", driver)
	if err != nil {
		log.Fatalf("Failed to create migrator: %v", err)
	}
	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Database migration failed: %v", err)
	}
	log.Println("Database is up-to-date")

	st := store.New(db)

	if os.Getenv("SEED_DATA") != "false" {
		if err := st.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Search capability: real X API when a bearer token is configured,
	// otherwise the deterministic mock so the dashboard works offline.
	var searcher twitter.Searcher
	if token := os.Getenv("TWITTER_BEARER_TOKEN"); token != "" {
		searcher = twitter.NewHTTPClient(token)
	} else {
		log.Println("[Monitor] TWITTER_BEARER_TOKEN not set, using mock search")
		searcher = twitter.MockSearcher{}
	}

	gen := ai.NewClientFromEnv()
	ingestor := &pipeline.Ingestor{
		Search: searcher,
		Scorer: &relevance.Scorer{Gen: gen},
		Store:  st,
	}
	contentGen := &pipeline.ContentGenerator{Gen: gen, Store: st}

	h := handlers.New(st, ingestor, contentGen)

	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/api/dashboard/stats", h.GetDashboardStats).Methods("GET")
	r.HandleFunc("/api/tweets/monitor", h.MonitorTweets).Methods("POST")
	r.HandleFunc("/api/tweets", h.ListTweets).Methods("GET")
	r.HandleFunc("/api/content/generate", h.GenerateContent).Methods("POST")
	r.HandleFunc("/api/content", h.ListContent).Methods("GET")
	r.HandleFunc("/api/leads", h.ListLeads).Methods("GET")
	r.HandleFunc("/api/leads", h.CreateLead).Methods("POST")
	r.HandleFunc("/api/leads/{id}", h.UpdateLead).Methods("PATCH")

	// CORS middleware; the dashboard frontend is served elsewhere.
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	port := resolvePort(os.Getenv)

	srv := &http.Server{
		Handler:      c.Handler(r),
		Addr:         ":" + port,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-stop
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func resolvePort(getenv func(string) string) string {
	if p := getenv("PORT"); p != "" {
		return p
	}
	return "18920"
}
