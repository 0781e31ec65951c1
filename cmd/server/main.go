package main

import (
	"flag"
	"log"
	"net/http"

	"fieldscope/internal/api"
	"fieldscope/internal/config"
	"fieldscope/internal/service"
	"fieldscope/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "Path to the server config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lookup, err := config.LoadDefinitionLookup(cfg.DefinitionsFile)
	if err != nil {
		log.Fatalf("Failed to load definition lookup: %v", err)
	}

	// Initialize Session + Services
	session := state.NewSession(config.SeedSynonymRules(), config.SeedDefinitions(lookup))
	analysisService := service.NewAnalysisService(session, lookup, cfg.Rationalization)

	// Initialize Handler
	handler := api.NewHandler(session, analysisService, cfg)

	// Router Setup
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	// CORS - Allow frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Fieldscope backend is running"))
	})

	// Register all API Routes
	handler.RegisterRoutes(r)

	log.Printf("Starting fieldscope backend on http://localhost:%s", cfg.Port)
	log.Printf("Definition lookup: %d entries from %s", len(lookup), cfg.DefinitionsFile)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
