package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/spider-mind/spider-mind-api/ai"
	"github.com/spider-mind/spider-mind-api/config"
	"github.com/spider-mind/spider-mind-api/handlers"
	"github.com/spider-mind/spider-mind-api/middleware"
	"github.com/spider-mind/spider-mind-api/search"
	"github.com/spider-mind/spider-mind-api/store"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	// Initialize database connection
	config.Connect()
	authMiddleware := middleware.EnsureValidToken()

	repo := store.NewGormRepository(config.Database)

	api := &handlers.APIHandler{Repo: repo}
	if !config.Env.AIEnabled {
		log.Printf("Warning: OPENAI_API_KEY not set, AI features disabled")
	} else if aiClient, err := ai.NewClientFromEnv(); err != nil {
		log.Printf("Warning: AI features disabled: %v", err)
	} else {
		api.Embedder = aiClient
		api.Suggester = aiClient
		api.Search = &search.Service{
			Repo:      repo,
			Embedder:  aiClient,
			Suggester: aiClient,
		}
	}

	mux := http.NewServeMux()

	// Local sessions for deployments without an Auth0 tenant
	mux.HandleFunc("POST /api/auth/token", api.IssueLocalToken)

	// Mind maps
	mux.HandleFunc("GET /api/mindmaps", api.GetMindMapsForUser)
	mux.HandleFunc("POST /api/mindmaps", middleware.SyncUserMiddleware(api.CreateMindMap))
	mux.HandleFunc("GET /api/mindmaps/{id}", api.GetMindMapByID)
	mux.HandleFunc("GET /api/mindmaps/{id}/full", api.GetMindMapFull)
	mux.HandleFunc("PUT /api/mindmaps/{id}", middleware.SyncUserMiddleware(api.UpdateMindMapByID))
	mux.HandleFunc("DELETE /api/mindmaps/{id}", middleware.SyncUserMiddleware(api.DeleteMindMapByID))
	mux.HandleFunc("DELETE /api/mindmaps/batch", middleware.SyncUserMiddleware(api.BatchDeleteMindMaps))

	// Nodes
	mux.HandleFunc("GET /api/mindmaps/{id}/nodes", api.GetNodesForMindMap)
	mux.HandleFunc("POST /api/mindmaps/{id}/nodes", middleware.SyncUserMiddleware(api.CreateNode))
	mux.HandleFunc("PUT /api/mindmaps/{id}/nodes/{nodeID}", middleware.SyncUserMiddleware(api.UpdateNodeByID))
	mux.HandleFunc("DELETE /api/mindmaps/{id}/nodes/{nodeID}", middleware.SyncUserMiddleware(api.DeleteNodeByID))

	// AI + search
	mux.HandleFunc("POST /api/ai/embeddings", api.GenerateEmbeddings)
	mux.HandleFunc("POST /api/ai/mindmap", api.GenerateMindMapSuggestions)
	mux.HandleFunc("POST /api/search", api.SearchMindMaps)

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://spider-mind.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	http.ListenAndServe(serverAddr, corsHandler)
}
