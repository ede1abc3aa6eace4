package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"feedback-backend/internal/database"
	"feedback-backend/internal/handlers"
	customMiddleware "feedback-backend/internal/middleware"
	"feedback-backend/internal/models"
	"feedback-backend/internal/notify"
	"feedback-backend/internal/repository"
	"feedback-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGO_URI", "")
	dbName := getEnv("DB_NAME", "feedback")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "5000")
	uploadDir := getEnv("UPLOAD_DIR", "uploads")
	clientURL := getEnv("CLIENT_URL", "*")

	if mongoURI == "" {
		log.Fatal("❌ MONGO_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	db, err := database.Connect(mongoURI, dbName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	feedbackRepo := repository.NewFeedbackRepo(db)
	adminRepo := repository.NewAdminRepo(db)
	tokenRepo := repository.NewResetTokenRepo(db)

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}
	if err := adminRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create admin indexes: %v", err)
	}
	if err := tokenRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create reset token indexes: %v", err)
	}

	// Blob storage for profile pictures
	blobs, err := storage.NewDiskStore(uploadDir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize upload storage: %v", err)
	}

	// Negative feedback alerts go by email when Resend is configured,
	// otherwise to the process log.
	var notifier notify.Notifier = notify.NewLogNotifier()
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		notifier = notify.NewEmailNotifier(apiKey, os.Getenv("FROM_EMAIL"), os.Getenv("ALERT_EMAIL"))
	}

	// Initialize handlers
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, notifier)
	adminHandler := handlers.NewAdminHandler(adminRepo, tokenRepo, blobs, jwtSecret)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{clientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Liveness
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Feedback System Backend is Running 🚀"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"feedback-backend"}`))
	})

	// Uploaded profile pictures
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(blobs.Dir())))
	r.Handle("/uploads/*", fileServer)

	// Feedback routes
	r.Route("/api/feedback", func(r chi.Router) {
		r.Post("/", feedbackHandler.SubmitFeedback)
		r.Get("/feedback-counts", feedbackHandler.GetFeedbackCounts)
		r.Get("/emoji-counts-for-graphs", feedbackHandler.GetEmojiCountsForGraphs)
		r.Get("/{service}/emoji-counts", feedbackHandler.GetEmojiCounts)
		r.Get("/{service}/feedback-by-emoji/{emoji}", feedbackHandler.GetFeedbackByEmoji)
		r.Get("/{service}/export-csv", feedbackHandler.ExportCSV)
		r.Get("/{service}/export-excel", feedbackHandler.ExportExcel)

		// One detail route per known service, newest first
		for _, service := range models.KnownServices {
			r.Get("/"+service+"/feedback-details/{emoji}", feedbackHandler.FeedbackDetails(service))
		}
	})

	// Admin routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/register", adminHandler.Register)
		r.Post("/login", adminHandler.Login)
		r.Post("/forgot-password", adminHandler.ForgotPassword)
		r.Post("/reset-password", adminHandler.ResetPassword)
		r.Get("/feedback-counts", feedbackHandler.GetFeedbackCounts)

		// Protected routes (JWT required)
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.JWTAuth(jwtSecret))

			r.Get("/profile/{email}", adminHandler.GetProfile)
			r.Post("/check-old-password", adminHandler.CheckOldPassword)
			r.Put("/update-admin-profile", adminHandler.UpdateAdminProfile)
		})
	})

	// Start server
	log.Printf("🚀 Feedback backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
