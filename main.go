package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CafeMaemi/config/database"
	"CafeMaemi/config/environment"
	"CafeMaemi/middleware"
	v1 "CafeMaemi/routes/v1"
	"CafeMaemi/services"
	"CafeMaemi/utils"
	"CafeMaemi/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	cfg, err := environment.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := utils.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting cafe maemi server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store_driver", cfg.StoreDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store       services.DocumentStore
		blobs       services.BlobStore
		memoryBlobs *services.MemoryBlobStore
		fb          *database.Firebase
	)
	switch cfg.StoreDriver {
	case environment.StoreDriverMemory:
		store = services.NewMemoryStore()
		memoryBlobs = services.NewMemoryBlobStore(cfg.Server.PublicBaseURL)
		blobs = memoryBlobs
		log.Warn("using in-memory store, content is lost on restart")
	default:
		//firebase init
		fb, err = database.InitFirebase(ctx, cfg.Firebase, log)
		if err != nil {
			log.Error("failed to initialize firebase", "error", err)
			os.Exit(1)
		}
		store = services.NewFirestoreStore(fb.Firestore)
		blobs = services.NewFirebaseBlobStore(fb.Bucket, fb.BucketName)
	}

	content := services.NewContentService(store, blobs, services.ContentOptions{MaxUploadBytes: cfg.MaxUploadBytes}, log)
	// mirrors outlive the signal context and stop during server shutdown
	content.Start(context.Background())

	sessions := services.NewSessionService(
		services.CredentialChecker{Username: cfg.Admin.Username, Password: cfg.Admin.Password},
		cfg.Admin.SessionSecret,
		cfg.Admin.CookieSecure,
	)
	recommendations := services.NewRecommendationService(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, log)
	if recommendations.Client == nil {
		log.Warn("OPENAI_API_KEY is not set, the AI waiter will answer with a fallback")
	}

	live := ws.NewLiveHub(content, log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go live.Run(hubCtx)

	// Setup Gin router
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Logger(log))
	r.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", "X-Upload-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a literal "*"
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	r.Use(cors.New(corsConfig))

	// Pasang middleware error handler
	r.Use(middleware.ErrorHandlerMiddleware(cfg.MaxUploadBytes))
	r.Use(middleware.Session(sessions))

	// Register all routes
	v1.RegisterRoutes(r, v1.Dependencies{
		Content:         content,
		Sessions:        sessions,
		Recommendations: recommendations,
		Live:            live,
		MemoryBlobs:     memoryBlobs,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	// Live streams never finish on their own. Once the listener is closed,
	// ending the mirrors and the hub lets SSE and WebSocket handlers return.
	srv.RegisterOnShutdown(stopHub)
	srv.RegisterOnShutdown(content.Stop)

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	content.Stop()
	if err := store.Close(); err != nil {
		log.Error("failed to close document store", "error", err)
	}
	log.Info("server stopped gracefully")
}
