package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HnnhKylSdsBrl/ClassCart/config"
	"github.com/HnnhKylSdsBrl/ClassCart/core/account"
	"github.com/HnnhKylSdsBrl/ClassCart/core/auth"
	"github.com/HnnhKylSdsBrl/ClassCart/core/market"
	"github.com/HnnhKylSdsBrl/ClassCart/db"
	"github.com/HnnhKylSdsBrl/ClassCart/logger"
	"github.com/HnnhKylSdsBrl/ClassCart/repository"
	"github.com/HnnhKylSdsBrl/ClassCart/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.InfoLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Initialize MinIO for listing images and avatars.
	if err := storage.InitMinio(cfg); err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	// Connect to the database.
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	// Connect to Redis for the session store.
	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.CloseRedis()
	log.Println("Successfully connected to Redis")

	// Initialize database schema.
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	listingRepo := repository.NewMySQLListingRepository(db.DB)
	orderRepo := repository.NewMySQLOrderRepository(db.DB)

	images := storage.NewMinioImageStore(storage.GetMinioClient(), cfg.MinioBucket, cfg.MinioPublicURL)
	sessions := auth.NewRedisSessionStore(db.RedisClient)

	accountService := account.NewService(userRepo, images)
	marketService := market.NewService(listingRepo, orderRepo, images)

	apiHandler := NewAPIHandler(accountService, marketService, sessions, cfg)

	router := mux.NewRouter()

	// CORS middleware.
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Account endpoints.
	router.HandleFunc("/api/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)

	// Profile endpoints.
	router.HandleFunc("/api/profile", apiHandler.AuthMiddleware(apiHandler.GetProfileHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/profile", apiHandler.AuthMiddleware(apiHandler.UpdateProfileHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/profile/picture", apiHandler.AuthMiddleware(apiHandler.UpdatePictureHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/change-password", apiHandler.AuthMiddleware(apiHandler.ChangePasswordHandler)).Methods(http.MethodPut)

	// Listing endpoints.
	router.HandleFunc("/api/listings", apiHandler.AuthMiddleware(apiHandler.CreateListingHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/listings", apiHandler.ListListingsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/listings/{id:[0-9]+}", apiHandler.GetListingHandler).Methods(http.MethodGet)

	// Order endpoints.
	router.HandleFunc("/api/orders", apiHandler.AuthMiddleware(apiHandler.CreateOrderHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/my", apiHandler.AuthMiddleware(apiHandler.ListMyOrdersHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/{id:[0-9]+}/confirm", apiHandler.AuthMiddleware(apiHandler.ConfirmOrderHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/{id:[0-9]+}/cancel", apiHandler.AuthMiddleware(apiHandler.CancelOrderHandler)).Methods(http.MethodPost)

	// Health probe.
	router.HandleFunc("/__health", apiHandler.HealthHandler).Methods(http.MethodGet)

	// Images proxied from MinIO.
	router.PathPrefix("/static/").HandlerFunc(apiHandler.StaticImageHandler)

	// Frontend UI serving.
	uiFileServer := http.FileServer(http.Dir(cfg.WebAppDir))
	router.PathPrefix("/").Handler(uiFileServer)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.HTTPAddr)
		log.Println("Register via POST /api/register, login via POST /api/login")
		log.Println("Browse listings via GET /api/listings")
		log.Println("Manage orders via /api/orders endpoints")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
