package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"humanity-verse-backend/config"
	"humanity-verse-backend/database"
	"humanity-verse-backend/handlers"
	"humanity-verse-backend/middleware"
	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur lors du chargement de la configuration: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation du logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Firebase: Firestore, Auth et FCM partagent la même application
	var app *firebase.App
	if cfg.NeedsFirebase() {
		app, err = services.NewFirebaseApp(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("❌ Erreur d'initialisation Firebase", zap.Error(err))
		}
	}

	store, err := database.Connect(ctx, cfg, app, logger)
	if err != nil {
		logger.Fatal("❌ Erreur de connexion au store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	static, err := database.LoadStaticGallery()
	if err != nil {
		logger.Fatal("❌ Galerie statique invalide", zap.Error(err))
	}

	// Créer les repositories
	galleryRepo := database.NewGalleryRepository(store, static, logger)
	statsRepo := database.NewStatisticsRepository(store, logger)

	slackService := services.NewSlackService(cfg.SlackWebhookURL, logger)

	monitor := services.NewStoreMonitor(store, cfg.StorePingInterval, slackService, logger)
	if err := monitor.Start(); err != nil {
		logger.Fatal("❌ Erreur de démarrage du moniteur", zap.Error(err))
	}
	defer monitor.Stop()

	uploader, err := newUploader(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Erreur d'initialisation de l'upload", zap.String("driver", cfg.UploadDriver), zap.Error(err))
	}

	// Notifications push (optionnelles)
	fcmService := services.NewDisabledFCMService(logger)
	if app != nil {
		if svc, err := services.NewFCMService(ctx, app, cfg.FCMGalleryTopic, logger); err != nil {
			logger.Warn("⚠️  Le serveur démarre SANS notifications push", zap.Error(err))
		} else {
			fcmService = svc
		}
	}

	sessions, closeSessions, err := newSessionStore(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Erreur de connexion à Redis", zap.Error(err))
	}
	defer closeSessions()

	authenticator, err := newAuthenticator(ctx, cfg, app, store)
	if err != nil {
		logger.Fatal("❌ Erreur d'initialisation de l'authentification", zap.Error(err))
	}

	// Services
	authService := services.NewAuthService(authenticator, sessions, cfg.JWTSecret, logger)
	curationService := services.NewCurationService(galleryRepo, statsRepo, uploader, fcmService, monitor, logger)
	emailService := services.NewEmailJSService(cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey, cfg.EmailJSPrivateKey, logger)
	newsletterService := services.NewMailchimpService(cfg.MailchimpAPIKey, cfg.MailchimpListID, cfg.MailchimpServerPrefix, logger)
	contactService := services.NewContactService(emailService, newsletterService, logger)
	flutterwaveService := services.NewFlutterwaveService(services.FlutterwaveOptions{
		BaseURL:     cfg.FlutterwaveBaseURL,
		SecretKey:   cfg.FlutterwaveSecretKey,
		SecretHash:  cfg.FlutterwaveSecretHash,
		CallbackURL: cfg.APIURL + "/api/donations/callback",
		SiteURL:     cfg.SiteURL,
	}, store, logger)

	if !newsletterService.Configured() {
		logger.Warn("⚠️  Mailchimp non configuré - newsletter en mode démo")
	}
	if !flutterwaveService.Configured() {
		logger.Warn("⚠️  Flutterwave non configuré - les dons sont désactivés")
	}

	// Créer le routeur
	router := mux.NewRouter()
	router.Use(middleware.Logging(logger, slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Health:     handlers.NewHealthHandler(cfg.Environment, cfg.StoreDriver, monitor),
		Site:       handlers.NewSiteHandler(services.NewSiteConfig(cfg, newsletterService, emailService)),
		Auth:       handlers.NewAuthHandler(authService, logger),
		Gallery:    handlers.NewGalleryHandler(galleryRepo, curationService, logger),
		Statistics: handlers.NewStatisticsHandler(curationService, logger),
		Contact:    handlers.NewContactHandler(contactService, newsletterService, logger),
		Donation:   handlers.NewDonationHandler(flutterwaveService, logger),
	}, authService)

	// Démarrer le serveur
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 Serveur démarré",
			zap.String("addr", "http://"+addr),
			zap.String("env", cfg.Environment),
			zap.String("store", cfg.StoreDriver),
			zap.String("auth", cfg.AuthProvider),
			zap.String("upload", cfg.UploadDriver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ Erreur du serveur", zap.Error(err))
		}
	}()

	// Attendre le signal d'arrêt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Erreur lors de l'arrêt du serveur", zap.Error(err))
	}
	logger.Info("✓ Serveur arrêté proprement")
}

// newUploader choisit l'hébergement des images selon UPLOAD_DRIVER
func newUploader(cfg *config.Config, logger *zap.Logger) (services.Uploader, error) {
	if cfg.UploadDriver == config.UploadS3 {
		uploader, err := services.NewS3Uploader(services.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}, logger)
		if err != nil {
			return nil, err
		}
		return uploader, nil
	}

	uploader, err := services.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, cfg.CloudinaryFolder, logger)
	if err != nil {
		return nil, err
	}
	return uploader, nil
}

// newSessionStore partage les révocations via Redis si REDIS_URL est défini
func newSessionStore(cfg *config.Config, logger *zap.Logger) (services.SessionStore, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("📦 Révocation des sessions en mémoire")
		return services.NewMemorySessionStore(), func() {}, nil
	}
	redisStore, err := services.NewRedisSessionStore(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("✓ Révocation des sessions via Redis")
	return redisStore, func() { _ = redisStore.Close() }, nil
}

// newAuthenticator choisit le fournisseur d'identité selon AUTH_PROVIDER
func newAuthenticator(ctx context.Context, cfg *config.Config, app *firebase.App, admins database.AdminStore) (services.Authenticator, error) {
	if cfg.AuthProvider == config.AuthLocal {
		return services.NewLocalAuthenticator(admins), nil
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création du client Firebase Auth: %w", err)
	}
	return services.NewFirebaseAuthenticator(cfg.FirebaseWebAPIKey, client), nil
}
