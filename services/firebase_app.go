package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"humanity-verse-backend/config"
)

// NewFirebaseApp initialise l'application Firebase partagée (Firestore, Auth, FCM)
func NewFirebaseApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*firebase.App, error) {
	var opt option.ClientOption

	// FIREBASE_CREDENTIALS_JSON prime sur le fichier (déploiement cloud)
	if cfg.FirebaseCredentialsJSON != "" {
		logger.Info("📦 Utilisation des credentials Firebase depuis FIREBASE_CREDENTIALS_JSON")
		opt = option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON))
	} else {
		logger.Info("📦 Utilisation des credentials Firebase depuis le fichier", zap.String("file", cfg.FirebaseCredentialsFile))
		opt = option.WithCredentialsFile(cfg.FirebaseCredentialsFile)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'initialisation de Firebase: %w", err)
	}
	return app, nil
}
