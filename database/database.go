package database

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"humanity-verse-backend/config"
)

// Connect ouvre le pilote de stockage choisi par STORE_DRIVER
func Connect(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreFirestore:
		store, err := NewFirestoreStore(ctx, app)
		if err != nil {
			return nil, err
		}
		logger.Info("✓ Connexion à Firestore établie", zap.String("project", cfg.FirebaseProjectID))
		return store, nil

	case config.StoreMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB, logger)

	case config.StoreSQLite:
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("✓ Base SQLite ouverte", zap.String("path", cfg.SQLitePath))
		return store, nil

	case config.StoreMemory:
		logger.Warn("⚠️  Store en mémoire: les données seront perdues à l'arrêt")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("STORE_DRIVER inconnu: %s", cfg.StoreDriver)
}
