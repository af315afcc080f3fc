package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"humanity-verse-backend/models"
)

// StatisticsRepository gère le singleton des statistiques du site
type StatisticsRepository struct {
	store  StatisticsStore
	logger *zap.Logger
}

// NewStatisticsRepository crée un nouveau repository de statistiques
func NewStatisticsRepository(store StatisticsStore, logger *zap.Logger) *StatisticsRepository {
	return &StatisticsRepository{store: store, logger: logger}
}

// Get lit les statistiques; le document est créé à zéro s'il n'existe pas
func (r *StatisticsRepository) Get(ctx context.Context) (models.Statistics, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	stats, err := r.store.GetStatistics(ctx)
	if err == nil {
		return *stats, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Statistics{}, fmt.Errorf("erreur lors de la lecture des statistiques: %w", err)
	}

	// Créer les statistiques par défaut si elles n'existent pas
	defaults := models.Statistics{}
	if err := r.store.SetStatistics(ctx, defaults); err != nil {
		return models.Statistics{}, fmt.Errorf("erreur lors de la création des statistiques: %w", err)
	}
	r.logger.Info("✓ Statistiques initialisées à zéro")
	return defaults, nil
}

// Update écrase entièrement les statistiques (la dernière écriture gagne)
func (r *StatisticsRepository) Update(ctx context.Context, stats models.Statistics) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := r.store.SetStatistics(ctx, stats); err != nil {
		return fmt.Errorf("erreur lors de la mise à jour des statistiques: %w", err)
	}
	return nil
}
