package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"humanity-verse-backend/models"
)

// storeTimeout borne chaque appel au store
const storeTimeout = 10 * time.Second

var nowFunc = time.Now

// GalleryRepository fusionne les éléments embarqués et ceux du store
type GalleryRepository struct {
	store  GalleryStore
	static *StaticGallery
	logger *zap.Logger

	mu        sync.Mutex
	lastOrder int64
}

// NewGalleryRepository crée un nouveau repository de galerie
func NewGalleryRepository(store GalleryStore, static *StaticGallery, logger *zap.Logger) *GalleryRepository {
	return &GalleryRepository{
		store:  store,
		static: static,
		logger: logger,
	}
}

// List retourne les éléments actifs d'un type, triés par ordre croissant.
// Ne retourne jamais d'erreur: si le store est injoignable, seuls les éléments statiques sont servis.
func (r *GalleryRepository) List(ctx context.Context, kind models.MediaKind) []models.MediaItem {
	static := r.static.For(kind)

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result, err := r.store.FindActiveMedia(ctx, kind)
	if err != nil {
		r.logger.Warn("⚠️  Store indisponible, galerie statique uniquement",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return static
	}

	for _, rejected := range result.Rejected {
		r.logger.Warn("⚠️  Enregistrement de galerie ignoré", zap.Error(rejected))
	}

	items := append(static, result.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// Latest retourne les n derniers éléments de List, du plus récent au plus ancien
func (r *GalleryRepository) Latest(ctx context.Context, kind models.MediaKind, n int) []models.MediaItem {
	items := r.List(ctx, kind)
	if n <= 0 || n > len(items) {
		n = len(items)
	}
	latest := make([]models.MediaItem, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		latest = append(latest, items[i])
	}
	return latest
}

// Add persiste un nouvel élément actif et le retourne avec son ID
func (r *GalleryRepository) Add(ctx context.Context, kind models.MediaKind, input models.NewMediaInput) (*models.MediaItem, error) {
	now := nowFunc()
	item := &models.MediaItem{
		Kind:        kind,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		Order:       r.nextOrder(now),
		IsActive:    true,
	}
	if kind == models.KindImage {
		item.URL = input.URL
	} else {
		item.YouTubeID = input.YouTubeID
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("média invalide: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := r.store.InsertMedia(ctx, item); err != nil {
		return nil, fmt.Errorf("erreur lors de l'ajout du média: %w", err)
	}

	r.logger.Info("✓ Média ajouté",
		zap.String("kind", string(kind)),
		zap.String("id", item.ID),
		zap.Int64("order", item.Order),
	)
	return item, nil
}

// nextOrder retourne l'horodatage en millisecondes, strictement croissant dans le processus
func (r *GalleryRepository) nextOrder(now time.Time) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := now.UnixMilli()
	if order <= r.lastOrder {
		order = r.lastOrder + 1
	}
	r.lastOrder = order
	return order
}

// SoftDelete masque un élément du store (isActive = false), sans suppression physique
func (r *GalleryRepository) SoftDelete(ctx context.Context, kind models.MediaKind, id string) error {
	if r.static.Contains(kind, id) {
		return ErrStaticItem
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := r.store.DeactivateMedia(ctx, kind, id); err != nil {
		return fmt.Errorf("erreur lors de la suppression du média %s: %w", id, err)
	}

	r.logger.Info("✓ Média désactivé", zap.String("kind", string(kind)), zap.String("id", id))
	return nil
}

// Find retourne un élément actif par ID (statique ou du store).
// Contrairement à List, une panne du store est retournée à l'appelant.
func (r *GalleryRepository) Find(ctx context.Context, kind models.MediaKind, id string) (*models.MediaItem, error) {
	for _, item := range r.static.For(kind) {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result, err := r.store.FindActiveMedia(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du média %s: %w", id, err)
	}
	for _, item := range result.Items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// MigrationReport résume la reprise d'une ancienne collection
type MigrationReport struct {
	Kind     models.MediaKind
	Imported int
	Skipped  int
	Rejected []error
}

// MigrateLegacy copie les médias actifs de l'ancienne collection dans la galerie publique.
// Chaque élément reçoit un nouvel ordre; ceux déjà repris (même ID d'origine) sont ignorés.
func (r *GalleryRepository) MigrateLegacy(ctx context.Context, kind models.MediaKind) (*MigrationReport, error) {
	legacy, err := r.store.FindLegacyMedia(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture de %s: %w", LegacyCollectionFor(kind), err)
	}
	current, err := r.store.FindActiveMedia(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture de %s: %w", CollectionFor(kind), err)
	}

	migrated := make(map[string]bool, len(current.Items))
	for _, item := range current.Items {
		if item.LegacyID != "" {
			migrated[item.LegacyID] = true
		}
	}

	report := &MigrationReport{Kind: kind, Rejected: legacy.Rejected}
	for _, old := range legacy.Items {
		if migrated[old.ID] {
			report.Skipped++
			continue
		}

		now := nowFunc()
		item := old
		item.LegacyID = old.ID
		item.ID = ""
		item.Order = r.nextOrder(now)
		item.IsActive = true
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}

		if err := r.store.InsertMedia(ctx, &item); err != nil {
			return report, fmt.Errorf("erreur lors de la reprise du média %s: %w", old.ID, err)
		}
		migrated[old.ID] = true
		report.Imported++
	}

	r.logger.Info("✓ Ancienne galerie reprise",
		zap.String("kind", string(kind)),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("rejected", len(report.Rejected)),
	)
	return report, nil
}
