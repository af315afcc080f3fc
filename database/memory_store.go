package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"humanity-verse-backend/models"

	"github.com/google/uuid"
)

// MemoryStore est un pilote en mémoire (développement et tests)
type MemoryStore struct {
	mu          sync.RWMutex
	media       map[models.MediaKind]map[string]mediaRecord
	statistics  *models.Statistics
	donations   map[string]models.Donation
	admins      map[string]models.AdminUser
	unavailable error
}

// NewMemoryStore crée un store vide
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		media: map[models.MediaKind]map[string]mediaRecord{
			models.KindImage: {},
			models.KindVideo: {},
		},
		donations: make(map[string]models.Donation),
		admins:    make(map[string]models.AdminUser),
	}
}

// SetUnavailable simule une panne du store (nil pour la lever)
func (s *MemoryStore) SetUnavailable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = err
}

func (s *MemoryStore) check() error {
	if s.unavailable != nil {
		return fmt.Errorf("store indisponible: %w", s.unavailable)
	}
	return nil
}

// FindActiveMedia retourne les médias actifs d'un type
func (s *MemoryStore) FindActiveMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(s.media[kind]))
	for id := range s.media[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := &MediaResult{}
	for _, id := range ids {
		rec := s.media[kind][id]
		if !rec.IsActive {
			continue
		}
		item, err := rec.toItem(kind, id)
		if err != nil {
			result.Rejected = append(result.Rejected, err)
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// InsertMedia persiste un nouveau média
func (s *MemoryStore) InsertMedia(ctx context.Context, item *models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	item.ID = uuid.NewString()
	s.media[item.Kind][item.ID] = newMediaRecord(item)
	return nil
}

// FindLegacyMedia: le store en mémoire n'a pas d'ancienne galerie
func (s *MemoryStore) FindLegacyMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return &MediaResult{}, nil
}

// DeactivateMedia désactive un média (suppression logique)
func (s *MemoryStore) DeactivateMedia(ctx context.Context, kind models.MediaKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	rec, ok := s.media[kind][id]
	if !ok {
		return ErrNotFound
	}
	rec.IsActive = false
	s.media[kind][id] = rec
	return nil
}

// GetStatistics lit le singleton des statistiques
func (s *MemoryStore) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	if s.statistics == nil {
		return nil, ErrNotFound
	}
	stats := *s.statistics
	return &stats, nil
}

// SetStatistics remplace entièrement le singleton
func (s *MemoryStore) SetStatistics(ctx context.Context, stats models.Statistics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.statistics = &stats
	return nil
}

// SaveDonation enregistre un don
func (s *MemoryStore) SaveDonation(ctx context.Context, donation *models.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	s.donations[donation.TxRef] = *donation
	return nil
}

// UpdateDonationStatus met à jour le statut d'un don
func (s *MemoryStore) UpdateDonationStatus(ctx context.Context, txRef, status, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	d, ok := s.donations[txRef]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	if transactionID != "" {
		d.TransactionID = transactionID
	}
	d.UpdatedAt = nowFunc()
	s.donations[txRef] = d
	return nil
}

// FindDonation retourne un don par référence
func (s *MemoryStore) FindDonation(ctx context.Context, txRef string) (*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	d, ok := s.donations[txRef]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

// FindAdminByEmail retourne un admin par email
func (s *MemoryStore) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	admin, ok := s.admins[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &admin, nil
}

// CreateAdmin crée un compte admin
func (s *MemoryStore) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	key := strings.ToLower(admin.Email)
	if _, exists := s.admins[key]; exists {
		return ErrAlreadyExists
	}
	admin.ID = uuid.NewString()
	s.admins[key] = *admin
	return nil
}

// Ping vérifie la disponibilité
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check()
}

// Close ne fait rien pour le store en mémoire
func (s *MemoryStore) Close() error {
	return nil
}
