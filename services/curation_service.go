package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"humanity-verse-backend/constants"
	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
	"humanity-verse-backend/utils"
)

// Formulaires protégés contre la double soumission
const (
	FormImageUpload = "image-upload"
	FormVideoAdd    = "video-add"
	FormDelete      = "delete"
	FormStatistics  = "statistics"
)

// pendingDeletionTTL borne la durée de vie d'une suppression non confirmée
const pendingDeletionTTL = 10 * time.Minute

// ConnectivityChecker expose le dernier état connu du store
type ConnectivityChecker interface {
	Online() bool
}

// ImageUpload regroupe le fichier et les métadonnées d'une image
type ImageUpload struct {
	File        io.Reader
	Filename    string
	ContentType string
	Title       string
	Description string
}

// CurationResult retourne l'élément concerné et la vue rafraîchie des deux galeries
type CurationResult struct {
	Item    *models.MediaItem      `json:"item,omitempty"`
	Gallery models.GalleryResponse `json:"gallery"`
}

type pendingDeletion struct {
	session   string
	kind      models.MediaKind
	id        string
	expiresAt time.Time
}

// CurationService orchestre les actions de l'admin sur la galerie et les statistiques
type CurationService struct {
	gallery      *database.GalleryRepository
	stats        *database.StatisticsRepository
	uploader     Uploader
	notifier     GalleryNotifier
	connectivity ConnectivityChecker
	logger       *zap.Logger

	busyMu sync.Mutex
	busy   map[string]struct{}

	pendingMu sync.Mutex
	pending   map[string]pendingDeletion // token -> cible
	bySession map[string]string          // session -> token
}

// NewCurationService crée le service; notifier et connectivity peuvent être nil
func NewCurationService(
	gallery *database.GalleryRepository,
	stats *database.StatisticsRepository,
	uploader Uploader,
	notifier GalleryNotifier,
	connectivity ConnectivityChecker,
	logger *zap.Logger,
) *CurationService {
	return &CurationService{
		gallery:      gallery,
		stats:        stats,
		uploader:     uploader,
		notifier:     notifier,
		connectivity: connectivity,
		logger:       logger,
		busy:         make(map[string]struct{}),
		pending:      make(map[string]pendingDeletion),
		bySession:    make(map[string]string),
	}
}

// acquire marque le formulaire comme en cours pour la session
func (s *CurationService) acquire(session, form string) (func(), error) {
	key := session + "|" + form
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	if _, inFlight := s.busy[key]; inFlight {
		return nil, ErrBusy
	}
	s.busy[key] = struct{}{}
	return func() {
		s.busyMu.Lock()
		delete(s.busy, key)
		s.busyMu.Unlock()
	}, nil
}

func (s *CurationService) checkOnline() error {
	if s.connectivity != nil && !s.connectivity.Online() {
		return ErrOffline
	}
	return nil
}

// Gallery retourne la vue complète des deux galeries
func (s *CurationService) Gallery(ctx context.Context) models.GalleryResponse {
	return models.GalleryResponse{
		Images: s.gallery.List(ctx, models.KindImage),
		Videos: s.gallery.List(ctx, models.KindVideo),
	}
}

// Statistics retourne les statistiques courantes
func (s *CurationService) Statistics(ctx context.Context) (models.Statistics, error) {
	return s.stats.Get(ctx)
}

// UploadImage envoie l'image, l'ajoute à la galerie et rafraîchit la vue
func (s *CurationService) UploadImage(ctx context.Context, session string, in ImageUpload) (*CurationResult, error) {
	if in.File == nil {
		return nil, ErrMissingFile
	}
	release, err := s.acquire(session, FormImageUpload)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkOnline(); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, in.File, in.Filename, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'upload de l'image: %w", err)
	}

	item, err := s.gallery.Add(ctx, models.KindImage, models.NewMediaInput{
		URL:         url,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, err
	}

	s.notify(*item)
	return &CurationResult{Item: item, Gallery: s.Gallery(ctx)}, nil
}

// AddVideo normalise l'URL YouTube, ajoute la vidéo et rafraîchit la vue
func (s *CurationService) AddVideo(ctx context.Context, session string, req models.AddVideoRequest) (*CurationResult, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrMissingVideoURL
	}
	release, err := s.acquire(session, FormVideoAdd)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkOnline(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = constants.DefaultVideoTitle
	}

	item, err := s.gallery.Add(ctx, models.KindVideo, models.NewMediaInput{
		YouTubeID:   utils.NormalizeYouTubeID(req.URL),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return nil, err
	}

	s.notify(*item)
	return &CurationResult{Item: item, Gallery: s.Gallery(ctx)}, nil
}

// notify annonce l'ajout en arrière-plan; un échec est seulement journalisé
func (s *CurationService) notify(item models.MediaItem) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyNewMedia(ctx, item); err != nil {
			s.logger.Warn("⚠️  Notification galerie non envoyée", zap.String("id", item.ID), zap.Error(err))
		}
	}()
}

// RequestDeletion enregistre la cible à supprimer et retourne un jeton de confirmation.
// Une session n'a qu'une seule suppression en attente: une nouvelle demande remplace la précédente.
func (s *CurationService) RequestDeletion(ctx context.Context, session string, kind models.MediaKind, id string) (*models.DeletionRequestResponse, error) {
	item, err := s.gallery.Find(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if item.Static {
		return nil, database.ErrStaticItem
	}

	token := uuid.NewString()

	s.pendingMu.Lock()
	if previous, ok := s.bySession[session]; ok {
		delete(s.pending, previous)
	}
	s.pending[token] = pendingDeletion{
		session:   session,
		kind:      kind,
		id:        id,
		expiresAt: time.Now().Add(pendingDeletionTTL),
	}
	s.bySession[session] = token
	s.pendingMu.Unlock()

	return &models.DeletionRequestResponse{Token: token, Kind: kind, ID: id, Title: item.Title}, nil
}

// takePending retire et retourne la suppression en attente du jeton
func (s *CurationService) takePending(session, token string) (pendingDeletion, error) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	target, ok := s.pending[token]
	if !ok || target.session != session {
		return pendingDeletion{}, ErrPendingNotFound
	}
	delete(s.pending, token)
	delete(s.bySession, session)
	if time.Now().After(target.expiresAt) {
		return pendingDeletion{}, ErrPendingNotFound
	}
	return target, nil
}

// restorePending remet une suppression en attente, sauf si la session en a demandé une autre entre-temps
func (s *CurationService) restorePending(token string, target pendingDeletion) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if _, ok := s.bySession[target.session]; ok {
		return
	}
	s.pending[token] = target
	s.bySession[target.session] = token
}

// ConfirmDeletion exécute la suppression logique en attente puis rafraîchit la vue
func (s *CurationService) ConfirmDeletion(ctx context.Context, session, token string) (*CurationResult, error) {
	release, err := s.acquire(session, FormDelete)
	if err != nil {
		return nil, err
	}
	defer release()

	target, err := s.takePending(session, token)
	if err != nil {
		return nil, err
	}

	if err := s.gallery.SoftDelete(ctx, target.kind, target.id); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			// L'admin peut confirmer à nouveau avec le même jeton
			s.restorePending(token, target)
		}
		return nil, err
	}
	return &CurationResult{
		Item:    &models.MediaItem{ID: target.id, Kind: target.kind},
		Gallery: s.Gallery(ctx),
	}, nil
}

// CancelDeletion abandonne la suppression en attente, sans toucher au store
func (s *CurationService) CancelDeletion(session, token string) error {
	_, err := s.takePending(session, token)
	return err
}

// UpdateStatistics valide et écrase les statistiques; la réponse reprend les valeurs soumises
func (s *CurationService) UpdateStatistics(ctx context.Context, session string, req models.StatisticsRequest) (models.Statistics, error) {
	stats, err := validateStatistics(req)
	if err != nil {
		return models.Statistics{}, err
	}

	release, err := s.acquire(session, FormStatistics)
	if err != nil {
		return models.Statistics{}, err
	}
	defer release()

	if err := s.stats.Update(ctx, stats); err != nil {
		return models.Statistics{}, err
	}
	s.logger.Info("✓ Statistiques mises à jour",
		zap.Int64("childrenHelped", stats.ChildrenHelped),
		zap.Int64("programsRunning", stats.ProgramsRunning),
		zap.Int64("successRate", stats.SuccessRate),
		zap.Int64("partnerOrganizations", stats.PartnerOrganizations),
	)
	return stats, nil
}

func validateStatistics(req models.StatisticsRequest) (models.Statistics, error) {
	fields := []models.FlexibleNumber{req.ChildrenHelped, req.ProgramsRunning, req.SuccessRate, req.PartnerOrganizations}
	values := make([]int64, len(fields))
	for i, f := range fields {
		if !f.Set {
			return models.Statistics{}, ErrStatsMissing
		}
		v, ok := f.Int64()
		if !ok || v < 0 {
			return models.Statistics{}, ErrStatsInvalid
		}
		values[i] = v
	}
	if values[2] > 100 {
		return models.Statistics{}, ErrStatsInvalid
	}
	return models.Statistics{
		ChildrenHelped:       values[0],
		ProgramsRunning:      values[1],
		SuccessRate:          values[2],
		PartnerOrganizations: values[3],
	}, nil
}

// IsValidationError indique une erreur de saisie (aucun appel distant effectué)
func IsValidationError(err error) bool {
	var v utils.ValidationError
	return errors.As(err, &v) ||
		errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrMissingVideoURL) ||
		errors.Is(err, ErrStatsMissing) ||
		errors.Is(err, ErrStatsInvalid)
}
