package database

import (
	"context"
	"errors"

	"humanity-verse-backend/models"
)

// Erreurs sentinelles de la couche de stockage
var (
	ErrNotFound      = errors.New("enregistrement introuvable")
	ErrStaticItem    = errors.New("les éléments statiques ne peuvent pas être modifiés")
	ErrInvalidRecord = errors.New("enregistrement invalide")
	ErrAlreadyExists = errors.New("enregistrement déjà existant")
)

// Noms des collections (compatibles avec les données Firestore existantes)
const (
	CollectionImages    = "publicGalleryImages"
	CollectionVideos    = "publicGalleryVideos"
	CollectionSite      = "site"
	DocStatistics       = "statistics"
	CollectionDonations = "donations"
	CollectionAdmins    = "adminUsers"

	// Collections de l'ancienne galerie, reprises par hvafctl migrate-gallery
	CollectionLegacyImages = "galleryImages"
	CollectionLegacyVideos = "galleryVideos"
)

// MediaResult contient les médias actifs lus et les enregistrements rejetés au décodage
type MediaResult struct {
	Items    []models.MediaItem
	Rejected []error
}

// GalleryStore est l'accès bas niveau aux deux collections de la galerie
type GalleryStore interface {
	FindActiveMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error)
	// InsertMedia persiste l'élément et renseigne son ID
	InsertMedia(ctx context.Context, item *models.MediaItem) error
	// DeactivateMedia passe isActive à false; ErrNotFound si l'ID n'existe pas
	DeactivateMedia(ctx context.Context, kind models.MediaKind, id string) error
	// FindLegacyMedia lit les médias actifs de l'ancienne collection du type
	FindLegacyMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error)
}

// StatisticsStore gère le document singleton site/statistics
type StatisticsStore interface {
	GetStatistics(ctx context.Context) (*models.Statistics, error)
	SetStatistics(ctx context.Context, stats models.Statistics) error
}

// DonationStore gère les dons initiés via le checkout
type DonationStore interface {
	SaveDonation(ctx context.Context, donation *models.Donation) error
	UpdateDonationStatus(ctx context.Context, txRef, status, transactionID string) error
	FindDonation(ctx context.Context, txRef string) (*models.Donation, error)
}

// AdminStore gère les comptes admin du fournisseur d'auth local
type AdminStore interface {
	FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, admin *models.AdminUser) error
}

// Store regroupe toutes les opérations d'un pilote de stockage
type Store interface {
	GalleryStore
	StatisticsStore
	DonationStore
	AdminStore
	Ping(ctx context.Context) error
	Close() error
}

// CollectionFor retourne la collection d'un type de média
func CollectionFor(kind models.MediaKind) string {
	if kind == models.KindVideo {
		return CollectionVideos
	}
	return CollectionImages
}

// LegacyCollectionFor retourne l'ancienne collection d'un type de média
func LegacyCollectionFor(kind models.MediaKind) string {
	if kind == models.KindVideo {
		return CollectionLegacyVideos
	}
	return CollectionLegacyImages
}
