package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"humanity-verse-backend/models"
)

// FirestoreStore est le pilote par défaut, compatible avec les collections existantes
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore ouvre un client Firestore depuis l'application Firebase
func NewFirestoreStore(ctx context.Context, app *firebase.App) (*FirestoreStore, error) {
	if app == nil {
		return nil, fmt.Errorf("application Firebase non initialisée")
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création du client Firestore: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func isFirestoreNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// FindActiveMedia retourne les documents isActive == true d'une collection
func (s *FirestoreStore) FindActiveMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	return s.findActive(ctx, CollectionFor(kind), kind)
}

// FindLegacyMedia lit galleryImages / galleryVideos
func (s *FirestoreStore) FindLegacyMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	return s.findActive(ctx, LegacyCollectionFor(kind), kind)
}

func (s *FirestoreStore) findActive(ctx context.Context, collection string, kind models.MediaKind) (*MediaResult, error) {
	iter := s.client.Collection(collection).Where("isActive", "==", true).Documents(ctx)
	defer iter.Stop()

	result := &MediaResult{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erreur lors de la lecture de %s: %w", collection, err)
		}

		var rec mediaRecord
		if err := doc.DataTo(&rec); err != nil {
			result.Rejected = append(result.Rejected, rejectRecord(collection, doc.Ref.ID, err))
			continue
		}
		item, err := rec.toItem(kind, doc.Ref.ID)
		if err != nil {
			result.Rejected = append(result.Rejected, err)
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// InsertMedia ajoute un document; Firestore attribue l'ID
func (s *FirestoreStore) InsertMedia(ctx context.Context, item *models.MediaItem) error {
	ref, _, err := s.client.Collection(CollectionFor(item.Kind)).Add(ctx, newMediaRecord(item))
	if err != nil {
		return fmt.Errorf("erreur lors de l'ajout du média: %w", err)
	}
	item.ID = ref.ID
	return nil
}

// DeactivateMedia met isActive à false sans supprimer le document
func (s *FirestoreStore) DeactivateMedia(ctx context.Context, kind models.MediaKind, id string) error {
	_, err := s.client.Collection(CollectionFor(kind)).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: false},
	})
	if isFirestoreNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("erreur lors de la désactivation du média: %w", err)
	}
	return nil
}

func (s *FirestoreStore) statisticsRef() *firestore.DocumentRef {
	return s.client.Collection(CollectionSite).Doc(DocStatistics)
}

// GetStatistics lit site/statistics
func (s *FirestoreStore) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	snap, err := s.statisticsRef().Get(ctx)
	if isFirestoreNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture des statistiques: %w", err)
	}
	var stats models.Statistics
	if err := snap.DataTo(&stats); err != nil {
		return nil, rejectRecord(CollectionSite, DocStatistics, err)
	}
	return &stats, nil
}

// SetStatistics écrase le document (set, pas merge)
func (s *FirestoreStore) SetStatistics(ctx context.Context, stats models.Statistics) error {
	if _, err := s.statisticsRef().Set(ctx, stats); err != nil {
		return fmt.Errorf("erreur lors de l'écriture des statistiques: %w", err)
	}
	return nil
}

// SaveDonation enregistre un don sous sa référence de transaction
func (s *FirestoreStore) SaveDonation(ctx context.Context, donation *models.Donation) error {
	if _, err := s.client.Collection(CollectionDonations).Doc(donation.TxRef).Set(ctx, donation); err != nil {
		return fmt.Errorf("erreur lors de l'enregistrement du don: %w", err)
	}
	return nil
}

// UpdateDonationStatus met à jour le statut d'un don
func (s *FirestoreStore) UpdateDonationStatus(ctx context.Context, txRef, donationStatus, transactionID string) error {
	updates := []firestore.Update{
		{Path: "status", Value: donationStatus},
		{Path: "updatedAt", Value: time.Now()},
	}
	if transactionID != "" {
		updates = append(updates, firestore.Update{Path: "transactionId", Value: transactionID})
	}
	_, err := s.client.Collection(CollectionDonations).Doc(txRef).Update(ctx, updates)
	if isFirestoreNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour du don: %w", err)
	}
	return nil
}

// FindDonation retourne un don par référence
func (s *FirestoreStore) FindDonation(ctx context.Context, txRef string) (*models.Donation, error) {
	snap, err := s.client.Collection(CollectionDonations).Doc(txRef).Get(ctx)
	if isFirestoreNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture du don: %w", err)
	}
	var donation models.Donation
	if err := snap.DataTo(&donation); err != nil {
		return nil, rejectRecord(CollectionDonations, txRef, err)
	}
	return &donation, nil
}

// FindAdminByEmail recherche un admin par email
func (s *FirestoreStore) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	docs, err := s.client.Collection(CollectionAdmins).
		Where("email", "==", strings.ToLower(email)).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'admin: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	var admin models.AdminUser
	if err := docs[0].DataTo(&admin); err != nil {
		return nil, rejectRecord(CollectionAdmins, docs[0].Ref.ID, err)
	}
	admin.ID = docs[0].Ref.ID
	return &admin, nil
}

// CreateAdmin crée un compte admin (email unique)
func (s *FirestoreStore) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	admin.Email = strings.ToLower(admin.Email)
	if _, err := s.FindAdminByEmail(ctx, admin.Email); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	ref, _, err := s.client.Collection(CollectionAdmins).Add(ctx, admin)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'admin: %w", err)
	}
	admin.ID = ref.ID
	return nil
}

// Ping lit le document des statistiques; son absence prouve quand même la connectivité
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.statisticsRef().Get(ctx)
	if err != nil && !isFirestoreNotFound(err) {
		return err
	}
	return nil
}

// Close ferme le client Firestore
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
