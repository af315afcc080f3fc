package database

import (
	"fmt"
	"time"

	"humanity-verse-backend/models"
)

// mediaRecord est le schéma explicite d'un document de galerie, partagé par tous les pilotes
type mediaRecord struct {
	Title       string    `firestore:"title" bson:"title" json:"title"`
	Description string    `firestore:"description,omitempty" bson:"description,omitempty" json:"description,omitempty"`
	URL         string    `firestore:"url,omitempty" bson:"url,omitempty" json:"url,omitempty"`
	YouTubeID   string    `firestore:"youtubeId,omitempty" bson:"youtubeId,omitempty" json:"youtubeId,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	Order       int64     `firestore:"order" bson:"order" json:"order"`
	IsActive    bool      `firestore:"isActive" bson:"isActive" json:"isActive"`
	LegacyID    string    `firestore:"id,omitempty" bson:"legacyId,omitempty" json:"legacyId,omitempty"`
}

func newMediaRecord(item *models.MediaItem) mediaRecord {
	return mediaRecord{
		Title:       item.Title,
		Description: item.Description,
		URL:         item.URL,
		YouTubeID:   item.YouTubeID,
		CreatedAt:   item.CreatedAt,
		Order:       item.Order,
		IsActive:    item.IsActive,
		LegacyID:    item.LegacyID,
	}
}

// toItem convertit le document en MediaItem; un document sans charge utile est rejeté
func (r mediaRecord) toItem(kind models.MediaKind, id string) (models.MediaItem, error) {
	item := models.MediaItem{
		ID:          id,
		Kind:        kind,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		Order:       r.Order,
		IsActive:    r.IsActive,
		LegacyID:    r.LegacyID,
	}
	if kind == models.KindImage {
		item.URL = r.URL
	} else {
		item.YouTubeID = r.YouTubeID
	}
	if err := item.Validate(); err != nil {
		return models.MediaItem{}, rejectRecord(CollectionFor(kind), id, err)
	}
	return item, nil
}

// rejectRecord construit une erreur ErrInvalidRecord contextualisée
func rejectRecord(collection, id string, cause error) error {
	return fmt.Errorf("%w: %s/%s: %v", ErrInvalidRecord, collection, id, cause)
}
