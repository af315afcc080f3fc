package models

import (
	"time"
)

// MediaKind distingue les deux galeries publiques
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// ParseMediaKind accepte le singulier ou le pluriel ("images", "videos")
func ParseMediaKind(raw string) (MediaKind, bool) {
	switch raw {
	case "image", "images":
		return KindImage, true
	case "video", "videos":
		return KindVideo, true
	}
	return "", false
}

// MediaItem représente une photo ou une vidéo de la galerie publique
type MediaItem struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        MediaKind `json:"kind" yaml:"-"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	Order       int64     `json:"order" yaml:"order"`
	IsActive    bool      `json:"isActive" yaml:"isActive"`
	URL         string    `json:"url,omitempty" yaml:"url"`
	YouTubeID   string    `json:"youtubeId,omitempty" yaml:"youtubeId"`
	Static      bool      `json:"static,omitempty" yaml:"-"` // élément embarqué, jamais persisté
	LegacyID    string    `json:"-" yaml:"-"`                // ID d'origine dans l'ancienne galerie
}

// Validate vérifie la charge utile propre au type
func (m *MediaItem) Validate() error {
	switch m.Kind {
	case KindImage:
		if m.URL == "" {
			return errMissingField("url")
		}
	case KindVideo:
		if m.YouTubeID == "" {
			return errMissingField("youtubeId")
		}
	default:
		return errMissingField("kind")
	}
	return nil
}

// NewMediaInput regroupe les attributs fournis par l'admin à l'ajout
type NewMediaInput struct {
	Title       string
	Description string
	URL         string
	YouTubeID   string
}

// AddVideoRequest représente le formulaire d'ajout de vidéo
type AddVideoRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GalleryResponse représente la vue admin (les deux galeries)
type GalleryResponse struct {
	Images []MediaItem `json:"images"`
	Videos []MediaItem `json:"videos"`
}

// DeletionRequestResponse représente une suppression en attente de confirmation
type DeletionRequestResponse struct {
	Token string    `json:"token"`
	Kind  MediaKind `json:"kind"`
	ID    string    `json:"id"`
	Title string    `json:"title,omitempty"`
}
