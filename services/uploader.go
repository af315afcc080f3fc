package services

import (
	"context"
	"io"
)

// Uploader envoie une image vers l'hébergement et retourne son URL publique
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error)
}
