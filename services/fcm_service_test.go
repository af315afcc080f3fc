package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"humanity-verse-backend/models"
)

// TestDisabledFCMService vérifie que NewDisabledFCMService fonctionne
func TestDisabledFCMService(t *testing.T) {
	svc := NewDisabledFCMService(zap.NewNop())
	if svc == nil {
		t.Fatal("NewDisabledFCMService() ne doit pas retourner nil")
	}
	if svc.Enabled() {
		t.Error("Enabled() doit être faux sans client")
	}
	// Un service désactivé ne doit ni paniquer ni échouer
	if err := svc.NotifyNewMedia(context.Background(), models.MediaItem{Kind: models.KindImage}); err != nil {
		t.Errorf("NotifyNewMedia() erreur = %v", err)
	}
}

func TestGalleryNotification(t *testing.T) {
	title, body := galleryNotification(models.MediaItem{Kind: models.KindVideo, Title: "Well Construction"})
	if title != "🎬 New video in the gallery" || body != "Well Construction" {
		t.Errorf("galleryNotification() = %q, %q", title, body)
	}
	_, body = galleryNotification(models.MediaItem{Kind: models.KindImage})
	if body == "" {
		t.Error("le corps par défaut ne doit pas être vide")
	}
}
