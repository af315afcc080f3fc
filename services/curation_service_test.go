package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
)

type fakeUploader struct {
	url     string
	err     error
	entered chan struct{}
	release chan struct{}
	calls   int
}

func (u *fakeUploader) Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	u.calls++
	if u.entered != nil {
		u.entered <- struct{}{}
		<-u.release
	}
	return u.url, u.err
}

type fakeNotifier struct {
	sent chan models.MediaItem
}

func (n *fakeNotifier) NotifyNewMedia(ctx context.Context, item models.MediaItem) error {
	n.sent <- item
	return nil
}

type fixedConnectivity bool

func (c fixedConnectivity) Online() bool { return bool(c) }

type curationFixture struct {
	svc      *CurationService
	store    *database.MemoryStore
	uploader *fakeUploader
	notifier *fakeNotifier
}

func newCurationFixture(t *testing.T, online bool) *curationFixture {
	t.Helper()
	static, err := database.LoadStaticGallery()
	require.NoError(t, err)
	store := database.NewMemoryStore()
	logger := zap.NewNop()
	uploader := &fakeUploader{url: "https://cdn.example.org/well.jpg"}
	notifier := &fakeNotifier{sent: make(chan models.MediaItem, 4)}
	svc := NewCurationService(
		database.NewGalleryRepository(store, static, logger),
		database.NewStatisticsRepository(store, logger),
		uploader,
		notifier,
		fixedConnectivity(online),
		logger,
	)
	return &curationFixture{svc: svc, store: store, uploader: uploader, notifier: notifier}
}

func num(v float64) models.FlexibleNumber {
	return models.FlexibleNumber{Value: v, Set: true}
}

func TestCurationService_UploadImage(t *testing.T) {
	ctx := context.Background()
	f := newCurationFixture(t, true)

	result, err := f.svc.UploadImage(ctx, "s1", ImageUpload{
		File:        strings.NewReader("jpeg"),
		Filename:    "well.jpg",
		Title:       "Well Construction",
		Description: "New well in Kano",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Item)
	assert.NotEmpty(t, result.Item.ID)
	assert.Equal(t, "https://cdn.example.org/well.jpg", result.Item.URL)
	assert.True(t, result.Item.IsActive)

	// Vue rafraîchie: 4 statiques + la nouvelle image en dernier
	require.Len(t, result.Gallery.Images, 5)
	assert.Equal(t, result.Item.ID, result.Gallery.Images[4].ID)
	assert.Len(t, result.Gallery.Videos, 3)

	select {
	case sent := <-f.notifier.sent:
		assert.Equal(t, "Well Construction", sent.Title)
	case <-time.After(time.Second):
		t.Fatal("notification non envoyée")
	}
}

func TestCurationService_UploadImageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("sans fichier", func(t *testing.T) {
		f := newCurationFixture(t, true)
		_, err := f.svc.UploadImage(ctx, "s1", ImageUpload{})
		assert.ErrorIs(t, err, ErrMissingFile)
		assert.True(t, IsValidationError(err))
		assert.Zero(t, f.uploader.calls)
	})

	t.Run("hors ligne", func(t *testing.T) {
		f := newCurationFixture(t, false)
		_, err := f.svc.UploadImage(ctx, "s1", ImageUpload{File: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrOffline)
		assert.Zero(t, f.uploader.calls)
	})

	t.Run("échec de l'hébergeur", func(t *testing.T) {
		f := newCurationFixture(t, true)
		f.uploader.err = &RemoteError{Service: "cloudinary", StatusCode: 400, Message: "Invalid image file"}
		_, err := f.svc.UploadImage(ctx, "s1", ImageUpload{File: strings.NewReader("x")})
		require.Error(t, err)
		assert.Equal(t, "Invalid image file", RemoteMessage(err, "fallback"))
		assert.Len(t, f.svc.Gallery(ctx).Images, 4, "aucun enregistrement après un échec d'upload")
	})
}

func TestCurationService_BusyGuard(t *testing.T) {
	ctx := context.Background()
	f := newCurationFixture(t, true)
	f.uploader.entered = make(chan struct{})
	f.uploader.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.UploadImage(ctx, "s1", ImageUpload{File: strings.NewReader("x")})
		done <- err
	}()
	<-f.uploader.entered

	_, err := f.svc.UploadImage(ctx, "s1", ImageUpload{File: strings.NewReader("y")})
	assert.ErrorIs(t, err, ErrBusy)

	// Un autre formulaire de la même session n'est pas bloqué
	_, err = f.svc.AddVideo(ctx, "s1", models.AddVideoRequest{URL: "abcdefghijk"})
	assert.NoError(t, err)

	close(f.uploader.release)
	require.NoError(t, <-done)
}

func TestCurationService_AddVideo(t *testing.T) {
	ctx := context.Background()
	f := newCurationFixture(t, true)

	first, err := f.svc.AddVideo(ctx, "s1", models.AddVideoRequest{URL: "https://www.youtube.com/watch?v=abcdefghijk"})
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijk", first.Item.YouTubeID)
	assert.Equal(t, "YouTube Video", first.Item.Title)

	second, err := f.svc.AddVideo(ctx, "s1", models.AddVideoRequest{URL: "https://youtu.be/ABCDEFGHIJK", Title: "Second"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Item.ID, second.Item.ID)

	videos := second.Gallery.Videos
	require.Len(t, videos, 5)
	assert.Equal(t, first.Item.ID, videos[3].ID)
	assert.Equal(t, second.Item.ID, videos[4].ID)

	_, err = f.svc.AddVideo(ctx, "s1", models.AddVideoRequest{URL: "   "})
	assert.ErrorIs(t, err, ErrMissingVideoURL)
}

func TestCurationService_TwoPhaseDelete(t *testing.T) {
	ctx := context.Background()
	f := newCurationFixture(t, true)

	added, err := f.svc.AddVideo(ctx, "s1", models.AddVideoRequest{URL: "abcdefghijk", Title: "Outreach"})
	require.NoError(t, err)
	id := added.Item.ID

	t.Run("annulation sans effet sur le store", func(t *testing.T) {
		pending, err := f.svc.RequestDeletion(ctx, "s1", models.KindVideo, id)
		require.NoError(t, err)
		assert.Equal(t, "Outreach", pending.Title)

		require.NoError(t, f.svc.CancelDeletion("s1", pending.Token))
		assert.Len(t, f.svc.Gallery(ctx).Videos, 4)

		_, err = f.svc.ConfirmDeletion(ctx, "s1", pending.Token)
		assert.ErrorIs(t, err, ErrPendingNotFound)
	})

	t.Run("jeton d'une autre session", func(t *testing.T) {
		pending, err := f.svc.RequestDeletion(ctx, "s1", models.KindVideo, id)
		require.NoError(t, err)
		_, err = f.svc.ConfirmDeletion(ctx, "s2", pending.Token)
		assert.ErrorIs(t, err, ErrPendingNotFound)
		require.NoError(t, f.svc.CancelDeletion("s1", pending.Token))
	})

	t.Run("une nouvelle demande remplace la précédente", func(t *testing.T) {
		first, err := f.svc.RequestDeletion(ctx, "s1", models.KindVideo, id)
		require.NoError(t, err)
		second, err := f.svc.RequestDeletion(ctx, "s1", models.KindVideo, id)
		require.NoError(t, err)
		assert.ErrorIs(t, f.svc.CancelDeletion("s1", first.Token), ErrPendingNotFound)

		result, err := f.svc.ConfirmDeletion(ctx, "s1", second.Token)
		require.NoError(t, err)
		assert.Len(t, result.Gallery.Videos, 3)
		for _, v := range result.Gallery.Videos {
			assert.NotEqual(t, id, v.ID)
		}
	})

	t.Run("élément statique protégé", func(t *testing.T) {
		_, err := f.svc.RequestDeletion(ctx, "s1", models.KindImage, "static-1")
		assert.ErrorIs(t, err, database.ErrStaticItem)
	})

	t.Run("élément inconnu", func(t *testing.T) {
		_, err := f.svc.RequestDeletion(ctx, "s1", models.KindImage, "missing")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestCurationService_DeleteWithStoreDown(t *testing.T) {
	ctx := context.Background()
	outage := errors.New("network down")

	t.Run("la demande remonte la panne au lieu d'un 404", func(t *testing.T) {
		f := newCurationFixture(t, true)
		added, err := f.svc.AddVideo(ctx, "s1", models.AddVideoRequest{URL: "abcdefghijk"})
		require.NoError(t, err)

		f.store.SetUnavailable(outage)
		_, err = f.svc.RequestDeletion(ctx, "s1", models.KindVideo, added.Item.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, outage)
		assert.NotErrorIs(t, err, database.ErrNotFound)

		// Les éléments statiques restent identifiables sans le store
		_, err = f.svc.RequestDeletion(ctx, "s1", models.KindImage, "static-1")
		assert.ErrorIs(t, err, database.ErrStaticItem)
	})

	t.Run("le jeton reste valide après un échec d'écriture", func(t *testing.T) {
		f := newCurationFixture(t, true)
		added, err := f.svc.AddVideo(ctx, "s1", models.AddVideoRequest{URL: "abcdefghijk"})
		require.NoError(t, err)
		pending, err := f.svc.RequestDeletion(ctx, "s1", models.KindVideo, added.Item.ID)
		require.NoError(t, err)

		f.store.SetUnavailable(outage)
		_, err = f.svc.ConfirmDeletion(ctx, "s1", pending.Token)
		assert.ErrorIs(t, err, outage)

		f.store.SetUnavailable(nil)
		result, err := f.svc.ConfirmDeletion(ctx, "s1", pending.Token)
		require.NoError(t, err)
		assert.Equal(t, added.Item.ID, result.Item.ID)
		assert.Len(t, result.Gallery.Videos, 3)

		_, err = f.svc.ConfirmDeletion(ctx, "s1", pending.Token)
		assert.ErrorIs(t, err, ErrPendingNotFound)
	})
}

func TestCurationService_UpdateStatistics(t *testing.T) {
	ctx := context.Background()
	f := newCurationFixture(t, true)

	req := models.StatisticsRequest{
		ChildrenHelped:       num(1200),
		ProgramsRunning:      num(8),
		SuccessRate:          num(95),
		PartnerOrganizations: num(14),
	}
	echoed, err := f.svc.UpdateStatistics(ctx, "s1", req)
	require.NoError(t, err)
	assert.Equal(t, models.Statistics{ChildrenHelped: 1200, ProgramsRunning: 8, SuccessRate: 95, PartnerOrganizations: 14}, echoed)

	stored, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, echoed, stored)

	tests := []struct {
		name string
		mut  func(r *models.StatisticsRequest)
		want error
	}{
		{"champ manquant", func(r *models.StatisticsRequest) { r.ProgramsRunning = models.FlexibleNumber{} }, ErrStatsMissing},
		{"négatif", func(r *models.StatisticsRequest) { r.ChildrenHelped = num(-1) }, ErrStatsInvalid},
		{"fractionnaire", func(r *models.StatisticsRequest) { r.PartnerOrganizations = num(2.5) }, ErrStatsInvalid},
		{"taux supérieur à 100", func(r *models.StatisticsRequest) { r.SuccessRate = num(101) }, ErrStatsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := req
			tt.mut(&bad)
			_, err := f.svc.UpdateStatistics(ctx, "s1", bad)
			assert.True(t, errors.Is(err, tt.want))
		})
	}

	// Les valeurs rejetées n'ont pas écrasé le singleton
	stored, err = f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, echoed, stored)
}
