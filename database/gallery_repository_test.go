package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"humanity-verse-backend/models"
)

func newTestGallery(t *testing.T) (*GalleryRepository, *MemoryStore) {
	t.Helper()
	static, err := LoadStaticGallery()
	require.NoError(t, err)
	store := NewMemoryStore()
	return NewGalleryRepository(store, static, zap.NewNop()), store
}

func ids(items []models.MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestGalleryRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("statiques seuls quand le store est vide", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		images := repo.List(ctx, models.KindImage)
		assert.Equal(t, []string{"static-1", "static-2", "static-3", "static-4"}, ids(images))
		videos := repo.List(ctx, models.KindVideo)
		assert.Equal(t, []string{"static-video-1", "static-video-2", "static-video-3"}, ids(videos))
	})

	t.Run("actifs uniquement, triés par ordre croissant", func(t *testing.T) {
		repo, store := newTestGallery(t)
		created := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		store.putRawMedia(models.KindImage, "b", mediaRecord{URL: "https://x/b.jpg", Order: 3000, IsActive: true, CreatedAt: created})
		store.putRawMedia(models.KindImage, "a", mediaRecord{URL: "https://x/a.jpg", Order: 2000, IsActive: true, CreatedAt: created})
		store.putRawMedia(models.KindImage, "hidden", mediaRecord{URL: "https://x/h.jpg", Order: 2500, IsActive: false, CreatedAt: created})

		items := repo.List(ctx, models.KindImage)
		assert.Equal(t, []string{"static-1", "static-2", "static-3", "static-4", "a", "b"}, ids(items))
		for _, item := range items {
			assert.True(t, item.IsActive)
		}
	})

	t.Run("enregistrement invalide ignoré", func(t *testing.T) {
		repo, store := newTestGallery(t)
		store.putRawMedia(models.KindVideo, "broken", mediaRecord{Title: "sans id", Order: 10, IsActive: true})
		store.putRawMedia(models.KindVideo, "ok", mediaRecord{YouTubeID: "abcdefghijk", Order: 20, IsActive: true})

		items := repo.List(ctx, models.KindVideo)
		assert.NotContains(t, ids(items), "broken")
		assert.Contains(t, ids(items), "ok")
	})

	t.Run("store injoignable: galerie statique sans erreur", func(t *testing.T) {
		repo, store := newTestGallery(t)
		_, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{URL: "https://x/new.jpg"})
		require.NoError(t, err)

		store.SetUnavailable(errors.New("network down"))
		items := repo.List(ctx, models.KindImage)
		assert.Equal(t, repo.static.For(models.KindImage), items)
	})

	t.Run("éléments du store intercalés entre les statiques selon l'ordre", func(t *testing.T) {
		repo, store := newTestGallery(t)
		store.putRawMedia(models.KindImage, "first", mediaRecord{URL: "u1", Order: 0, IsActive: true, CreatedAt: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)})
		store.putRawMedia(models.KindImage, "middle", mediaRecord{URL: "u2", Order: 2, IsActive: true, CreatedAt: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)})
		items := repo.List(ctx, models.KindImage)
		assert.Equal(t, []string{"first", "static-1", "static-2", "middle", "static-3", "static-4"}, ids(items))
	})

	t.Run("égalité d'ordre départagée par date de création", func(t *testing.T) {
		repo, store := newTestGallery(t)
		store.putRawMedia(models.KindImage, "late", mediaRecord{URL: "u", Order: 4, IsActive: true, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
		items := repo.List(ctx, models.KindImage)
		assert.Equal(t, []string{"static-1", "static-2", "static-3", "static-4", "late"}, ids(items))
	})
}

func TestGalleryRepository_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("l'image ajoutée apparaît avec id, date et isActive", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		before := repo.List(ctx, models.KindImage)

		item, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{
			URL:         "https://res.cloudinary.com/demo/image/upload/well.jpg",
			Title:       "Well Construction",
			Description: "New well in Kogi State",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, item.ID)
		assert.True(t, item.IsActive)
		assert.False(t, item.CreatedAt.IsZero())

		after := repo.List(ctx, models.KindImage)
		require.Len(t, after, len(before)+1)
		last := after[len(after)-1]
		assert.Equal(t, item.ID, last.ID)
		assert.Equal(t, "Well Construction", last.Title)
		assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/well.jpg", last.URL)
	})

	t.Run("deux vidéos ajoutées dans la même milliseconde gardent l'ordre d'insertion", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		nowFunc = func() time.Time { return fixed }
		defer func() { nowFunc = time.Now }()

		first, err := repo.Add(ctx, models.KindVideo, models.NewMediaInput{YouTubeID: "aaaaaaaaaaa", Title: "First"})
		require.NoError(t, err)
		second, err := repo.Add(ctx, models.KindVideo, models.NewMediaInput{YouTubeID: "bbbbbbbbbbb", Title: "Second"})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Less(t, first.Order, second.Order)

		items := repo.List(ctx, models.KindVideo)
		got := ids(items)
		assert.Equal(t, []string{first.ID, second.ID}, got[len(got)-2:])
	})

	t.Run("charge utile manquante refusée", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		_, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{Title: "no url"})
		assert.Error(t, err)
		_, err = repo.Add(ctx, models.KindVideo, models.NewMediaInput{Title: "no id"})
		assert.Error(t, err)
	})

	t.Run("erreur du store propagée", func(t *testing.T) {
		repo, store := newTestGallery(t)
		store.SetUnavailable(errors.New("boom"))
		_, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{URL: "u"})
		assert.Error(t, err)
	})
}

func TestGalleryRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("l'élément disparaît et la suppression est idempotente", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		item, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{URL: "https://x/y.jpg"})
		require.NoError(t, err)

		require.NoError(t, repo.SoftDelete(ctx, models.KindImage, item.ID))
		assert.NotContains(t, ids(repo.List(ctx, models.KindImage)), item.ID)

		require.NoError(t, repo.SoftDelete(ctx, models.KindImage, item.ID))
		assert.NotContains(t, ids(repo.List(ctx, models.KindImage)), item.ID)
	})

	t.Run("ID inconnu", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		err := repo.SoftDelete(ctx, models.KindVideo, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("élément statique protégé", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		err := repo.SoftDelete(ctx, models.KindImage, "static-2")
		assert.ErrorIs(t, err, ErrStaticItem)
		assert.Contains(t, ids(repo.List(ctx, models.KindImage)), "static-2")
	})
}

func TestGalleryRepository_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("statique et store", func(t *testing.T) {
		repo, _ := newTestGallery(t)
		added, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{URL: "https://x/y.jpg", Title: "Well"})
		require.NoError(t, err)

		item, err := repo.Find(ctx, models.KindImage, "static-3")
		require.NoError(t, err)
		assert.True(t, item.Static)

		item, err = repo.Find(ctx, models.KindImage, added.ID)
		require.NoError(t, err)
		assert.Equal(t, "Well", item.Title)

		_, err = repo.Find(ctx, models.KindImage, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("panne du store remontée", func(t *testing.T) {
		repo, store := newTestGallery(t)
		added, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{URL: "https://x/y.jpg"})
		require.NoError(t, err)

		outage := errors.New("network down")
		store.SetUnavailable(outage)
		_, err = repo.Find(ctx, models.KindImage, added.ID)
		assert.ErrorIs(t, err, outage)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

// legacyStore ajoute une ancienne galerie au store en mémoire
type legacyStore struct {
	*MemoryStore
	legacy map[models.MediaKind]*MediaResult
}

func (s *legacyStore) FindLegacyMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	if res, ok := s.legacy[kind]; ok {
		return res, nil
	}
	return &MediaResult{}, nil
}

func TestGalleryRepository_MigrateLegacy(t *testing.T) {
	ctx := context.Background()
	static, err := LoadStaticGallery()
	require.NoError(t, err)

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &legacyStore{
		MemoryStore: NewMemoryStore(),
		legacy: map[models.MediaKind]*MediaResult{
			models.KindImage: {
				Items: []models.MediaItem{
					{ID: "old-1", Kind: models.KindImage, Title: "School visit", URL: "https://x/old1.jpg", CreatedAt: created, Order: 1, IsActive: true},
					{ID: "old-2", Kind: models.KindImage, Title: "Food drive", URL: "https://x/old2.jpg", CreatedAt: created, Order: 2, IsActive: true},
				},
				Rejected: []error{ErrInvalidRecord},
			},
		},
	}
	repo := NewGalleryRepository(store, static, zap.NewNop())

	report, err := repo.MigrateLegacy(ctx, models.KindImage)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Skipped)
	assert.Len(t, report.Rejected, 1)

	items := repo.List(ctx, models.KindImage)
	require.Len(t, items, 6)
	// Nouvel ordre: après les statiques, dans l'ordre de l'ancienne collection
	assert.Equal(t, "School visit", items[4].Title)
	assert.Equal(t, "Food drive", items[5].Title)
	assert.Equal(t, created, items[4].CreatedAt)
	assert.Equal(t, "old-1", items[4].LegacyID)
	assert.NotEqual(t, "old-1", items[4].ID)
	assert.Greater(t, items[5].Order, items[4].Order)

	// Une seconde reprise ne duplique rien
	report, err = repo.MigrateLegacy(ctx, models.KindImage)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, repo.List(ctx, models.KindImage), 6)

	report, err = repo.MigrateLegacy(ctx, models.KindVideo)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
}

func TestGalleryRepository_Latest(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestGallery(t)
	added, err := repo.Add(ctx, models.KindImage, models.NewMediaInput{URL: "https://x/new.jpg"})
	require.NoError(t, err)

	latest := repo.Latest(ctx, models.KindImage, 2)
	assert.Equal(t, []string{added.ID, "static-4"}, ids(latest))
	assert.Len(t, repo.Latest(ctx, models.KindImage, 100), 5)
}
