package database

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"humanity-verse-backend/models"
)

//go:embed static_gallery.yaml
var staticGalleryYAML []byte

// StaticGallery contient les éléments embarqués des deux galeries
type StaticGallery struct {
	Images []models.MediaItem `yaml:"images"`
	Videos []models.MediaItem `yaml:"videos"`
}

// For retourne une copie des éléments d'un type
func (g *StaticGallery) For(kind models.MediaKind) []models.MediaItem {
	src := g.Images
	if kind == models.KindVideo {
		src = g.Videos
	}
	out := make([]models.MediaItem, len(src))
	copy(out, src)
	return out
}

// Contains indique si l'ID appartient aux éléments embarqués
func (g *StaticGallery) Contains(kind models.MediaKind, id string) bool {
	for _, item := range g.For(kind) {
		if item.ID == id {
			return true
		}
	}
	return false
}

// LoadStaticGallery décode les éléments embarqués dans le binaire
func LoadStaticGallery() (*StaticGallery, error) {
	return parseStaticGallery(staticGalleryYAML)
}

func parseStaticGallery(data []byte) (*StaticGallery, error) {
	var g StaticGallery
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage de la galerie statique: %w", err)
	}
	for _, set := range []struct {
		kind  models.MediaKind
		items []models.MediaItem
	}{{models.KindImage, g.Images}, {models.KindVideo, g.Videos}} {
		for i := range set.items {
			set.items[i].Kind = set.kind
			set.items[i].Static = true
			if err := set.items[i].Validate(); err != nil {
				return nil, fmt.Errorf("élément statique %q invalide: %w", set.items[i].ID, err)
			}
		}
	}
	return &g, nil
}
