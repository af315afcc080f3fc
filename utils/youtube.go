package utils

import (
	"regexp"
	"strings"
)

var youtubeIDRegex = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// NormalizeYouTubeID extrait l'identifiant à 11 caractères d'une URL YouTube.
// Toute autre saisie est retournée telle quelle (espaces retirés), sans jamais être refusée.
func NormalizeYouTubeID(input string) string {
	trimmed := strings.TrimSpace(input)
	if m := youtubeIDRegex.FindStringSubmatch(trimmed); len(m) == 2 {
		return m[1]
	}
	return trimmed
}
