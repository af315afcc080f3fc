package database

import "humanity-verse-backend/models"

// putRawMedia insère un document tel quel, sans validation
func (s *MemoryStore) putRawMedia(kind models.MediaKind, id string, rec mediaRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media[kind][id] = rec
}
