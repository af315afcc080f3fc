package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"humanity-verse-backend/models"
)

// SQLiteStore est un pilote embarqué: une table de documents JSON par collection
type SQLiteStore struct {
	db *sql.DB
}

// adminRecord conserve le hash, que la sérialisation JSON du modèle masque
type adminRecord struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`

// NewSQLiteStore ouvre (ou crée) la base SQLite
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("erreur lors de la création du dossier %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'ouverture de SQLite: %w", err)
	}
	// Une seule connexion: une base ":memory:" n'est pas partagée entre connexions
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("erreur lors de la migration SQLite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) putDocument(ctx context.Context, collection, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("erreur lors de l'encodage du document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data`,
		collection, id, string(data))
	return err
}

func (s *SQLiteStore) getDocument(ctx context.Context, collection, id string, v interface{}) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return rejectRecord(collection, id, err)
	}
	return nil
}

// FindActiveMedia retourne les documents dont isActive est vrai
func (s *SQLiteStore) FindActiveMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	return s.findActive(ctx, CollectionFor(kind), kind)
}

// FindLegacyMedia lit les anciennes collections importées dans la même table
func (s *SQLiteStore) FindLegacyMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	return s.findActive(ctx, LegacyCollectionFor(kind), kind)
}

func (s *SQLiteStore) findActive(ctx context.Context, collection string, kind models.MediaKind) (*MediaResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? AND json_extract(data, '$.isActive') = 1`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des médias: %w", err)
	}
	defer rows.Close()

	result := &MediaResult{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("erreur lors de la lecture des médias: %w", err)
		}
		var rec mediaRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			result.Rejected = append(result.Rejected, rejectRecord(collection, id, err))
			continue
		}
		item, err := rec.toItem(kind, id)
		if err != nil {
			result.Rejected = append(result.Rejected, err)
			continue
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erreur lors du parcours des médias: %w", err)
	}
	return result, nil
}

// InsertMedia insère un média avec un identifiant UUID
func (s *SQLiteStore) InsertMedia(ctx context.Context, item *models.MediaItem) error {
	id := uuid.NewString()
	if err := s.putDocument(ctx, CollectionFor(item.Kind), id, newMediaRecord(item)); err != nil {
		return fmt.Errorf("erreur lors de la création du média: %w", err)
	}
	item.ID = id
	return nil
}

// DeactivateMedia passe isActive à false
func (s *SQLiteStore) DeactivateMedia(ctx context.Context, kind models.MediaKind, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET data = json_set(data, '$.isActive', json('false')) WHERE collection = ? AND id = ?`,
		CollectionFor(kind), id)
	if err != nil {
		return fmt.Errorf("erreur lors de la désactivation du média: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("erreur lors de la désactivation du média: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStatistics lit le document site/statistics
func (s *SQLiteStore) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := s.getDocument(ctx, CollectionSite, DocStatistics, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetStatistics écrase le document
func (s *SQLiteStore) SetStatistics(ctx context.Context, stats models.Statistics) error {
	if err := s.putDocument(ctx, CollectionSite, DocStatistics, stats); err != nil {
		return fmt.Errorf("erreur lors de l'écriture des statistiques: %w", err)
	}
	return nil
}

// SaveDonation enregistre un don
func (s *SQLiteStore) SaveDonation(ctx context.Context, donation *models.Donation) error {
	if err := s.putDocument(ctx, CollectionDonations, donation.TxRef, donation); err != nil {
		return fmt.Errorf("erreur lors de l'enregistrement du don: %w", err)
	}
	return nil
}

// UpdateDonationStatus met à jour le statut d'un don
func (s *SQLiteStore) UpdateDonationStatus(ctx context.Context, txRef, status, transactionID string) error {
	donation, err := s.FindDonation(ctx, txRef)
	if err != nil {
		return err
	}
	donation.Status = status
	if transactionID != "" {
		donation.TransactionID = transactionID
	}
	donation.UpdatedAt = time.Now()
	return s.SaveDonation(ctx, donation)
}

// FindDonation retourne un don par référence
func (s *SQLiteStore) FindDonation(ctx context.Context, txRef string) (*models.Donation, error) {
	var donation models.Donation
	if err := s.getDocument(ctx, CollectionDonations, txRef, &donation); err != nil {
		return nil, err
	}
	return &donation, nil
}

// FindAdminByEmail recherche un admin par email
func (s *SQLiteStore) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var id, data string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? AND json_extract(data, '$.email') = ?`,
		CollectionAdmins, strings.ToLower(email)).Scan(&id, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'admin: %w", err)
	}
	var rec adminRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, rejectRecord(CollectionAdmins, id, err)
	}
	return &models.AdminUser{ID: id, Email: rec.Email, PasswordHash: rec.PasswordHash, CreatedAt: rec.CreatedAt}, nil
}

// CreateAdmin crée un compte admin (email unique)
func (s *SQLiteStore) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	admin.Email = strings.ToLower(admin.Email)
	if _, err := s.FindAdminByEmail(ctx, admin.Email); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	id := uuid.NewString()
	rec := adminRecord{Email: admin.Email, PasswordHash: admin.PasswordHash, CreatedAt: admin.CreatedAt}
	if err := s.putDocument(ctx, CollectionAdmins, id, rec); err != nil {
		return fmt.Errorf("erreur lors de la création de l'admin: %w", err)
	}
	admin.ID = id
	return nil
}

// Ping vérifie que la base répond
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close ferme la base
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
