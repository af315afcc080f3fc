package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"humanity-verse-backend/models"
)

// MongoStore est le pilote MongoDB
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// mongoMediaDoc ajoute l'_id au schéma commun
type mongoMediaDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	mediaRecord `bson:",inline"`
}

// NewMongoStore établit la connexion à MongoDB et crée les index
func NewMongoStore(ctx context.Context, uri, dbName string, logger *zap.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la connexion à MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("erreur lors du ping MongoDB: %w", err)
	}

	store := &MongoStore{client: client, db: client.Database(dbName)}
	logger.Info("✓ Connexion à MongoDB établie", zap.String("database", dbName))

	if err = store.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("erreur lors de la création des index: %w", err)
	}
	logger.Info("✓ Index MongoDB créés")

	return store, nil
}

// createIndexes crée les index nécessaires
func (s *MongoStore) createIndexes(ctx context.Context) error {
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: BSONEmail, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection(CollectionAdmins).Indexes().CreateOne(ctx, emailIndex); err != nil {
		return fmt.Errorf("erreur lors de la création de l'index email: %w", err)
	}

	for _, collection := range []string{CollectionImages, CollectionVideos} {
		activeIndex := mongo.IndexModel{Keys: bson.D{{Key: BSONIsActive, Value: 1}, {Key: "order", Value: 1}}}
		if _, err := s.db.Collection(collection).Indexes().CreateOne(ctx, activeIndex); err != nil {
			return fmt.Errorf("erreur lors de la création de l'index %s: %w", collection, err)
		}
	}
	return nil
}

// FindActiveMedia retourne les médias actifs d'un type
func (s *MongoStore) FindActiveMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	return s.findActive(ctx, CollectionFor(kind), kind)
}

// FindLegacyMedia lit les anciennes collections de la galerie
func (s *MongoStore) FindLegacyMedia(ctx context.Context, kind models.MediaKind) (*MediaResult, error) {
	return s.findActive(ctx, LegacyCollectionFor(kind), kind)
}

func (s *MongoStore) findActive(ctx context.Context, collection string, kind models.MediaKind) (*MediaResult, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{BSONIsActive: true})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des médias: %w", err)
	}
	defer cursor.Close(ctx)

	result := &MediaResult{}
	for cursor.Next(ctx) {
		var doc mongoMediaDoc
		if err := cursor.Decode(&doc); err != nil {
			id, _ := cursor.Current.Lookup(BSONID).ObjectIDOK()
			result.Rejected = append(result.Rejected, rejectRecord(collection, id.Hex(), err))
			continue
		}
		item, err := doc.toItem(kind, doc.ID.Hex())
		if err != nil {
			result.Rejected = append(result.Rejected, err)
			continue
		}
		result.Items = append(result.Items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("erreur lors du parcours des médias: %w", err)
	}
	return result, nil
}

// InsertMedia insère un média; l'ID est l'ObjectID en hexadécimal
func (s *MongoStore) InsertMedia(ctx context.Context, item *models.MediaItem) error {
	doc := mongoMediaDoc{ID: primitive.NewObjectID(), mediaRecord: newMediaRecord(item)}
	if _, err := s.db.Collection(CollectionFor(item.Kind)).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("erreur lors de la création du média: %w", err)
	}
	item.ID = doc.ID.Hex()
	return nil
}

// DeactivateMedia passe isActive à false
func (s *MongoStore) DeactivateMedia(ctx context.Context, kind models.MediaKind, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.db.Collection(CollectionFor(kind)).UpdateOne(ctx,
		bson.M{BSONID: oid},
		bson.M{BSONSet: bson.M{BSONIsActive: false}},
	)
	if err != nil {
		return fmt.Errorf("erreur lors de la désactivation du média: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStatistics lit le document site/statistics
func (s *MongoStore) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	err := s.db.Collection(CollectionSite).FindOne(ctx, bson.M{BSONID: DocStatistics}).Decode(&stats)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture des statistiques: %w", err)
	}
	return &stats, nil
}

// SetStatistics remplace le document (upsert)
func (s *MongoStore) SetStatistics(ctx context.Context, stats models.Statistics) error {
	_, err := s.db.Collection(CollectionSite).ReplaceOne(ctx,
		bson.M{BSONID: DocStatistics},
		stats,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("erreur lors de l'écriture des statistiques: %w", err)
	}
	return nil
}

// SaveDonation enregistre un don (_id = tx_ref)
func (s *MongoStore) SaveDonation(ctx context.Context, donation *models.Donation) error {
	if _, err := s.db.Collection(CollectionDonations).InsertOne(ctx, donation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("erreur lors de l'enregistrement du don: %w", err)
	}
	return nil
}

// UpdateDonationStatus met à jour le statut d'un don
func (s *MongoStore) UpdateDonationStatus(ctx context.Context, txRef, status, transactionID string) error {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if transactionID != "" {
		set["transactionId"] = transactionID
	}
	res, err := s.db.Collection(CollectionDonations).UpdateOne(ctx, bson.M{BSONID: txRef}, bson.M{BSONSet: set})
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour du don: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindDonation retourne un don par référence
func (s *MongoStore) FindDonation(ctx context.Context, txRef string) (*models.Donation, error) {
	var donation models.Donation
	err := s.db.Collection(CollectionDonations).FindOne(ctx, bson.M{BSONID: txRef}).Decode(&donation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture du don: %w", err)
	}
	return &donation, nil
}

// FindAdminByEmail recherche un admin par email
func (s *MongoStore) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := s.db.Collection(CollectionAdmins).FindOne(ctx, bson.M{BSONEmail: strings.ToLower(email)}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'admin: %w", err)
	}
	return &admin, nil
}

// CreateAdmin crée un compte admin; l'index unique garantit l'unicité de l'email
func (s *MongoStore) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	admin.Email = strings.ToLower(admin.Email)
	admin.ID = uuid.NewString()
	if _, err := s.db.Collection(CollectionAdmins).InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("erreur lors de la création de l'admin: %w", err)
	}
	return nil
}

// Ping vérifie que la connexion MongoDB est active
func (s *MongoStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("client MongoDB non initialisé")
	}
	return s.client.Ping(ctx, nil)
}

// Close ferme la connexion
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
