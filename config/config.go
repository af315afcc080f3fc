package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Pilotes de stockage supportés
const (
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
	StoreSQLite    = "sqlite"
	StoreMemory    = "memory"
)

// Fournisseurs d'authentification supportés
const (
	AuthFirebase = "firebase"
	AuthLocal    = "local"
)

// Pilotes d'upload supportés
const (
	UploadCloudinary = "cloudinary"
	UploadS3         = "s3"
)

// Config contient toutes les configurations de l'application
type Config struct {
	Port        string
	Host        string
	Environment string
	JWTSecret   string
	CORSOrigins []string
	SiteURL     string
	APIURL      string

	StoreDriver       string
	StorePingInterval time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseCredentialsJSON string
	FirebaseWebAPIKey       string
	FCMGalleryTopic         string

	MongoURI   string
	MongoDB    string
	SQLitePath string
	RedisURL   string

	AuthProvider string

	UploadDriver           string
	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	CloudinaryFolder       string
	S3Bucket               string
	S3Region               string
	S3Endpoint             string
	S3AccessKeyID          string
	S3SecretAccessKey      string
	S3PublicBaseURL        string

	SlackWebhookURL string

	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	EmailJSPrivateKey string

	MailchimpAPIKey       string
	MailchimpListID       string
	MailchimpServerPrefix string

	FlutterwavePublicKey  string
	FlutterwaveSecretKey  string
	FlutterwaveSecretHash string
	FlutterwaveBaseURL    string

	GAMeasurementID string
}

// Load charge la configuration depuis les variables d'environnement
func Load() (*Config, error) {
	// Charger le fichier .env s'il existe
	_ = godotenv.Load()

	config := &Config{
		Port:        getEnv("PORT", "8090"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:8080"),
		SiteURL:     strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		APIURL:      strings.TrimRight(getEnv("PUBLIC_API_URL", "http://localhost:8090"), "/"),

		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreFirestore)),
		StorePingInterval: getEnvDuration("STORE_PING_INTERVAL", 30*time.Second),

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", "humanity-verse-app"),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", "firebase-service-account.json"),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		FirebaseWebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
		FCMGalleryTopic:         getEnv("FCM_GALLERY_TOPIC", "gallery"),

		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "humanity_verse"),
		SQLitePath: getEnv("SQLITE_PATH", "data/humanity-verse.db"),
		RedisURL:   getEnv("REDIS_URL", ""),

		AuthProvider: strings.ToLower(getEnv("AUTH_PROVIDER", AuthFirebase)),

		UploadDriver:           strings.ToLower(getEnv("UPLOAD_DRIVER", UploadCloudinary)),
		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "unsigned_preset"),
		CloudinaryFolder:       getEnv("CLOUDINARY_FOLDER", "gallery"),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		S3Region:               getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:             getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:          getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:      getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL:        strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),

		EmailJSServiceID:  getEnv("EMAILJS_SERVICE_ID", ""),
		EmailJSTemplateID: getEnv("EMAILJS_TEMPLATE_ID", ""),
		EmailJSPublicKey:  getEnv("EMAILJS_PUBLIC_KEY", ""),
		EmailJSPrivateKey: getEnv("EMAILJS_PRIVATE_KEY", ""),

		MailchimpAPIKey:       getEnv("MAILCHIMP_API_KEY", ""),
		MailchimpListID:       getEnv("MAILCHIMP_LIST_ID", ""),
		MailchimpServerPrefix: getEnv("MAILCHIMP_SERVER_PREFIX", ""),

		FlutterwavePublicKey:  getEnv("FLW_PUBLIC_KEY", ""),
		FlutterwaveSecretKey:  getEnv("FLW_SECRET_KEY", ""),
		FlutterwaveSecretHash: getEnv("FLW_SECRET_HASH", ""),
		FlutterwaveBaseURL:    strings.TrimRight(getEnv("FLW_BASE_URL", "https://api.flutterwave.com"), "/"),

		GAMeasurementID: getEnv("GA_MEASUREMENT_ID", ""),
	}

	// Valider les configurations critiques
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET est requis")
	}

	switch config.StoreDriver {
	case StoreFirestore, StoreMongo, StoreSQLite, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER inconnu: %s", config.StoreDriver)
	}

	switch config.AuthProvider {
	case AuthFirebase, AuthLocal:
	default:
		return nil, fmt.Errorf("AUTH_PROVIDER inconnu: %s", config.AuthProvider)
	}

	switch config.UploadDriver {
	case UploadCloudinary, UploadS3:
	default:
		return nil, fmt.Errorf("UPLOAD_DRIVER inconnu: %s", config.UploadDriver)
	}

	// La connexion email/mot de passe Firebase passe par la clé d'API web
	if config.AuthProvider == AuthFirebase && config.FirebaseWebAPIKey == "" {
		return nil, fmt.Errorf("FIREBASE_WEB_API_KEY est requis avec AUTH_PROVIDER=firebase")
	}

	return config, nil
}

// IsDevelopment indique si l'application tourne en local
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// NeedsFirebase indique si une application Firebase doit être initialisée
func (c *Config) NeedsFirebase() bool {
	return c.StoreDriver == StoreFirestore || c.AuthProvider == AuthFirebase
}

// getEnv récupère une variable d'environnement avec une valeur par défaut
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList découpe une liste séparée par des virgules
func getEnvList(key, defaultValue string) []string {
	raw := strings.Split(getEnv(key, defaultValue), ",")
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// Accepter aussi un nombre de secondes
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
