package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const cloudinaryBaseURL = "https://api.cloudinary.com"

// CloudinaryUploader envoie les images en upload non signé (upload preset)
type CloudinaryUploader struct {
	baseURL      string
	cloudName    string
	uploadPreset string
	folder       string
	client       *http.Client
	logger       *zap.Logger
}

// CloudinaryUploadResponse représente la réponse de Cloudinary
type CloudinaryUploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Format    string `json:"format"`
	Bytes     int    `json:"bytes"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewCloudinaryUploader crée une nouvelle instance
func NewCloudinaryUploader(cloudName, uploadPreset, folder string, logger *zap.Logger) (*CloudinaryUploader, error) {
	if cloudName == "" || uploadPreset == "" {
		return nil, fmt.Errorf("%w: CLOUDINARY_CLOUD_NAME et CLOUDINARY_UPLOAD_PRESET sont requis", ErrNotConfigured)
	}
	return &CloudinaryUploader{
		baseURL:      cloudinaryBaseURL,
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		folder:       folder,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}, nil
}

// Upload envoie le fichier vers Cloudinary et retourne secure_url
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	uploadURL := fmt.Sprintf("%s/v1_1/%s/image/upload", strings.TrimRight(u.baseURL, "/"), u.cloudName)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("erreur lors de la lecture du fichier: %w", err)
	}
	if err := writer.WriteField("upload_preset", u.uploadPreset); err != nil {
		return "", err
	}
	if u.folder != "" {
		if err := writer.WriteField("folder", u.folder); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("erreur lors de l'envoi à Cloudinary: %w", err)
	}
	defer resp.Body.Close()

	var cloudinaryResp CloudinaryUploadResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&cloudinaryResp)

	if resp.StatusCode != http.StatusOK {
		remote := &RemoteError{Service: "cloudinary", StatusCode: resp.StatusCode}
		if decodeErr == nil && cloudinaryResp.Error != nil {
			remote.Message = cloudinaryResp.Error.Message
		}
		u.logger.Error("❌ Cloudinary error", zap.Int("status", resp.StatusCode), zap.String("message", remote.Message))
		return "", remote
	}
	if decodeErr != nil {
		return "", fmt.Errorf("réponse Cloudinary illisible: %w", decodeErr)
	}
	if cloudinaryResp.SecureURL == "" {
		return "", &RemoteError{Service: "cloudinary", StatusCode: resp.StatusCode, Message: "Upload failed: no URL returned"}
	}

	u.logger.Info("✅ Upload Cloudinary réussi", zap.String("url", cloudinaryResp.SecureURL))
	return cloudinaryResp.SecureURL, nil
}
