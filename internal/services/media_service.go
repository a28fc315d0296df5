package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/config"
	"pickupapp/internal/utils"
	"pickupapp/pkg/logger"
	"pickupapp/pkg/storage"
)

const profileImageQuality = 85

// MediaService turns inline portfolio photos into stored objects.
type MediaService interface {
	// StoreProfileImage returns the public URL for payload. Plain http(s) links
	// are returned unchanged; data URLs and bare base64 are decoded, bounded in
	// size, re-encoded as JPEG and uploaded.
	StoreProfileImage(ctx context.Context, driverID primitive.ObjectID, payload string) (string, error)
}

type mediaService struct {
	storage storage.StorageProvider
	config  *config.StorageConfig
	logger  *logger.Logger
}

func NewMediaService(provider storage.StorageProvider, cfg *config.StorageConfig, logger *logger.Logger) MediaService {
	return &mediaService{
		storage: provider,
		config:  cfg,
		logger:  logger,
	}
}

func (s *mediaService) StoreProfileImage(ctx context.Context, driverID primitive.ObjectID, payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" || strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return payload, nil
	}

	raw, err := utils.DecodeImagePayload(payload, s.config.MaxImageBytes)
	if err != nil {
		return "", imageError(err)
	}

	normalized, err := utils.NormalizeImage(raw, s.config.MaxImageWidth, s.config.MaxImageHeight, profileImageQuality)
	if err != nil {
		return "", imageError(err)
	}

	key := fmt.Sprintf("portfolios/%s/%s.jpg", driverID.Hex(), uuid.NewString())
	resp, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:          key,
		Reader:       bytes.NewReader(normalized),
		ContentType:  "image/jpeg",
		Size:         int64(len(normalized)),
		CacheControl: "public, max-age=31536000",
		Metadata:     map[string]string{"driver_id": driverID.Hex()},
	})
	if err != nil {
		return "", utils.NewInternalError(err)
	}

	s.logger.WithDriverID(driverID).WithField("key", key).Info("Profile image stored")
	return resp.URL, nil
}

func imageError(err error) error {
	switch {
	case errors.Is(err, utils.ErrImageTooLarge):
		return utils.NewInvalidArgumentError("profile_image is too large")
	case errors.Is(err, utils.ErrInvalidImage):
		return utils.NewInvalidArgumentError("profile_image is not a valid JPEG or PNG image")
	default:
		return utils.NewInternalError(err)
	}
}
