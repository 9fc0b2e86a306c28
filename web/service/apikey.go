package service

import (
	"context"

	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/util/crypto"
	"github.com/quillpress/quillpress/util/random"

	"gorm.io/gorm"
)

const (
	apiKeyPrefix = "qp_"
	apiKeyLength = 40
)

// APIKeyService issues and revokes API keys. Keys are not accepted for request
// authentication; only their lifecycle is managed here.
type APIKeyService struct {
	db *gorm.DB
}

func NewAPIKeyService(db *gorm.DB) *APIKeyService {
	return &APIKeyService{db: db}
}

// Issue creates an active key for the owner and returns the raw secret. Only its
// digest is stored, so this is the only time the secret is available.
func (s *APIKeyService) Issue(ctx context.Context, ownerId uint) (*model.APIKey, string, error) {
	raw := random.Key(apiKeyPrefix, apiKeyLength)
	key := &model.APIKey{
		CreatedBy: ownerId,
		Key:       crypto.DigestSecret(raw),
		Active:    true,
	}
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return nil, "", err
	}
	logger.Infof("api key %d issued to user %d", key.Id, ownerId)
	return key, raw, nil
}

// Revoke deactivates a key owned by the caller. Revoking an inactive key succeeds.
func (s *APIKeyService) Revoke(ctx context.Context, callerId, keyId uint) error {
	db := s.db.WithContext(ctx)
	key := &model.APIKey{}
	if err := db.First(key, keyId).Error; err != nil {
		if database.IsNotFound(err) {
			return common.NewNotFoundError("api key not found")
		}
		return err
	}
	if key.CreatedBy != callerId {
		return common.NewForbiddenError("you can only revoke your own api keys")
	}
	if err := db.Model(key).Update("active", false).Error; err != nil {
		return err
	}
	logger.Infof("api key %d revoked by user %d", keyId, callerId)
	return nil
}
