package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/secrets"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/specification"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/unitofwork"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

type IAPIKeyService interface {
	Save(ctx context.Context, userID uuid.UUID, req *dto.SaveAPIKeyRequest) (*dto.APIKeyResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]*dto.APIKeyResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, provider string) error

	// Verify round-trips the stored key against the provider.
	Verify(ctx context.Context, userID uuid.UUID, provider string) error

	// Plaintext returns the stored key for a provider, or empty when the
	// user has none. Internal use only; never reaches a response body.
	Plaintext(ctx context.Context, userID uuid.UUID, provider string) (string, error)
}

type apiKeyService struct {
	uowFactory unitofwork.RepositoryFactory
	box        *secrets.Box
	verifier   IKeyVerifier
	log        logger.ILogger
}

func NewAPIKeyService(uowFactory unitofwork.RepositoryFactory, box *secrets.Box, verifier IKeyVerifier, log logger.ILogger) IAPIKeyService {
	return &apiKeyService{
		uowFactory: uowFactory,
		box:        box,
		verifier:   verifier,
		log:        log,
	}
}

func (s *apiKeyService) Save(ctx context.Context, userID uuid.UUID, req *dto.SaveAPIKeyRequest) (*dto.APIKeyResponse, error) {
	trimmed := strings.TrimSpace(req.Key)
	if trimmed == "" {
		return nil, chat.NewStatusError(400, "key cannot be empty")
	}

	sealed, err := s.box.Seal([]byte(trimmed))
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	key := &entity.UserAPIKey{
		Id:         uuid.New(),
		UserId:     userID,
		Provider:   req.Provider,
		Ciphertext: sealed,
		CreatedAt:  time.Now(),
	}
	if err := uow.APIKeyRepository().Upsert(ctx, key); err != nil {
		return nil, err
	}

	return &dto.APIKeyResponse{
		Provider:  key.Provider,
		MaskedKey: maskKey(trimmed),
		UpdatedAt: time.Now(),
	}, nil
}

func (s *apiKeyService) List(ctx context.Context, userID uuid.UUID) ([]*dto.APIKeyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	keys, err := uow.APIKeyRepository().FindAll(ctx, specification.OwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		plaintext, err := s.box.Open(k.Ciphertext)
		if err != nil {
			// Undecryptable rows (rotated secret) are skipped, not fatal.
			s.log.Warn("apikey", "failed to open sealed key", map[string]interface{}{
				"provider": k.Provider,
			})
			continue
		}
		updated := k.CreatedAt
		if k.UpdatedAt != nil {
			updated = *k.UpdatedAt
		}
		out = append(out, &dto.APIKeyResponse{
			Provider:  k.Provider,
			MaskedKey: maskKey(string(plaintext)),
			UpdatedAt: updated,
		})
	}
	return out, nil
}

func (s *apiKeyService) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.APIKeyRepository().Delete(ctx, userID, provider)
}

func (s *apiKeyService) Verify(ctx context.Context, userID uuid.UUID, provider string) error {
	key, err := s.Plaintext(ctx, userID, provider)
	if err != nil {
		return err
	}
	if key == "" {
		return chat.NewStatusError(404, "no key stored for provider")
	}

	if err := s.verifier.Verify(ctx, provider, key); err != nil {
		if chat.StatusCode(err) == 401 {
			// The provider rejected the credential itself; that is a
			// client problem, not an upstream auth problem of ours.
			return chat.NewStatusError(400, "provider rejected the api key")
		}
		return err
	}
	return nil
}

func (s *apiKeyService) Plaintext(ctx context.Context, userID uuid.UUID, provider string) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	key, err := uow.APIKeyRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userID},
		specification.ByProvider{Provider: provider},
	)
	if err != nil {
		return "", err
	}
	if key == nil {
		return "", nil
	}

	plaintext, err := s.box.Open(key.Ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// maskKey keeps only the last four characters visible.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
