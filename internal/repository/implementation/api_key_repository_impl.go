package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/mapper"
	"github.com/SuryaSekhar14/s3rd-chat/internal/model"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/contract"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/specification"
)

type APIKeyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewAPIKeyRepository(db *gorm.DB) contract.APIKeyRepository {
	return &APIKeyRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *APIKeyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert replaces the sealed key for (user, provider) so re-saving a key
// never errors on the unique index.
func (r *APIKeyRepositoryImpl) Upsert(ctx context.Context, key *entity.UserAPIKey) error {
	m := r.mapper.APIKeyToModel(key)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"ciphertext", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*key = *r.mapper.APIKeyToEntity(m)
	return nil
}

func (r *APIKeyRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID, provider string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userId, provider).
		Delete(&model.UserAPIKey{}).Error
}

func (r *APIKeyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserAPIKey, error) {
	var m model.UserAPIKey
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.APIKeyToEntity(&m), nil
}

func (r *APIKeyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserAPIKey, error) {
	var models []*model.UserAPIKey
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UserAPIKey, len(models))
	for i, m := range models {
		entities[i] = r.mapper.APIKeyToEntity(m)
	}
	return entities, nil
}
