package persistent

import (
	"daemon/internal/entity"
	"daemon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryRepository interface {
	Create(entry *entity.DataEntry) error
	GetByID(id string) (*entity.DataEntry, error)
	Update(entry *entity.DataEntry) error
	SoftDelete(id string) error
	ListActiveByEndpoint(endpointID, ownerID string) ([]*entity.DataEntry, error)
	ListAllActive() ([]*entity.DataEntry, error)
	Count() (int64, error)
}

type entryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(entry *entity.DataEntry) error {
	entryModel, err := ToEntryModel(entry)
	if err != nil {
		return err
	}
	if entryModel.ID == "" {
		entryModel.ID = uuid.New().String()
	}
	if err := r.db.Create(entryModel).Error; err != nil {
		return err
	}

	created, err := ToEntryEntity(entryModel)
	if err != nil {
		return err
	}
	*entry = *created
	return nil
}

func (r *entryRepository) GetByID(id string) (*entity.DataEntry, error) {
	var entryModel model.DataEntryModel
	if err := r.db.Where("id = ?", id).First(&entryModel).Error; err != nil {
		return nil, err
	}
	return ToEntryEntity(&entryModel)
}

func (r *entryRepository) Update(entry *entity.DataEntry) error {
	entryModel, err := ToEntryModel(entry)
	if err != nil {
		return err
	}
	return r.db.Save(entryModel).Error
}

// SoftDelete flips is_active off. Inactive entries are excluded from every
// surface, so this is the only delete the API exposes.
func (r *entryRepository) SoftDelete(id string) error {
	return r.db.Model(&model.DataEntryModel{}).Where("id = ?", id).Update("is_active", false).Error
}

// ListActiveByEndpoint returns active entries for one endpoint, optionally
// limited to a single owner. Pagination is not applied here: visibility
// filtering must run before page boundaries are computed.
func (r *entryRepository) ListActiveByEndpoint(endpointID, ownerID string) ([]*entity.DataEntry, error) {
	query := r.db.Where("endpoint_id = ? AND is_active = ?", endpointID, true)
	if ownerID != "" {
		query = query.Where("created_by_id = ?", ownerID)
	}

	var entryModels []model.DataEntryModel
	if err := query.Order("created_at DESC").Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*entity.DataEntry, 0, len(entryModels))
	for i := range entryModels {
		entry, err := ToEntryEntity(&entryModels[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *entryRepository) ListAllActive() ([]*entity.DataEntry, error) {
	var entryModels []model.DataEntryModel
	if err := r.db.Where("is_active = ?", true).Order("created_at DESC").Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*entity.DataEntry, 0, len(entryModels))
	for i := range entryModels {
		entry, err := ToEntryEntity(&entryModels[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *entryRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.DataEntryModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
