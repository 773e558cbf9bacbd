package persistent

import (
	"daemon/internal/entity"
	"daemon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EndpointRepository interface {
	Create(endpoint *entity.Endpoint) error
	GetByName(name string) (*entity.Endpoint, error)
	ListPublic() ([]*entity.Endpoint, error)
	ListAll() ([]*entity.Endpoint, error)
}

type endpointRepository struct {
	db *gorm.DB
}

func NewEndpointRepository(db *gorm.DB) EndpointRepository {
	return &endpointRepository{db: db}
}

func (r *endpointRepository) Create(endpoint *entity.Endpoint) error {
	endpointModel := ToEndpointModel(endpoint)
	if endpointModel.ID == "" {
		endpointModel.ID = uuid.New().String()
	}
	if err := r.db.Create(endpointModel).Error; err != nil {
		return err
	}
	*endpoint = *ToEndpointEntity(endpointModel)
	return nil
}

func (r *endpointRepository) GetByName(name string) (*entity.Endpoint, error) {
	var endpointModel model.EndpointModel
	if err := r.db.Where("name = ?", name).First(&endpointModel).Error; err != nil {
		return nil, err
	}
	return ToEndpointEntity(&endpointModel), nil
}

func (r *endpointRepository) ListPublic() ([]*entity.Endpoint, error) {
	var endpointModels []model.EndpointModel
	if err := r.db.Where("is_public = ? AND is_active = ?", true, true).Order("name ASC").Find(&endpointModels).Error; err != nil {
		return nil, err
	}

	endpoints := make([]*entity.Endpoint, len(endpointModels))
	for i := range endpointModels {
		endpoints[i] = ToEndpointEntity(&endpointModels[i])
	}
	return endpoints, nil
}

func (r *endpointRepository) ListAll() ([]*entity.Endpoint, error) {
	var endpointModels []model.EndpointModel
	if err := r.db.Order("name ASC").Find(&endpointModels).Error; err != nil {
		return nil, err
	}

	endpoints := make([]*entity.Endpoint, len(endpointModels))
	for i := range endpointModels {
		endpoints[i] = ToEndpointEntity(&endpointModels[i])
	}
	return endpoints, nil
}
