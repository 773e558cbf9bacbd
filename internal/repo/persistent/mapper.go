package persistent

import (
	"encoding/json"

	"daemon/internal/entity"
	"daemon/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		Username:  m.Username,
		Password:  m.Password,
		IsAdmin:   m.IsAdmin,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:        e.ID,
		Email:     e.Email,
		Username:  e.Username,
		Password:  e.Password,
		IsAdmin:   e.IsAdmin,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToEndpointEntity(m *model.EndpointModel) *entity.Endpoint {
	if m == nil {
		return nil
	}

	return &entity.Endpoint{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		SchemaType:  entity.SchemaType(m.SchemaType),
		IsPublic:    m.IsPublic,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToEndpointModel(e *entity.Endpoint) *model.EndpointModel {
	if e == nil {
		return nil
	}

	return &model.EndpointModel{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		SchemaType:  string(e.SchemaType),
		IsPublic:    e.IsPublic,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToEntryEntity(m *model.DataEntryModel) (*entity.DataEntry, error) {
	if m == nil {
		return nil, nil
	}

	data := make(map[string]interface{})
	if len(m.Data) > 0 {
		if err := json.Unmarshal(m.Data, &data); err != nil {
			return nil, err
		}
	}

	return &entity.DataEntry{
		ID:          m.ID,
		EndpointID:  m.EndpointID,
		CreatedByID: m.CreatedByID,
		IsActive:    m.IsActive,
		Data:        data,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func ToEntryModel(e *entity.DataEntry) (*model.DataEntryModel, error) {
	if e == nil {
		return nil, nil
	}

	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}

	return &model.DataEntryModel{
		ID:          e.ID,
		EndpointID:  e.EndpointID,
		CreatedByID: e.CreatedByID,
		IsActive:    e.IsActive,
		Data:        data,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}, nil
}
