package usecase

import (
	"errors"
	"fmt"

	"daemon/internal/entity"
	"daemon/internal/privacy"
	"daemon/internal/repo/persistent"
	"daemon/internal/scope"
	"daemon/pkg/logger"
	"daemon/pkg/queue"

	"gorm.io/gorm"
)

// EntryPage is a filtered listing. Count is the post-filter total: page
// boundaries and counts never reveal how many hidden entries exist.
type EntryPage struct {
	Endpoint string                   `json:"endpoint"`
	Entries  []map[string]interface{} `json:"entries"`
	Count    int                      `json:"count"`
}

// EntryView is a single-item result. Visible false means the caller gets an
// explicit "no visible content" outcome instead of a 404, so the response
// cannot be used to distinguish "doesn't exist" from "exists but hidden".
type EntryView struct {
	Endpoint string
	Data     map[string]interface{}
	Visible  bool
}

type DataUseCase interface {
	ResolveDirectTarget(identity entity.Identity) (string, error)
	ListEntries(endpointName, username string, identity entity.Identity, level entity.PrivacyLevel, limit, offset int) (*EntryPage, error)
	GetEntry(endpointName, entryID string, identity entity.Identity, level entity.PrivacyLevel) (*EntryView, error)
	CreateEntry(endpointName string, identity entity.Identity, data map[string]interface{}) (*entity.DataEntry, error)
	UpdateEntry(endpointName, entryID string, identity entity.Identity, data map[string]interface{}) (*entity.DataEntry, error)
	DeleteEntry(endpointName, entryID string, identity entity.Identity) error
	ListPublicEndpoints() ([]*entity.Endpoint, error)
	ListPublicEntries(endpointName string, limit int) ([]map[string]interface{}, error)
}

type dataUseCase struct {
	userRepo     persistent.UserRepository
	endpointRepo persistent.EndpointRepository
	entryRepo    persistent.EntryRepository
	registry     *privacy.Registry
	queueClient  *queue.Client
	logger       *logger.Logger
}

func NewDataUseCase(
	userRepo persistent.UserRepository,
	endpointRepo persistent.EndpointRepository,
	entryRepo persistent.EntryRepository,
	registry *privacy.Registry,
	queueClient *queue.Client,
	logger *logger.Logger,
) DataUseCase {
	return &dataUseCase{
		userRepo:     userRepo,
		endpointRepo: endpointRepo,
		entryRepo:    entryRepo,
		registry:     registry,
		queueClient:  queueClient,
		logger:       logger,
	}
}

// ResolveDirectTarget decides which user's data a direct endpoint request
// addresses. The mode is recomputed from the user count on every call, so
// registering a second user immediately flips unauthenticated direct access
// to the ambiguous-scope rejection.
func (uc *dataUseCase) ResolveDirectTarget(identity entity.Identity) (string, error) {
	count, err := uc.userRepo.Count()
	if err != nil {
		return "", fmt.Errorf("failed to count users: %w", err)
	}

	mode := scope.DetermineMode(count)

	switch scope.ResolveDirectScope(mode, identity) {
	case scope.ScopeSoleUser:
		user, err := uc.userRepo.GetSoleUser()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrNotFound
			}
			return "", fmt.Errorf("failed to resolve sole user: %w", err)
		}
		return user.Username, nil
	case scope.ScopeCaller:
		user, err := uc.userRepo.GetByID(identity.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrNotFound
			}
			return "", fmt.Errorf("failed to resolve caller: %w", err)
		}
		return user.Username, nil
	default:
		return "", ErrAmbiguousScope
	}
}

func (uc *dataUseCase) ListEntries(endpointName, username string, identity entity.Identity, level entity.PrivacyLevel, limit, offset int) (*EntryPage, error) {
	endpoint, err := uc.resolveEndpoint(endpointName, identity)
	if err != nil {
		return nil, err
	}

	ownerID := ""
	if username != "" {
		user, err := uc.userRepo.GetByUsername(username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		ownerID = user.ID
	}

	entries, err := uc.entryRepo.ListActiveByEndpoint(endpoint.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	// Visibility runs per entry before pagination so page boundaries reflect
	// only what this viewer may see.
	rendered := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		viewer := scope.ResolveViewer(identity, entry.CreatedByID, entity.ChannelREST)
		if !privacy.IsVisible(entry, viewer) {
			continue
		}
		rendered = append(rendered, uc.renderEntry(endpoint, entry, level, viewer))
	}

	total := len(rendered)
	rendered = paginate(rendered, limit, offset)

	return &EntryPage{
		Endpoint: endpoint.Name,
		Entries:  rendered,
		Count:    total,
	}, nil
}

func (uc *dataUseCase) GetEntry(endpointName, entryID string, identity entity.Identity, level entity.PrivacyLevel) (*EntryView, error) {
	endpoint, err := uc.resolveEndpoint(endpointName, identity)
	if err != nil {
		return nil, err
	}

	hidden := &EntryView{Endpoint: endpoint.Name, Visible: false}

	entry, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		// Only a genuine missing record gets the same outcome as a hidden
		// entry; a storage failure must surface as one.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return hidden, nil
		}
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	if entry.EndpointID != endpoint.ID {
		return hidden, nil
	}

	viewer := scope.ResolveViewer(identity, entry.CreatedByID, entity.ChannelREST)
	if !privacy.IsVisible(entry, viewer) {
		return hidden, nil
	}

	return &EntryView{
		Endpoint: endpoint.Name,
		Data:     uc.renderEntry(endpoint, entry, level, viewer),
		Visible:  true,
	}, nil
}

func (uc *dataUseCase) CreateEntry(endpointName string, identity entity.Identity, data map[string]interface{}) (*entity.DataEntry, error) {
	if !identity.Authenticated {
		return nil, ErrForbidden
	}

	endpoint, err := uc.resolveEndpoint(endpointName, identity)
	if err != nil {
		return nil, err
	}

	entry := &entity.DataEntry{
		EndpointID:  endpoint.ID,
		CreatedByID: identity.UserID,
		IsActive:    true,
		Data:        data,
	}

	if err := uc.entryRepo.Create(entry); err != nil {
		uc.logger.Error("Failed to create entry: %v", err)
		return nil, fmt.Errorf("failed to create entry")
	}

	if uc.queueClient != nil {
		go func() {
			event := map[string]interface{}{
				"type":     "entry_created",
				"entry_id": entry.ID,
				"endpoint": endpoint.Name,
				"owner_id": entry.CreatedByID,
			}
			if err := uc.queueClient.PublishEntryEvent(event); err != nil {
				uc.logger.Error("Failed to publish entry event: %v", err)
			}
		}()
	}

	return entry, nil
}

func (uc *dataUseCase) UpdateEntry(endpointName, entryID string, identity entity.Identity, data map[string]interface{}) (*entity.DataEntry, error) {
	entry, err := uc.ownedEntry(endpointName, entryID, identity)
	if err != nil {
		return nil, err
	}

	entry.Data = data
	if err := uc.entryRepo.Update(entry); err != nil {
		uc.logger.Error("Failed to update entry: %v", err)
		return nil, fmt.Errorf("failed to update entry")
	}

	return entry, nil
}

func (uc *dataUseCase) DeleteEntry(endpointName, entryID string, identity entity.Identity) error {
	entry, err := uc.ownedEntry(endpointName, entryID, identity)
	if err != nil {
		return err
	}

	if err := uc.entryRepo.SoftDelete(entry.ID); err != nil {
		uc.logger.Error("Failed to delete entry: %v", err)
		return fmt.Errorf("failed to delete entry")
	}
	return nil
}

func (uc *dataUseCase) ListPublicEndpoints() ([]*entity.Endpoint, error) {
	return uc.endpointRepo.ListPublic()
}

// ListPublicEntries serves the MCP tool surface. The viewer is forced to
// anonymous regardless of credentials, so structured records always go
// through the sensitive-field floor and non-public entries never appear.
func (uc *dataUseCase) ListPublicEntries(endpointName string, limit int) ([]map[string]interface{}, error) {
	endpoint, err := uc.endpointRepo.GetByName(endpointName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch endpoint: %w", err)
	}
	if !endpoint.IsActive || !endpoint.IsPublic {
		return nil, ErrNotFound
	}

	entries, err := uc.entryRepo.ListActiveByEndpoint(endpoint.ID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	viewer := scope.ResolveViewer(entity.Identity{}, "", entity.ChannelMCP)

	rendered := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		if !privacy.IsVisible(entry, viewer) {
			continue
		}
		rendered = append(rendered, uc.renderEntry(endpoint, entry, entity.PrivacyAISafe, viewer))
		if limit > 0 && len(rendered) >= limit {
			break
		}
	}

	return rendered, nil
}

// resolveEndpoint looks up an endpoint and hides non-public ones from
// anonymous callers behind the same vague not-found.
func (uc *dataUseCase) resolveEndpoint(endpointName string, identity entity.Identity) (*entity.Endpoint, error) {
	endpoint, err := uc.endpointRepo.GetByName(endpointName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch endpoint: %w", err)
	}
	if !endpoint.IsActive {
		return nil, ErrNotFound
	}
	if !endpoint.IsPublic && !identity.Authenticated {
		return nil, ErrNotFound
	}
	return endpoint, nil
}

func (uc *dataUseCase) ownedEntry(endpointName, entryID string, identity entity.Identity) (*entity.DataEntry, error) {
	endpoint, err := uc.resolveEndpoint(endpointName, identity)
	if err != nil {
		return nil, err
	}

	entry, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	if entry.EndpointID != endpoint.ID {
		return nil, ErrNotFound
	}

	viewer := scope.ResolveViewer(identity, entry.CreatedByID, entity.ChannelREST)
	if !viewer.Trusted() {
		return nil, ErrForbidden
	}

	return entry, nil
}

func (uc *dataUseCase) renderEntry(endpoint *entity.Endpoint, entry *entity.DataEntry, level entity.PrivacyLevel, viewer entity.Viewer) map[string]interface{} {
	var data map[string]interface{}
	if endpoint.SchemaType == entity.SchemaStructured {
		data = privacy.Apply(entry.Data, level, viewer, uc.registry)
	} else {
		// Freeform entries that survived the visibility filter are returned
		// with full content.
		data = entry.Data
	}

	return map[string]interface{}{
		"id":         entry.ID,
		"data":       data,
		"created_at": entry.CreatedAt,
		"updated_at": entry.UpdatedAt,
	}
}

func paginate(entries []map[string]interface{}, limit, offset int) []map[string]interface{} {
	if offset >= len(entries) {
		return []map[string]interface{}{}
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}
