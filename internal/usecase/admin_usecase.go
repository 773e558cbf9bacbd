package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"daemon/internal/repo/persistent"
	"daemon/pkg/logger"
	"daemon/pkg/s3"
)

type AdminUseCase interface {
	Stats() (map[string]interface{}, error)
	Backup() (string, error)
}

type adminUseCase struct {
	userRepo     persistent.UserRepository
	endpointRepo persistent.EndpointRepository
	entryRepo    persistent.EntryRepository
	s3Client     *s3.Client
	logger       *logger.Logger
}

func NewAdminUseCase(
	userRepo persistent.UserRepository,
	endpointRepo persistent.EndpointRepository,
	entryRepo persistent.EntryRepository,
	s3Client *s3.Client,
	logger *logger.Logger,
) AdminUseCase {
	return &adminUseCase{
		userRepo:     userRepo,
		endpointRepo: endpointRepo,
		entryRepo:    entryRepo,
		s3Client:     s3Client,
		logger:       logger,
	}
}

func (uc *adminUseCase) Stats() (map[string]interface{}, error) {
	userCount, err := uc.userRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	entryCount, err := uc.entryRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	endpoints, err := uc.endpointRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list endpoints: %w", err)
	}

	return map[string]interface{}{
		"users":     userCount,
		"entries":   entryCount,
		"endpoints": len(endpoints),
	}, nil
}

// Backup uploads a JSON snapshot of all endpoints and active entries to S3
// and returns the object URL.
func (uc *adminUseCase) Backup() (string, error) {
	if uc.s3Client == nil {
		return "", fmt.Errorf("backup storage is not configured")
	}

	endpoints, err := uc.endpointRepo.ListAll()
	if err != nil {
		return "", fmt.Errorf("failed to list endpoints: %w", err)
	}

	entries, err := uc.entryRepo.ListAllActive()
	if err != nil {
		return "", fmt.Errorf("failed to list entries: %w", err)
	}

	snapshot := map[string]interface{}{
		"created_at": time.Now().UTC(),
		"endpoints":  endpoints,
		"entries":    entries,
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("backups/daemon-%s.json", time.Now().UTC().Format("20060102-150405"))
	url, err := uc.s3Client.UploadFile(key, bytes.NewReader(body), "application/json")
	if err != nil {
		uc.logger.Error("Failed to upload backup: %v", err)
		return "", fmt.Errorf("failed to upload backup")
	}

	uc.logger.Info("Backup uploaded: %s", url)
	return url, nil
}
