package main

import (
	"encoding/json"
	"fmt"

	"daemon/internal/model"
	"daemon/pkg/config"
	"daemon/pkg/database"
	"daemon/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	owner, err := seedOwner(db, log)
	if err != nil {
		return err
	}

	endpoints, err := seedEndpoints(db, log)
	if err != nil {
		return err
	}

	return seedEntries(db, log, owner, endpoints)
}

func seedOwner(db *gorm.DB, log *logger.Logger) (*model.UserModel, error) {
	var existing model.UserModel
	result := db.Where("username = ?", "daemon").First(&existing)
	if result.Error == nil {
		log.Info("Owner user already exists, skipping")
		return &existing, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	owner := &model.UserModel{
		Email:    "daemon@localhost",
		Username: "daemon",
		Password: string(hashedPassword),
		IsAdmin:  true,
		IsActive: true,
	}
	if err := owner.BeforeCreate(nil); err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}
	if err := db.Create(owner).Error; err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	log.Info("Created owner user: %s (%s)", owner.Username, owner.Email)
	return owner, nil
}

func seedEndpoints(db *gorm.DB, log *logger.Logger) (map[string]*model.EndpointModel, error) {
	defaults := []struct {
		name        string
		description string
		schemaType  string
		isPublic    bool
	}{
		{"resume", "Structured resume with work history and contact details", "structured", true},
		{"about", "Short personal introduction", "freeform", true},
		{"ideas", "Project ideas and notes", "freeform", true},
		{"skills", "Technical skills and tooling", "freeform", true},
		{"projects", "Past and current projects", "freeform", true},
		{"favorite_books", "Reading list", "freeform", true},
		{"problems", "Problems currently being worked on", "freeform", true},
		{"looking_for", "Collaboration and opportunity interests", "freeform", true},
	}

	endpoints := make(map[string]*model.EndpointModel, len(defaults))

	for _, d := range defaults {
		var existing model.EndpointModel
		result := db.Where("name = ?", d.name).First(&existing)
		if result.Error == nil {
			log.Info("Endpoint %s already exists, skipping", d.name)
			endpoints[d.name] = &existing
			continue
		}

		endpoint := &model.EndpointModel{
			Name:        d.name,
			Description: d.description,
			SchemaType:  d.schemaType,
			IsPublic:    d.isPublic,
			IsActive:    true,
		}
		if err := endpoint.BeforeCreate(nil); err != nil {
			return nil, fmt.Errorf("failed to generate endpoint ID: %w", err)
		}
		if err := db.Create(endpoint).Error; err != nil {
			return nil, fmt.Errorf("failed to create endpoint %s: %w", d.name, err)
		}

		log.Info("Created endpoint: %s", endpoint.Name)
		endpoints[d.name] = endpoint
	}

	return endpoints, nil
}

func seedEntries(db *gorm.DB, log *logger.Logger, owner *model.UserModel, endpoints map[string]*model.EndpointModel) error {
	samples := []struct {
		endpoint string
		data     map[string]interface{}
	}{
		{
			endpoint: "resume",
			data: map[string]interface{}{
				"name":  "Daemon Owner",
				"title": "Software Engineer",
				"contact": map[string]interface{}{
					"email":          "hello@example.com",
					"personal_email": "private@example.com",
					"phone":          "+1-555-0100",
					"website":        "https://example.com",
					"github":         "daemon",
				},
				"location": map[string]interface{}{
					"city":    "Berlin",
					"country": "Germany",
				},
				"experience": []interface{}{
					map[string]interface{}{
						"company":  "Example Corp",
						"position": "Senior Engineer",
						"salary":   120000,
					},
				},
			},
		},
		{
			endpoint: "about",
			data: map[string]interface{}{
				"content": "Engineer interested in APIs, privacy and automation.",
			},
		},
		{
			endpoint: "ideas",
			data: map[string]interface{}{
				"title":   "Personal API",
				"content": "Expose structured personal data behind privacy filters.",
				"meta": map[string]interface{}{
					"visibility": "public",
					"tags":       []interface{}{"api", "privacy"},
				},
			},
		},
		{
			endpoint: "ideas",
			data: map[string]interface{}{
				"title":   "Secret startup idea",
				"content": "Not ready to share this one yet.",
				"meta": map[string]interface{}{
					"visibility": "private",
				},
			},
		},
		{
			endpoint: "skills",
			data: map[string]interface{}{
				"languages": []interface{}{"Go", "Python", "SQL"},
				"tools":     []interface{}{"PostgreSQL", "Redis", "RabbitMQ"},
			},
		},
	}

	skip := make(map[string]bool, len(endpoints))
	for name, endpoint := range endpoints {
		var count int64
		db.Model(&model.DataEntryModel{}).Where("endpoint_id = ?", endpoint.ID).Count(&count)
		if count > 0 {
			log.Info("Endpoint %s already has entries, skipping samples", name)
			skip[name] = true
		}
	}

	for _, s := range samples {
		endpoint, ok := endpoints[s.endpoint]
		if !ok || skip[s.endpoint] {
			continue
		}

		raw, err := json.Marshal(s.data)
		if err != nil {
			return fmt.Errorf("failed to marshal sample data: %w", err)
		}

		entry := &model.DataEntryModel{
			EndpointID:  endpoint.ID,
			CreatedByID: owner.ID,
			IsActive:    true,
			Data:        raw,
		}
		if err := entry.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate entry ID: %w", err)
		}
		if err := db.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create sample entry for %s: %w", s.endpoint, err)
		}

		log.Info("Created sample entry for endpoint: %s", s.endpoint)
	}

	return nil
}
