package privacy

import (
	"testing"

	"daemon/internal/entity"

	"github.com/stretchr/testify/assert"
)

func sampleResume() map[string]interface{} {
	return map[string]interface{}{
		"name":  "Jane Doe",
		"title": "Software Engineer",
		"ssn":   "123-45-6789",
		"contact": map[string]interface{}{
			"email":          "jane@example.com",
			"personal_email": "jane.private@example.com",
			"phone":          "+1-555-0100",
			"website":        "https://jane.dev",
			"github":         "janedoe",
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
			map[string]interface{}{
				"company":  "Old Corp",
				"position": "Engineer",
				"salary":   90000,
			},
		},
	}
}

var anonymous = entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}

func TestApply_NeverDisclosedStrippedAtEveryLevel(t *testing.T) {
	reg := NewRegistry()
	levels := []entity.PrivacyLevel{
		entity.PrivacyBusinessCard,
		entity.PrivacyProfessional,
		entity.PrivacyPublicFull,
		entity.PrivacyAISafe,
	}

	for _, level := range levels {
		filtered := Apply(sampleResume(), level, anonymous, reg)

		assert.NotContains(t, filtered, "ssn", "level %s", level)

		if contact, ok := filtered["contact"].(map[string]interface{}); ok {
			assert.NotContains(t, contact, "phone", "level %s", level)
			assert.NotContains(t, contact, "personal_email", "level %s", level)
		}

		if exp, ok := filtered["experience"].([]interface{}); ok {
			for _, item := range exp {
				role := item.(map[string]interface{})
				assert.NotContains(t, role, "salary", "level %s", level)
			}
		}
	}
}

func TestApply_OwnerBypassesFiltering(t *testing.T) {
	reg := NewRegistry()
	owner := entity.Viewer{Role: entity.RoleOwner, UserID: "u1", Channel: entity.ChannelREST}

	filtered := Apply(sampleResume(), entity.PrivacyBusinessCard, owner, reg)

	assert.Equal(t, "123-45-6789", filtered["ssn"])
	contact := filtered["contact"].(map[string]interface{})
	assert.Equal(t, "+1-555-0100", contact["phone"])
}

func TestApply_AdminBypassesFiltering(t *testing.T) {
	reg := NewRegistry()
	admin := entity.Viewer{Role: entity.RoleAdmin, UserID: "a1", Channel: entity.ChannelREST}

	filtered := Apply(sampleResume(), entity.PrivacyAISafe, admin, reg)

	assert.Equal(t, "123-45-6789", filtered["ssn"])
}

func TestApply_OwnerGetsACopy(t *testing.T) {
	reg := NewRegistry()
	owner := entity.Viewer{Role: entity.RoleOwner, UserID: "u1", Channel: entity.ChannelREST}
	record := sampleResume()

	filtered := Apply(record, entity.PrivacyPublicFull, owner, reg)
	filtered["name"] = "Mutated"
	filtered["contact"].(map[string]interface{})["email"] = "mutated@example.com"

	assert.Equal(t, "Jane Doe", record["name"])
	assert.Equal(t, "jane@example.com", record["contact"].(map[string]interface{})["email"])
}

func TestApply_InputNotMutated(t *testing.T) {
	reg := NewRegistry()
	record := sampleResume()

	Apply(record, entity.PrivacyBusinessCard, anonymous, reg)

	assert.Contains(t, record, "ssn")
	assert.Contains(t, record["contact"].(map[string]interface{}), "phone")
}

func TestApply_BusinessCardShape(t *testing.T) {
	reg := NewRegistry()

	filtered := Apply(sampleResume(), entity.PrivacyBusinessCard, anonymous, reg)

	assert.Equal(t, "Jane Doe", filtered["name"])
	assert.Equal(t, "Software Engineer", filtered["title"])
	assert.Equal(t, "Example Corp", filtered["company"])
	assert.Equal(t, "Senior Engineer", filtered["position"])

	contact := filtered["contact"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", contact["email"])
	assert.Equal(t, "https://jane.dev", contact["website"])

	// Card never includes experience history or location.
	assert.NotContains(t, filtered, "experience")
	assert.NotContains(t, filtered, "location")
}

func TestApply_ProfessionalKeepsLocation(t *testing.T) {
	reg := NewRegistry()

	filtered := Apply(sampleResume(), entity.PrivacyProfessional, anonymous, reg)

	location, ok := filtered["location"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Berlin", location["city"])

	exp, ok := filtered["experience"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, exp, 2)
}

func TestApply_UnknownLevelFallsBackToPublicFull(t *testing.T) {
	reg := NewRegistry()

	filtered := Apply(sampleResume(), entity.PrivacyLevel("nonsense"), anonymous, reg)

	// public_full behavior: record survives minus never-disclosed fields.
	assert.NotContains(t, filtered, "ssn")
	assert.Contains(t, filtered, "location")
	assert.Contains(t, filtered, "experience")
}

func TestApply_EndpointRegisteredRule(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPath("contact.github", TierNeverDisclosed)

	filtered := Apply(sampleResume(), entity.PrivacyPublicFull, anonymous, reg)

	contact := filtered["contact"].(map[string]interface{})
	assert.NotContains(t, contact, "github")
	assert.Contains(t, contact, "email")
}
