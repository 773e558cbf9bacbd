package privacy

import "daemon/internal/entity"

// levelProfile fixes the field-inclusion set for one privacy level. Levels are
// audience profiles, not an ordering of disclosure breadth.
type levelProfile struct {
	cardOnly       bool
	contactKeys    []string
	includeContext bool
}

var minimalContact = []string{"email", "website", "linkedin", "github"}
var workContact = []string{"email", "website", "linkedin", "github", "location"}

var levelProfiles = map[entity.PrivacyLevel]levelProfile{
	entity.PrivacyBusinessCard: {cardOnly: true, contactKeys: minimalContact, includeContext: false},
	entity.PrivacyProfessional: {contactKeys: workContact, includeContext: true},
	entity.PrivacyPublicFull:   {contactKeys: workContact, includeContext: true},
	entity.PrivacyAISafe:       {contactKeys: workContact, includeContext: true},
}

// Apply filters a structured record for the given viewer and privacy level.
// Owners and admins get the record back at full fidelity. Everyone else first
// loses every never-disclosed field regardless of the requested level, then
// gets the level's field-inclusion set. The input is never mutated.
func Apply(record map[string]interface{}, level entity.PrivacyLevel, viewer entity.Viewer, reg *Registry) map[string]interface{} {
	if viewer.Trusted() {
		return deepCopyMap(record)
	}

	profile := levelProfiles[entity.ParsePrivacyLevel(string(level))]

	scrubbed := scrubMap(record, "", profile.includeContext, reg)

	if profile.cardOnly {
		return businessCard(scrubbed, profile.contactKeys)
	}

	if contact, ok := scrubbed["contact"].(map[string]interface{}); ok {
		reduced := subsetMap(contact, profile.contactKeys)
		if len(reduced) > 0 {
			scrubbed["contact"] = reduced
		} else {
			delete(scrubbed, "contact")
		}
	}

	return scrubbed
}

// businessCard keeps only top-level identity, the current role, and a minimal
// contact subset. Resume records store the experience list most-recent-first
// (the order the seed data and the structured schema use), so the first
// element is taken as the current role.
func businessCard(record map[string]interface{}, contactKeys []string) map[string]interface{} {
	out := make(map[string]interface{})

	for _, key := range []string{"name", "title"} {
		if v, ok := record[key]; ok {
			out[key] = v
		}
	}

	if exp, ok := record["experience"].([]interface{}); ok && len(exp) > 0 {
		if latest, ok := exp[0].(map[string]interface{}); ok {
			if company, ok := latest["company"]; ok {
				out["company"] = company
			}
			if position, ok := latest["position"]; ok {
				out["position"] = position
			} else if position, ok := latest["title"]; ok {
				out["position"] = position
			}
		}
	}

	if contact, ok := record["contact"].(map[string]interface{}); ok {
		reduced := subsetMap(contact, contactKeys)
		if len(reduced) > 0 {
			out["contact"] = reduced
		}
	}

	return out
}

// scrubMap walks the record and drops every never-disclosed field, plus
// contextual fields when the level excludes them. Nested maps and lists of
// maps are walked with dotted paths so endpoint-registered rules apply.
func scrubMap(m map[string]interface{}, prefix string, includeContext bool, reg *Registry) map[string]interface{} {
	out := make(map[string]interface{}, len(m))

	for key, value := range m {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if tier, ok := reg.Lookup(path, key); ok {
			if tier == TierNeverDisclosed {
				continue
			}
			if tier == TierContextual && !includeContext {
				continue
			}
		}

		out[key] = scrubValue(value, path, includeContext, reg)
	}

	return out
}

func scrubValue(value interface{}, path string, includeContext bool, reg *Registry) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return scrubMap(v, path, includeContext, reg)
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = scrubValue(item, path, includeContext, reg)
		}
		return items
	default:
		return value
	}
}

func subsetMap(m map[string]interface{}, keys []string) map[string]interface{} {
	out := make(map[string]interface{})
	for _, key := range keys {
		if v, ok := m[key]; ok {
			out[key] = v
		}
	}
	return out
}

func deepCopyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		out[key] = deepCopyValue(value)
	}
	return out
}

func deepCopyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return deepCopyMap(v)
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = deepCopyValue(item)
		}
		return items
	default:
		return value
	}
}
