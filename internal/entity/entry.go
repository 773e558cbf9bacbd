package entity

import "time"

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// ParseVisibility maps a raw meta.visibility value to a Visibility. An absent
// value defaults to public; anything unrecognized stays as-is so it never
// accidentally compares equal to public.
func ParseVisibility(s string) Visibility {
	if s == "" {
		return VisibilityPublic
	}
	return Visibility(s)
}

// Meta is the typed form of a freeform entry's meta bag.
type Meta struct {
	Visibility Visibility `json:"visibility"`
	Title      string     `json:"title,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

type DataEntry struct {
	ID          string                 `json:"id"`
	EndpointID  string                 `json:"endpoint_id"`
	CreatedByID string                 `json:"created_by_id"`
	IsActive    bool                   `json:"is_active"`
	Data        map[string]interface{} `json:"data"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Meta extracts the typed meta bag from the entry's data. Entries without a
// meta object (structured records included) get the defaults.
func (e *DataEntry) Meta() Meta {
	meta := Meta{Visibility: VisibilityPublic}

	raw, ok := e.Data["meta"].(map[string]interface{})
	if !ok {
		return meta
	}

	if v, ok := raw["visibility"].(string); ok {
		meta.Visibility = ParseVisibility(v)
	}
	if t, ok := raw["title"].(string); ok {
		meta.Title = t
	}
	if tags, ok := raw["tags"].([]interface{}); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				meta.Tags = append(meta.Tags, s)
			}
		}
	}

	return meta
}
