package privacy

import "strings"

// Tier classifies how a structured field may be disclosed to non-owner viewers.
type Tier int

const (
	// TierNeverDisclosed fields are stripped at every privacy level.
	TierNeverDisclosed Tier = iota
	// TierContextual fields are work-context data (e.g. location) shown only
	// at professional, public_full and ai_safe.
	TierContextual
)

// Registry is the table of sensitive structured fields. Leaf rules match a
// field name at any depth; path rules match an exact dotted path and let a
// structured endpoint register its own privacy rules without code changes.
type Registry struct {
	leaves map[string]Tier
	paths  map[string]Tier
}

var defaultLeaves = map[string]Tier{
	"ssn":               TierNeverDisclosed,
	"password":          TierNeverDisclosed,
	"api_key":           TierNeverDisclosed,
	"private_key":       TierNeverDisclosed,
	"credit_card":       TierNeverDisclosed,
	"salary":            TierNeverDisclosed,
	"phone":             TierNeverDisclosed,
	"personal_email":    TierNeverDisclosed,
	"home_address":      TierNeverDisclosed,
	"emergency_contact": TierNeverDisclosed,
	"location":          TierContextual,
}

func NewRegistry() *Registry {
	r := &Registry{
		leaves: make(map[string]Tier, len(defaultLeaves)),
		paths:  make(map[string]Tier),
	}
	for name, tier := range defaultLeaves {
		r.leaves[name] = tier
	}
	return r
}

// RegisterLeaf classifies every field with the given name, wherever it appears.
func (r *Registry) RegisterLeaf(name string, tier Tier) {
	r.leaves[strings.ToLower(name)] = tier
}

// RegisterPath classifies one exact dotted path, e.g. "contact.twitter_dm".
func (r *Registry) RegisterPath(path string, tier Tier) {
	r.paths[strings.ToLower(path)] = tier
}

// Lookup returns the tier for a field, checking the exact path first and the
// leaf name second.
func (r *Registry) Lookup(path, leaf string) (Tier, bool) {
	if tier, ok := r.paths[strings.ToLower(path)]; ok {
		return tier, true
	}
	tier, ok := r.leaves[strings.ToLower(leaf)]
	return tier, ok
}
