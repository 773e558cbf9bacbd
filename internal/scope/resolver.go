package scope

import (
	"fmt"
	"regexp"

	"daemon/internal/entity"
)

// Mode is the system-wide operating mode, derived from the registered user
// count once per request rather than inferred ad hoc.
type Mode int

const (
	ModeSingleUser Mode = iota
	ModeMultiUser
)

func DetermineMode(userCount int64) Mode {
	if userCount <= 1 {
		return ModeSingleUser
	}
	return ModeMultiUser
}

// DirectScope is the decision for a direct (non user-scoped) endpoint request.
type DirectScope int

const (
	// ScopeSoleUser targets the only user in the system.
	ScopeSoleUser DirectScope = iota
	// ScopeCaller targets the authenticated caller's own data.
	ScopeCaller
	// ScopeAmbiguous cannot be resolved without guessing an owner.
	ScopeAmbiguous
)

// ResolveDirectScope is the state machine over request shape for direct
// endpoint access. It is total: every (mode, identity) combination maps to
// exactly one scope, and an ambiguous result is never silently guessed away.
func ResolveDirectScope(mode Mode, identity entity.Identity) DirectScope {
	if mode == ModeSingleUser {
		return ScopeSoleUser
	}
	if identity.Authenticated {
		return ScopeCaller
	}
	return ScopeAmbiguous
}

// Guidance is the structured payload returned with an ambiguous-scope
// rejection, telling the caller how to address a specific user's data.
type Guidance struct {
	Pattern string `json:"pattern"`
	Example string `json:"example"`
	Note    string `json:"note"`
}

func AmbiguousScopeGuidance(endpoint string) Guidance {
	return Guidance{
		Pattern: "/api/v1/{endpoint}/users/{username}",
		Example: fmt.Sprintf("/api/v1/%s/users/alice", endpoint),
		Note:    "Multiple users exist. Specify whose data you want with the user-scoped pattern, or authenticate to access your own.",
	}
}

var segmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidSegment rejects path segments that could smuggle traversal sequences,
// encoded slashes or sub-paths into a username or endpoint name.
func ValidSegment(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	return segmentPattern.MatchString(s)
}
