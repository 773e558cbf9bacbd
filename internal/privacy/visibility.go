package privacy

import "daemon/internal/entity"

// Decide reports whether an entry is visible to the viewer, with a reason
// suitable for logging. Owners and admins see everything that is active;
// everyone else only sees active entries whose meta.visibility resolves to
// public. Unlisted behaves identically to private for non-owners.
func Decide(e *entity.DataEntry, viewer entity.Viewer) (bool, string) {
	if !e.IsActive {
		return false, "entry is soft-deleted"
	}

	if viewer.Trusted() {
		return true, "owner or admin viewer"
	}

	if e.Meta().Visibility == entity.VisibilityPublic {
		return true, "public entry"
	}

	return false, "entry is not public"
}

// IsVisible is the boolean form of Decide.
func IsVisible(e *entity.DataEntry, viewer entity.Viewer) bool {
	visible, _ := Decide(e, viewer)
	return visible
}
