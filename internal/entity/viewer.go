package entity

type ViewerRole string

const (
	RoleAnonymous ViewerRole = "anonymous"
	RoleOwner     ViewerRole = "owner"
	RoleOther     ViewerRole = "other"
	RoleAdmin     ViewerRole = "admin"
)

type Channel string

const (
	ChannelREST Channel = "rest"
	ChannelMCP  Channel = "mcp"
)

// Identity is the request-level authentication result, before record ownership
// is taken into account.
type Identity struct {
	UserID        string
	Username      string
	IsAdmin       bool
	Authenticated bool
}

// Viewer is the per-record caller context the filters operate on. It is
// ephemeral and never persisted.
type Viewer struct {
	Role    ViewerRole
	UserID  string
	Channel Channel
}

// Trusted reports whether the viewer bypasses privacy filtering entirely.
func (v Viewer) Trusted() bool {
	return v.Role == RoleOwner || v.Role == RoleAdmin
}
