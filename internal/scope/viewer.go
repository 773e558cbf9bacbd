package scope

import "daemon/internal/entity"

// ResolveViewer maps request identity plus record ownership to the Viewer the
// filters operate on. It is evaluated per record, since one listing can span
// entries with different owners.
//
// MCP calls are always resolved as anonymous: the tool surface serves
// untrusted automated consumers and never grants owner-level disclosure, even
// when credentials were presented.
func ResolveViewer(identity entity.Identity, ownerID string, channel entity.Channel) entity.Viewer {
	if channel == entity.ChannelMCP {
		return entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelMCP}
	}

	if !identity.Authenticated {
		return entity.Viewer{Role: entity.RoleAnonymous, Channel: channel}
	}

	if identity.IsAdmin {
		return entity.Viewer{Role: entity.RoleAdmin, UserID: identity.UserID, Channel: channel}
	}

	if identity.UserID == ownerID {
		return entity.Viewer{Role: entity.RoleOwner, UserID: identity.UserID, Channel: channel}
	}

	return entity.Viewer{Role: entity.RoleOther, UserID: identity.UserID, Channel: channel}
}
