package privacy

import (
	"testing"

	"daemon/internal/entity"

	"github.com/stretchr/testify/assert"
)

func entryWithVisibility(visibility string) *entity.DataEntry {
	data := map[string]interface{}{"content": "hello"}
	if visibility != "" {
		data["meta"] = map[string]interface{}{"visibility": visibility}
	}
	return &entity.DataEntry{
		ID:          "entry-1",
		CreatedByID: "owner-1",
		IsActive:    true,
		Data:        data,
	}
}

func TestIsVisible_PublicToAnonymous(t *testing.T) {
	viewer := entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}

	assert.True(t, IsVisible(entryWithVisibility("public"), viewer))
}

func TestIsVisible_AbsentMetaDefaultsToPublic(t *testing.T) {
	viewer := entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}

	assert.True(t, IsVisible(entryWithVisibility(""), viewer))
}

func TestIsVisible_PrivateHiddenFromNonOwners(t *testing.T) {
	entry := entryWithVisibility("private")

	anonymous := entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}
	other := entity.Viewer{Role: entity.RoleOther, UserID: "someone-else", Channel: entity.ChannelREST}

	assert.False(t, IsVisible(entry, anonymous))
	assert.False(t, IsVisible(entry, other))
}

func TestIsVisible_UnlistedBehavesLikePrivate(t *testing.T) {
	entry := entryWithVisibility("unlisted")
	viewer := entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}

	assert.False(t, IsVisible(entry, viewer))
}

func TestIsVisible_OwnerSeesPrivate(t *testing.T) {
	entry := entryWithVisibility("private")
	owner := entity.Viewer{Role: entity.RoleOwner, UserID: "owner-1", Channel: entity.ChannelREST}

	assert.True(t, IsVisible(entry, owner))
}

func TestIsVisible_AdminSeesPrivate(t *testing.T) {
	entry := entryWithVisibility("private")
	admin := entity.Viewer{Role: entity.RoleAdmin, UserID: "admin-1", Channel: entity.ChannelREST}

	assert.True(t, IsVisible(entry, admin))
}

func TestIsVisible_SoftDeletedHiddenFromEveryone(t *testing.T) {
	entry := entryWithVisibility("public")
	entry.IsActive = false

	owner := entity.Viewer{Role: entity.RoleOwner, UserID: "owner-1", Channel: entity.ChannelREST}
	anonymous := entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}

	assert.False(t, IsVisible(entry, owner))
	assert.False(t, IsVisible(entry, anonymous))
}

func TestIsVisible_UnknownVisibilityNotPublic(t *testing.T) {
	entry := entryWithVisibility("friends_only")
	viewer := entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}

	assert.False(t, IsVisible(entry, viewer))
}

func TestDecide_ReturnsReason(t *testing.T) {
	entry := entryWithVisibility("private")
	viewer := entity.Viewer{Role: entity.RoleAnonymous, Channel: entity.ChannelREST}

	visible, reason := Decide(entry, viewer)
	assert.False(t, visible)
	assert.NotEmpty(t, reason)
}
