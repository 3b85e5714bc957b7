package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texhub/api/errs"
	"texhub/models"
)

func addMember(t *testing.T, projectID, userID string, role models.MemberRole) {
	t.Helper()
	require.NoError(t, models.DB.Create(&models.Membership{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now(),
	}).Error)
}

func TestResolveAccessOwnerWins(t *testing.T) {
	setupTestDB(t)
	project := makeProject(t, "alice")
	// A membership row for the owner must not demote them.
	addMember(t, project.ID, "alice", models.MemberViewer)

	role, err := ResolveAccess("alice", project, true)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, role)
}

func TestResolveAccessMembership(t *testing.T) {
	setupTestDB(t)
	project := makeProject(t, "alice")
	addMember(t, project.ID, "bob", models.MemberEditor)
	addMember(t, project.ID, "carol", models.MemberViewer)

	role, err := ResolveAccess("bob", project, true)
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, role)

	role, err = ResolveAccess("carol", project, false)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, role)

	_, err = ResolveAccess("carol", project, true)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestResolveAccessMembershipBeatsPublic(t *testing.T) {
	setupTestDB(t)
	project := makeProject(t, "alice")
	project.PublicAccess = models.PublicEdit
	require.NoError(t, models.DB.Save(project).Error)
	addMember(t, project.ID, "carol", models.MemberViewer)

	role, err := ResolveAccess("carol", project, false)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, role)
}

func TestResolveAccessPublicFallback(t *testing.T) {
	setupTestDB(t)
	project := makeProject(t, "alice")

	// none: deny everyone without a grant, including anonymous
	_, err := ResolveAccess("", project, false)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
	_, err = ResolveAccess("stranger", project, false)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)

	// read: viewing only
	project.PublicAccess = models.PublicRead
	require.NoError(t, models.DB.Save(project).Error)
	role, err := ResolveAccess("", project, false)
	require.NoError(t, err)
	assert.Equal(t, RolePublicViewer, role)
	_, err = ResolveAccess("stranger", project, true)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)

	// edit: grants edit even to unauthenticated callers
	project.PublicAccess = models.PublicEdit
	require.NoError(t, models.DB.Save(project).Error)
	role, err = ResolveAccess("", project, true)
	require.NoError(t, err)
	assert.Equal(t, RolePublicEditor, role)
}

func TestCanReadDegrades(t *testing.T) {
	setupTestDB(t)
	project := makeProject(t, "alice")

	assert.True(t, CanRead("alice", project))
	assert.False(t, CanRead("stranger", project))
	assert.False(t, CanRead("", project))
}
