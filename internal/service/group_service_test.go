package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/ComePicard/Cooloc/internal/invite"
	"github.com/ComePicard/Cooloc/internal/model"
	"github.com/ComePicard/Cooloc/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGroupFixture(t *testing.T) (*gorm.DB, *GroupService, *model.User) {
	t.Helper()
	db := newTestDB(t)
	svc := NewGroupService(db, invite.NewRegistry(), testConfig())
	creator := seedUser(t, db, "Owner", "owner@example.com")
	return db, svc, creator
}

func TestCreateGroupJoinsCreator(t *testing.T) {
	_, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "flat"}, creator.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)

	members, err := svc.Members(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, creator.ID, members[0].ID)

	groups, err := svc.GroupsOfUser(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, group.ID, groups[0].ID)
}

func TestAddMemberIdempotent(t *testing.T) {
	db, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "flat"}, creator.ID)
	require.NoError(t, err)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	require.NoError(t, svc.AddMember(ctx, alice.ID, group.ID))
	require.NoError(t, svc.AddMember(ctx, alice.ID, group.ID))

	members, err := svc.Members(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRemoveMember(t *testing.T) {
	db, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "flat"}, creator.ID)
	require.NoError(t, err)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	require.NoError(t, svc.AddMember(ctx, alice.ID, group.ID))
	require.NoError(t, svc.RemoveMember(ctx, alice.ID, group.ID))

	members, err := svc.Members(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	// Removing again is a no-op.
	require.NoError(t, svc.RemoveMember(ctx, alice.ID, group.ID))
}

func TestInvitationFlow(t *testing.T) {
	db, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "flat"}, creator.ID)
	require.NoError(t, err)

	ttl := 30
	invitation, err := svc.CreateInvitation(ctx, group.ID, &ttl)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{8}$`), invitation.Code)
	assert.Equal(t, group.ID, invitation.GroupID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), invitation.ExpiresAt, 5*time.Second)

	resolved, err := svc.ValidateInvitation(ctx, invitation.Code)
	require.NoError(t, err)
	assert.Equal(t, group.ID, resolved.ID)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	joined, err := svc.JoinByCode(ctx, invitation.Code, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, joined.ID)

	members, err := svc.Members(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	// The code is multi-use: joining again, or by someone else, still works.
	bob := seedUser(t, db, "Bob", "bob@example.com")
	_, err = svc.JoinByCode(ctx, invitation.Code, bob.ID)
	require.NoError(t, err)

	events := outboxEvents(t, db)
	require.Len(t, events, 2)
	assert.Contains(t, events[0], model.EventGroupMemberJoined)
}

func TestInvitationUnknownTargets(t *testing.T) {
	db, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	_, err := svc.CreateInvitation(ctx, "no-such-group", nil)
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)

	_, err = svc.ValidateInvitation(ctx, "00000000")
	assert.ErrorIs(t, err, invite.ErrCodeNotFound)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	_, err = svc.JoinByCode(ctx, "00000000", alice.ID)
	assert.ErrorIs(t, err, invite.ErrCodeNotFound)

	// A code whose group was deleted after issuance reports not found.
	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "doomed"}, creator.ID)
	require.NoError(t, err)
	invitation, err := svc.CreateInvitation(ctx, group.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, group.ID))

	_, err = svc.ValidateInvitation(ctx, invitation.Code)
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)
}

func TestInvitationTTLZeroAndDefault(t *testing.T) {
	_, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "flat"}, creator.ID)
	require.NoError(t, err)

	// An explicit zero ttl issues a code that is already expired.
	zero := 0
	invitation, err := svc.CreateInvitation(ctx, group.ID, &zero)
	require.NoError(t, err)

	_, err = svc.ValidateInvitation(ctx, invitation.Code)
	assert.ErrorIs(t, err, invite.ErrCodeNotFound)

	_, err = svc.JoinByCode(ctx, invitation.Code, creator.ID)
	assert.ErrorIs(t, err, invite.ErrCodeNotFound)

	// Omitting the ttl falls back to the configured default.
	invitation, err = svc.CreateInvitation(ctx, group.ID, nil)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), invitation.ExpiresAt, 5*time.Second)

	resolved, err := svc.ValidateInvitation(ctx, invitation.Code)
	require.NoError(t, err)
	assert.Equal(t, group.ID, resolved.ID)
}

func TestRevokeInvitation(t *testing.T) {
	_, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "flat"}, creator.ID)
	require.NoError(t, err)

	invitation, err := svc.CreateInvitation(ctx, group.ID, nil)
	require.NoError(t, err)

	svc.RevokeInvitation(invitation.Code)

	_, err = svc.ValidateInvitation(ctx, invitation.Code)
	assert.ErrorIs(t, err, invite.ErrCodeNotFound)
}

func TestUpdateAndRemoveGroup(t *testing.T) {
	_, svc, creator := newGroupFixture(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, &CreateGroupRequest{Name: "flat"}, creator.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, group.ID, &CreateGroupRequest{Name: "summer house", City: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, "summer house", updated.Name)
	assert.Equal(t, "Nice", updated.City)

	require.NoError(t, svc.Remove(ctx, group.ID))
	_, err = svc.Get(ctx, group.ID)
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)
}
