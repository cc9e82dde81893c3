package services

import (
	"context"
	"errors"
	"testing"

	"recipe-raid/models"
	"recipe-raid/utils"

	"github.com/stretchr/testify/require"
)

func leaderCount(t *testing.T, svc *TeamService, teamID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND role = ?", teamID, models.RoleLeader).
		Count(&n).Error)
	return n
}

func TestCreateTeamMakesCreatorLeader(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, testLog)
	alice := createUser(t, db, "alice")
	ctx := context.Background()

	team, err := svc.Create(ctx, alice.ID, "  Crème Brûlée Crew ", "desserts only")
	require.NoError(t, err)
	require.Equal(t, "Crème Brûlée Crew", team.Name)
	require.Equal(t, "creme-brulee-crew", team.Slug)
	require.Equal(t, alice.ID, team.LeaderID)
	require.EqualValues(t, 1, leaderCount(t, svc, team.ID))

	_, err = svc.Create(ctx, alice.ID, "Crème Brûlée Crew", "")
	require.ErrorIs(t, err, ErrTeamNameTaken)

	_, err = svc.Create(ctx, alice.ID, "ab", "")
	var verr *utils.ValidationError
	require.True(t, errors.As(err, &verr))

	view, err := svc.Get(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", view.LeaderUsername)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamInviteRemoveLeave(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, testLog)
	leader := createUser(t, db, "leader")
	officer := createUser(t, db, "officer")
	member := createUser(t, db, "member")
	recruit := createUser(t, db, "recruit")
	ctx := context.Background()

	team, err := svc.Create(ctx, leader.ID, "Line Cooks", "")
	require.NoError(t, err)

	_, err = svc.Invite(ctx, leader.ID, team.ID, officer.ID)
	require.NoError(t, err)
	require.NoError(t, svc.SetMemberRole(ctx, leader.ID, team.ID, officer.ID, models.RoleOfficer))

	_, err = svc.Invite(ctx, officer.ID, team.ID, member.ID)
	require.NoError(t, err)

	_, err = svc.Invite(ctx, member.ID, team.ID, recruit.ID)
	require.ErrorIs(t, err, ErrCannotInvite)

	_, err = svc.Invite(ctx, leader.ID, team.ID, member.ID)
	require.ErrorIs(t, err, ErrAlreadyTeamMember)

	_, err = svc.Invite(ctx, leader.ID, team.ID, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)

	members, err := svc.Members(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	require.Equal(t, models.RoleLeader, members[0].Role)
	require.Equal(t, models.RoleOfficer, members[1].Role)
	require.Equal(t, "member", members[2].Username)

	require.ErrorIs(t, svc.RemoveMember(ctx, officer.ID, team.ID, member.ID), ErrNotTeamLeader)
	require.ErrorIs(t, svc.RemoveMember(ctx, leader.ID, team.ID, leader.ID), ErrLeaderCannotBeRemoved)
	require.ErrorIs(t, svc.RemoveMember(ctx, leader.ID, team.ID, recruit.ID), ErrMemberNotFound)
	require.NoError(t, svc.RemoveMember(ctx, leader.ID, team.ID, member.ID))

	require.ErrorIs(t, svc.Leave(ctx, leader.ID, team.ID), ErrLeaderMustTransfer)
	require.ErrorIs(t, svc.Leave(ctx, recruit.ID, team.ID), ErrMemberNotFound)
	require.NoError(t, svc.Leave(ctx, officer.ID, team.ID))

	members, err = svc.Members(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.EqualValues(t, 1, leaderCount(t, svc, team.ID))
}

func TestTransferLeadershipKeepsOneLeader(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, testLog)
	leader := createUser(t, db, "leader")
	heir := createUser(t, db, "heir")
	stranger := createUser(t, db, "stranger")
	ctx := context.Background()

	team, err := svc.Create(ctx, leader.ID, "Brigade", "")
	require.NoError(t, err)
	_, err = svc.Invite(ctx, leader.ID, team.ID, heir.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.TransferLeadership(ctx, heir.ID, team.ID, stranger.ID), ErrNotTeamLeader)
	require.ErrorIs(t, svc.TransferLeadership(ctx, leader.ID, team.ID, stranger.ID), ErrMemberNotFound)

	require.NoError(t, svc.TransferLeadership(ctx, leader.ID, team.ID, heir.ID))
	require.EqualValues(t, 1, leaderCount(t, svc, team.ID))

	view, err := svc.Get(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, heir.ID, view.LeaderID)

	// the old leader can now leave
	require.NoError(t, svc.Leave(ctx, leader.ID, team.ID))
	require.ErrorIs(t, svc.Leave(ctx, heir.ID, team.ID), ErrLeaderMustTransfer)
}

func TestUpdateAndDeleteTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, testLog)
	leader := createUser(t, db, "leader")
	other := createUser(t, db, "other")
	ctx := context.Background()

	team, err := svc.Create(ctx, leader.ID, "Pastry Pals", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, "Grill Gang", "")
	require.NoError(t, err)

	name := "Grill Gang"
	_, err = svc.Update(ctx, leader.ID, team.ID, UpdateTeamInput{Name: &name})
	require.ErrorIs(t, err, ErrTeamNameTaken)

	_, err = svc.Update(ctx, other.ID, team.ID, UpdateTeamInput{Name: &name})
	require.ErrorIs(t, err, ErrNotTeamLeader)

	_, err = svc.Update(ctx, leader.ID, team.ID, UpdateTeamInput{})
	require.ErrorIs(t, err, ErrNothingToUpdate)

	desc := "laminated dough enthusiasts"
	updated, err := svc.Update(ctx, leader.ID, team.ID, UpdateTeamInput{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, desc, updated.Description)

	require.ErrorIs(t, svc.Delete(ctx, other.ID, team.ID), ErrNotTeamLeader)
	require.NoError(t, svc.Delete(ctx, leader.ID, team.ID))

	_, err = svc.Get(ctx, team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)

	mine, err := svc.UserTeams(ctx, leader.ID)
	require.NoError(t, err)
	require.Empty(t, mine)

	// soft-deleted, so the row survives for raid history
	require.Equal(t, "Pastry Pals", reloadTeam(t, db, team.ID).Name)
}

func TestTeamSlugsStayUniqueAcrossRenames(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, testLog)
	leader := createUser(t, db, "leader")
	ctx := context.Background()

	first, err := svc.Create(ctx, leader.ID, "Foo Bar", "")
	require.NoError(t, err)
	require.Equal(t, "foo-bar", first.Slug)

	// different name, same slug
	second, err := svc.Create(ctx, leader.ID, "Foo-Bar", "")
	require.NoError(t, err)
	require.Equal(t, "foo-bar-"+second.ID[:8], second.Slug)

	third, err := svc.Create(ctx, leader.ID, "Spice Route", "")
	require.NoError(t, err)

	name := "foo bar"
	renamed, err := svc.Update(ctx, leader.ID, third.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "foo bar", renamed.Name)
	require.Equal(t, "foo-bar-"+third.ID[:8], renamed.Slug)

	// nothing sluggable falls back to the team id rather than an empty slug
	name = "???"
	renamed, err = svc.Update(ctx, leader.ID, first.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, first.ID, renamed.Slug)

	name = "###"
	renamed, err = svc.Update(ctx, leader.ID, second.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, second.ID, renamed.Slug)

	// the freed slug can be claimed again
	name = "Foo Bar"
	renamed, err = svc.Update(ctx, leader.ID, third.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "foo-bar", renamed.Slug)

	name = "???"
	_, err = svc.Update(ctx, leader.ID, third.ID, UpdateTeamInput{Name: &name})
	require.ErrorIs(t, err, ErrTeamNameTaken)

	// renaming to the current name is a no-op, not a clash with itself
	name = "Foo Bar"
	same, err := svc.Update(ctx, leader.ID, third.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "foo-bar", same.Slug)

	var slugs []string
	require.NoError(t, db.Model(&models.Team{}).Pluck("slug", &slugs).Error)
	require.Len(t, slugs, 3)
	for _, s := range slugs {
		require.NotEmpty(t, s)
	}
}
