package services

import (
	"maintrack-backend/apperror"
	"maintrack-backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TeamServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (suite *TeamServiceTestSuite) SetupTest() {
	suite.f = newFixture(suite.T(), nil)
}

func (suite *TeamServiceTestSuite) userTeams(id string) []string {
	user, err := suite.f.repos.User.GetUser(suite.f.ctx, id)
	require.NoError(suite.T(), err)
	return user.TeamIDs
}

func (suite *TeamServiceTestSuite) TestCreateTeamMirrorsMembership() {
	f := suite.f
	team, err := f.teams.CreateTeam(f.ctx, f.manager, &models.CreateTeamRequest{
		Name:      " Hydraulics ",
		MemberIDs: []string{f.techB.ID, f.techB.ID, ""},
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Hydraulics", team.Name)
	assert.Equal(suite.T(), []string{f.techB.ID}, team.MemberIDs)
	assert.ElementsMatch(suite.T(), []string{teamB, team.ID}, suite.userTeams(f.techB.ID))
}

func (suite *TeamServiceTestSuite) TestCreateTeamRejections() {
	f := suite.f
	_, err := f.teams.CreateTeam(f.ctx, f.techA, &models.CreateTeamRequest{Name: "Rogue"})
	assert.True(suite.T(), apperror.Is(err, apperror.KindForbidden))

	_, err = f.teams.CreateTeam(f.ctx, f.manager, &models.CreateTeamRequest{Name: "  "})
	assert.True(suite.T(), apperror.Is(err, apperror.KindValidation))

	_, err = f.teams.CreateTeam(f.ctx, f.manager, &models.CreateTeamRequest{Name: "Office", MemberIDs: []string{f.employee.ID}})
	assert.True(suite.T(), apperror.Is(err, apperror.KindValidation))

	_, err = f.teams.CreateTeam(f.ctx, f.manager, &models.CreateTeamRequest{Name: "Ghosts", MemberIDs: []string{"usr_ghost"}})
	assert.True(suite.T(), apperror.Is(err, apperror.KindNotFound))

	teams, err := f.teams.GetTeams(f.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), teams, 2)
}

func (suite *TeamServiceTestSuite) TestAddMemberIsIdempotent() {
	f := suite.f
	team, err := f.teams.AddMember(f.ctx, f.manager, teamA, f.techB.ID)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), team.MemberIDs, f.techB.ID)

	team, err = f.teams.AddMember(f.ctx, f.manager, teamA, f.techB.ID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), team.MemberIDs, 3)
	assert.ElementsMatch(suite.T(), []string{teamA, teamB}, suite.userTeams(f.techB.ID))

	_, err = f.teams.AddMember(f.ctx, f.manager, "team_missing", f.techB.ID)
	assert.True(suite.T(), apperror.Is(err, apperror.KindNotFound))
}

func (suite *TeamServiceTestSuite) TestTechnicianKeepsLastTeam() {
	f := suite.f
	_, err := f.teams.RemoveMember(f.ctx, f.manager, teamB, f.techB.ID)
	assert.True(suite.T(), apperror.Is(err, apperror.KindValidation))

	_, err = f.teams.AddMember(f.ctx, f.manager, teamA, f.techB.ID)
	require.NoError(suite.T(), err)

	team, err := f.teams.RemoveMember(f.ctx, f.manager, teamB, f.techB.ID)
	require.NoError(suite.T(), err)
	assert.NotContains(suite.T(), team.MemberIDs, f.techB.ID)
	assert.Equal(suite.T(), []string{teamA}, suite.userTeams(f.techB.ID))
}

func (suite *TeamServiceTestSuite) TestRemoveMember() {
	f := suite.f
	team, err := f.teams.RemoveMember(f.ctx, f.manager, teamA, f.manager.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{f.techA.ID}, team.MemberIDs)
	assert.Empty(suite.T(), suite.userTeams(f.manager.ID))

	_, err = f.teams.RemoveMember(f.ctx, f.manager, teamA, f.techB.ID)
	assert.True(suite.T(), apperror.Is(err, apperror.KindNotFound))

	_, err = f.teams.RemoveMember(f.ctx, f.techA, teamA, f.techA.ID)
	assert.True(suite.T(), apperror.Is(err, apperror.KindForbidden))
}

func (suite *TeamServiceTestSuite) TestCreatedTechnicianCanLeaveOneOfTwoTeams() {
	f := suite.f
	users := NewUserService(f.repos.User, f.repos.Team, newMockLogger())

	tech, err := users.CreateUser(f.ctx, &models.CreateUserRequest{
		Name:    "Nora New",
		Email:   "nora@example.com",
		Role:    models.RoleTechnician,
		TeamIDs: []string{teamA, teamB},
	})
	require.NoError(suite.T(), err)

	for _, id := range []string{teamA, teamB} {
		team, err := f.teams.GetTeam(f.ctx, id)
		require.NoError(suite.T(), err)
		assert.True(suite.T(), team.HasMember(tech.ID), id)
	}

	team, err := f.teams.RemoveMember(f.ctx, f.manager, teamA, tech.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), team.HasMember(tech.ID))
	assert.Equal(suite.T(), []string{teamB}, suite.userTeams(tech.ID))
}

func (suite *TeamServiceTestSuite) TestCreateUserRejectsUnknownTeam() {
	f := suite.f
	users := NewUserService(f.repos.User, f.repos.Team, newMockLogger())

	_, err := users.CreateUser(f.ctx, &models.CreateUserRequest{
		Name:    "Ghost Tech",
		Email:   "ghost@example.com",
		Role:    models.RoleTechnician,
		TeamIDs: []string{teamA, "team_does_not_exist"},
	})
	assert.True(suite.T(), apperror.Is(err, apperror.KindNotFound))

	_, err = f.repos.User.GetUserByEmail(f.ctx, "ghost@example.com")
	assert.True(suite.T(), apperror.Is(err, apperror.KindNotFound))

	team, err := f.teams.GetTeam(f.ctx, teamA)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{f.manager.ID, f.techA.ID}, team.MemberIDs)
}

func TestTeamServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TeamServiceTestSuite))
}
