package services

import (
	"context"
	"maintrack-backend/apperror"
	"maintrack-backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock implementation of UserRepositoryInterface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTeamRepository is a mock implementation of TeamRepositoryInterface
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) CreateTeam(ctx context.Context, team *models.MaintenanceTeam) (*models.MaintenanceTeam, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceTeam), args.Error(1)
}

func (m *MockTeamRepository) GetTeam(ctx context.Context, id string) (*models.MaintenanceTeam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceTeam), args.Error(1)
}

func (m *MockTeamRepository) GetTeams(ctx context.Context) ([]*models.MaintenanceTeam, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MaintenanceTeam), args.Error(1)
}

func (m *MockTeamRepository) UpdateTeam(ctx context.Context, team *models.MaintenanceTeam) (*models.MaintenanceTeam, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceTeam), args.Error(1)
}

type UserServiceTestSuite struct {
	suite.Suite
	service      *UserService
	mockRepo     *MockUserRepository
	mockTeamRepo *MockTeamRepository
	ctx          context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.mockTeamRepo = new(MockTeamRepository)
	suite.service = NewUserService(suite.mockRepo, suite.mockTeamRepo, newMockLogger())
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockTeamRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	suite.mockTeamRepo.On("GetTeam", suite.ctx, "team_a").
		Return(&models.MaintenanceTeam{ID: "team_a", MemberIDs: []string{"usr_mgr"}}, nil).Once()
	suite.mockTeamRepo.On("UpdateTeam", suite.ctx, mock.MatchedBy(func(t *models.MaintenanceTeam) bool {
		return t.ID == "team_a" && t.HasMember("usr_mgr") && t.HasMember("usr_1")
	})).Return(&models.MaintenanceTeam{ID: "team_a", MemberIDs: []string{"usr_mgr", "usr_1"}}, nil).Once()
	suite.mockRepo.On("CreateUser", suite.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Name == "Tom Tech" && u.Role == models.RoleTechnician && u.Active &&
			len(u.TeamIDs) == 1 && u.TeamIDs[0] == "team_a"
	})).Return(&models.User{ID: "usr_1", Name: "Tom Tech", Role: models.RoleTechnician, TeamIDs: []string{"team_a"}, Active: true}, nil)

	user, err := suite.service.CreateUser(suite.ctx, &models.CreateUserRequest{
		Name:    " Tom Tech ",
		Email:   "tom@example.com",
		Role:    models.RoleTechnician,
		TeamIDs: []string{"team_a", "team_a"},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "usr_1", user.ID)
}

func (suite *UserServiceTestSuite) TestCreateUser_Validation() {
	tests := []struct {
		name string
		req  *models.CreateUserRequest
	}{
		{"nil request", nil},
		{"missing email", &models.CreateUserRequest{Name: "A", Role: models.RoleUser}},
		{"unknown role", &models.CreateUserRequest{Name: "A", Email: "a@example.com", Role: "ADMIN"}},
		{"technician without team", &models.CreateUserRequest{Name: "A", Email: "a@example.com", Role: models.RoleTechnician}},
		{"user with team", &models.CreateUserRequest{Name: "A", Email: "a@example.com", Role: models.RoleUser, TeamIDs: []string{"team_a"}}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateUser(suite.ctx, tt.req)
			assert.True(suite.T(), apperror.Is(err, apperror.KindValidation))
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
	suite.mockTeamRepo.AssertNotCalled(suite.T(), "GetTeam", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_UnknownTeam() {
	suite.mockTeamRepo.On("GetTeam", suite.ctx, "team_a").Return(&models.MaintenanceTeam{ID: "team_a"}, nil)
	suite.mockTeamRepo.On("GetTeam", suite.ctx, "team_ghost").Return(nil, apperror.NotFound("team", "team_ghost"))

	_, err := suite.service.CreateUser(suite.ctx, &models.CreateUserRequest{
		Name:    "Tom Tech",
		Email:   "tom@example.com",
		Role:    models.RoleTechnician,
		TeamIDs: []string{"team_a", "team_ghost"},
	})

	assert.True(suite.T(), apperror.Is(err, apperror.KindNotFound))
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
	suite.mockTeamRepo.AssertNotCalled(suite.T(), "UpdateTeam", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestResolveActor() {
	suite.mockRepo.On("GetUser", suite.ctx, "usr_1").
		Return(&models.User{ID: "usr_1", Role: models.RoleTechnician, TeamIDs: []string{"team_a"}, Active: true}, nil)

	actor, err := suite.service.ResolveActor(suite.ctx, "usr_1")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.Actor{ID: "usr_1", Role: models.RoleTechnician, TeamIDs: []string{"team_a"}}, actor)
}

func (suite *UserServiceTestSuite) TestResolveActor_Inactive() {
	suite.mockRepo.On("GetUser", suite.ctx, "usr_2").
		Return(&models.User{ID: "usr_2", Role: models.RoleUser, Active: false}, nil)

	_, err := suite.service.ResolveActor(suite.ctx, "usr_2")

	assert.True(suite.T(), apperror.Is(err, apperror.KindForbidden))
}

func (suite *UserServiceTestSuite) TestResolveActor_NotFound() {
	suite.mockRepo.On("GetUser", suite.ctx, "usr_3").Return(nil, apperror.NotFound("user", "usr_3"))

	_, err := suite.service.ResolveActor(suite.ctx, "usr_3")

	assert.True(suite.T(), apperror.Is(err, apperror.KindNotFound))
}

func (suite *UserServiceTestSuite) TestListTechnicians() {
	suite.mockRepo.On("GetUsersByRole", suite.ctx, models.RoleTechnician).Return([]*models.User{
		{ID: "usr_z", Name: "Zed", TeamIDs: []string{"team_a"}, Active: true},
		{ID: "usr_a", Name: "Ann", TeamIDs: []string{"team_b"}, Active: true},
		{ID: "usr_off", Name: "Bob", TeamIDs: []string{"team_a"}, Active: false},
		{ID: "usr_m", Name: "Mia", TeamIDs: []string{"team_a", "team_b"}, Active: true},
	}, nil)

	all, err := suite.service.ListTechnicians(suite.ctx, "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"usr_a", "usr_m", "usr_z"}, userIDs(all))

	inTeam, err := suite.service.ListTechnicians(suite.ctx, "team_a")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"usr_m", "usr_z"}, userIDs(inTeam))
}

func (suite *UserServiceTestSuite) TestListTechnicians_RepositoryError() {
	suite.mockRepo.On("GetUsersByRole", suite.ctx, models.RoleTechnician).Return(nil, errStorageDown)

	_, err := suite.service.ListTechnicians(suite.ctx, "")

	assert.ErrorIs(suite.T(), err, errStorageDown)
}

func userIDs(users []*models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestEnsureManager_Creates() {
	suite.mockRepo.On("GetUserByEmail", suite.ctx, "boss@example.com").Return(nil, apperror.NotFound("user", "boss@example.com"))
	suite.mockRepo.On("CreateUser", suite.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleManager && u.Name == "Administrator" && u.Active
	})).Return(&models.User{ID: "usr_boss", Role: models.RoleManager, Active: true}, nil)

	user, err := suite.service.EnsureManager(suite.ctx, " Boss@Example.com ", "")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "usr_boss", user.ID)
}

func (suite *UserServiceTestSuite) TestEnsureManager_Existing() {
	suite.mockRepo.On("GetUserByEmail", suite.ctx, "boss@example.com").
		Return(&models.User{ID: "usr_boss", Role: models.RoleManager}, nil)

	user, err := suite.service.EnsureManager(suite.ctx, "boss@example.com", "Boss")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "usr_boss", user.ID)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestEnsureManager_StorageError() {
	suite.mockRepo.On("GetUserByEmail", suite.ctx, "boss@example.com").Return(nil, errStorageDown)

	_, err := suite.service.EnsureManager(suite.ctx, "boss@example.com", "Boss")

	assert.ErrorIs(suite.T(), err, errStorageDown)
}
