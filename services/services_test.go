package services

import (
	"context"
	"errors"
	"maintrack-backend/dal"
	"maintrack-backend/infrastructure"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}

func newMockLogger() *MockLogger {
	l := &MockLogger{}
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		l.On(method, mock.Anything).Return().Maybe()
		l.On(method+"f", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	}
	return l
}

// failingTransactDB fails every multi-record transaction
type failingTransactDB struct {
	dal.DatabaseClientInterface
	err error
}

func (f *failingTransactDB) TransactWrite(ctx context.Context, ops []models.WriteOp) error {
	if len(ops) > 1 {
		return f.err
	}
	return f.DatabaseClientInterface.TransactWrite(ctx, ops)
}

var errStorageDown = errors.New("storage unavailable")

// fixture wires every service to one in-memory store with a pinned clock
// and a small seeded plant: two teams, one technician each, a manager,
// two employees, one category, one work center and two machines.
type fixture struct {
	t   *testing.T
	ctx context.Context
	now time.Time

	db        *dal.MemoryClient
	repos     *repository.Repository
	deriver   *StatusDeriver
	requests  *RequestService
	board     *BoardService
	dashboard *DashboardService
	equipment *EquipmentService
	teams     *TeamService

	manager       models.Actor
	techA         models.Actor
	techB         models.Actor
	employee      models.Actor
	otherEmployee models.Actor
}

const (
	teamA      = "team_a"
	teamB      = "team_b"
	categoryID = "cat_press"
	workCenter = "wc_line1"
	press      = "eq_press"
	lathe      = "eq_lathe"
)

func newFixture(t *testing.T, wrap func(dal.DatabaseClientInterface) dal.DatabaseClientInterface) *fixture {
	ctx := context.Background()
	mem := dal.NewMemoryClient(logger.Discard())
	cfg := &models.Config{
		DynamoDBTablePrefix:     "test",
		CriticalRepairThreshold: 3,
		RepairHealthCeiling:     5,
		RecentRequestsLimit:     10,
	}
	for _, name := range infrastructure.SchemaNames() {
		input, err := infrastructure.GetTables(cfg.TableName(name), true)
		require.NoError(t, err)
		require.NoError(t, mem.CreateTable(ctx, input))
	}

	var db dal.DatabaseClientInterface = mem
	if wrap != nil {
		db = wrap(mem)
	}

	log := logger.Discard()
	f := &fixture{
		t:     t,
		ctx:   ctx,
		now:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		db:    mem,
		repos: repository.NewRepository(db, cfg, log),
	}
	clock := func() time.Time { return f.now }

	f.deriver = NewStatusDeriver(f.repos.Request, log)
	f.requests = NewRequestService(f.repos, f.deriver, log).WithClock(clock)
	f.board = NewBoardService(f.repos, log).WithClock(clock)
	f.dashboard = NewDashboardService(f.repos, cfg, log).WithClock(clock)
	f.equipment = NewEquipmentService(f.repos, f.deriver, log).WithClock(clock)
	f.teams = NewTeamService(f.repos, log)

	f.manager = f.seedUser("usr_manager", "Maria Manager", models.RoleManager, teamA)
	f.techA = f.seedUser("usr_tech_a", "Tom Tech", models.RoleTechnician, teamA)
	f.techB = f.seedUser("usr_tech_b", "Bea Tech", models.RoleTechnician, teamB)
	f.employee = f.seedUser("usr_employee", "Eve Employee", models.RoleUser)
	f.otherEmployee = f.seedUser("usr_other", "Oscar Other", models.RoleUser)

	f.seedTeam(teamA, "Mechanics", f.manager.ID, f.techA.ID)
	f.seedTeam(teamB, "Electricians", f.techB.ID)

	_, err := f.repos.Catalog.CreateCategory(ctx, &models.Category{ID: categoryID, Name: "Presses"})
	require.NoError(t, err)
	_, err = f.repos.Catalog.CreateWorkCenter(ctx, &models.WorkCenter{ID: workCenter, Name: "Assembly Line 1", Company: "Acme Works"})
	require.NoError(t, err)

	f.seedEquipment(press, "Hydraulic Press", teamA)
	f.seedEquipment(lathe, "CNC Lathe", teamB)
	return f
}

func (f *fixture) seedUser(id, name string, role models.UserRole, teams ...string) models.Actor {
	user, err := f.repos.User.CreateUser(f.ctx, &models.User{
		ID:      id,
		Name:    name,
		Email:   id + "@example.com",
		Role:    role,
		TeamIDs: teams,
		Active:  true,
	})
	require.NoError(f.t, err)
	return user.Actor()
}

func (f *fixture) seedTeam(id, name string, members ...string) {
	_, err := f.repos.Team.CreateTeam(f.ctx, &models.MaintenanceTeam{ID: id, Name: name, MemberIDs: members})
	require.NoError(f.t, err)
}

func (f *fixture) seedEquipment(id, name, teamID string) {
	_, err := f.repos.Equipment.CreateEquipment(f.ctx, &models.Equipment{
		ID:         id,
		Name:       name,
		CategoryID: categoryID,
		TeamID:     teamID,
		Company:    "Acme Works",
		Status:     models.EquipmentActive,
	})
	require.NoError(f.t, err)
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// corrective opens a corrective request against equipment
func (f *fixture) corrective(actor models.Actor, equipmentID string) *models.MaintenanceRequest {
	req, err := f.requests.Create(f.ctx, actor, &models.CreateRequestCommand{
		Type:           models.RequestCorrective,
		Subject:        "Breakdown on " + equipmentID,
		MaintenanceFor: models.ForEquipment,
		EquipmentID:    equipmentID,
	})
	require.NoError(f.t, err)
	f.advance(time.Minute)
	return req
}

// preventive schedules a preventive request against equipment
func (f *fixture) preventive(actor models.Actor, equipmentID string, scheduled time.Time) *models.MaintenanceRequest {
	req, err := f.requests.Create(f.ctx, actor, &models.CreateRequestCommand{
		Type:           models.RequestPreventive,
		Subject:        "Service " + equipmentID,
		MaintenanceFor: models.ForEquipment,
		EquipmentID:    equipmentID,
		ScheduledDate:  &scheduled,
	})
	require.NoError(f.t, err)
	f.advance(time.Minute)
	return req
}

// onWorkCenter opens a corrective work center request for teamA
func (f *fixture) onWorkCenter(actor models.Actor) *models.MaintenanceRequest {
	req, err := f.requests.Create(f.ctx, actor, &models.CreateRequestCommand{
		Type:           models.RequestCorrective,
		Subject:        "Conveyor jam",
		MaintenanceFor: models.ForWorkCenter,
		WorkCenterID:   workCenter,
		TeamID:         teamA,
	})
	require.NoError(f.t, err)
	f.advance(time.Minute)
	return req
}

func (f *fixture) moveTo(id string, stage models.Stage) *models.MaintenanceRequest {
	req, err := f.requests.ChangeStage(f.ctx, f.manager, id, &models.ChangeStageCommand{Stage: stage})
	require.NoError(f.t, err)
	return req
}

func (f *fixture) storedEquipment(id string) *models.Equipment {
	e, err := f.repos.Equipment.GetEquipment(f.ctx, id)
	require.NoError(f.t, err)
	return e
}

func (f *fixture) storedRequest(id string) *models.MaintenanceRequest {
	r, err := f.repos.Request.GetRequest(f.ctx, id)
	require.NoError(f.t, err)
	return r
}
