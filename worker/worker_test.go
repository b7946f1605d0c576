package worker

import (
	"context"
	"errors"
	"fmt"
	"maintrack-backend/dal"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// flakyDB fails the first createFailures CreateTable calls and describes
// the tables in missing as absent
type flakyDB struct {
	dal.DatabaseClientInterface
	createFailures int
	createCalls    int
	missing        map[string]bool
}

func (f *flakyDB) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	f.createCalls++
	if f.createCalls <= f.createFailures {
		return errors.New("throttled")
	}
	return f.DatabaseClientInterface.CreateTable(ctx, input)
}

func (f *flakyDB) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	if f.missing[tableName] {
		return nil, fmt.Errorf("%w: %s", dal.ErrTableNotFound, tableName)
	}
	return f.DatabaseClientInterface.DescribeTable(ctx, tableName)
}

type WorkerTestSuite struct {
	suite.Suite
	ctx    context.Context
	config *models.Config
	mem    *dal.MemoryClient
	db     *flakyDB
}

func (suite *WorkerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.config = &models.Config{
		AppName:             "MainTrack Backend",
		AppVersion:          "1.0.0",
		AppEnv:              "development",
		DynamoDBTablePrefix: "test",
		HealthCheckSchedule: "@every 1m",
	}
	suite.mem = dal.NewMemoryClient(logger.Discard())
	suite.db = &flakyDB{DatabaseClientInterface: suite.mem, missing: map[string]bool{}}
}

func (suite *WorkerTestSuite) newWorker() *Worker {
	wc := DefaultWorkerConfig(suite.config)
	wc.MaxRetries = 2
	wc.RetryDelay = time.Millisecond
	w, err := NewWorker(suite.db, suite.config, wc, logger.Discard())
	require.NoError(suite.T(), err)
	return w
}

func TestWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

func (suite *WorkerTestSuite) TestProvisionCreatesTables() {
	w := suite.newWorker()
	assert.Equal(suite.T(), models.StatusIdle, w.Status().Status)

	require.NoError(suite.T(), w.Provision(suite.ctx))

	status := w.Status()
	assert.Equal(suite.T(), models.StatusMonitoring, status.Status)
	assert.True(suite.T(), status.Healthy)
	assert.Len(suite.T(), status.TablesCreated, 6)
	assert.Contains(suite.T(), status.TablesCreated, "test_requests")
	assert.Len(suite.T(), status.Tables, 6)
	assert.Equal(suite.T(), 1, status.Checks)
	assert.NotNil(suite.T(), status.LastCheck)

	_, err := suite.mem.DescribeTable(suite.ctx, "test_workcenters")
	assert.NoError(suite.T(), err)
}

func (suite *WorkerTestSuite) TestProvisionSkipsExistingTables() {
	w := suite.newWorker()
	existing := w.provisioner.TableDetails()[0]
	require.NoError(suite.T(), w.provisioner.createTable(suite.ctx, existing))

	require.NoError(suite.T(), w.Provision(suite.ctx))

	status := w.Status()
	assert.Len(suite.T(), status.TablesCreated, 5)
	assert.NotContains(suite.T(), status.TablesCreated, existing.Name)
	assert.True(suite.T(), status.Healthy)
}

func (suite *WorkerTestSuite) TestProvisionRecoversFromTransientErrors() {
	suite.db.createFailures = 2
	w := suite.newWorker()

	require.NoError(suite.T(), w.Provision(suite.ctx))

	assert.Equal(suite.T(), models.StatusMonitoring, w.Status().Status)
	assert.Equal(suite.T(), 8, suite.db.createCalls)
}

func (suite *WorkerTestSuite) TestProvisionGivesUpAfterRetries() {
	suite.db.createFailures = 100
	w := suite.newWorker()

	err := w.Provision(suite.ctx)

	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "after 3 attempts")
	assert.Equal(suite.T(), 3, suite.db.createCalls)
	status := w.Status()
	assert.Equal(suite.T(), models.StatusFailed, status.Status)
	assert.False(suite.T(), status.Healthy)
	assert.Contains(suite.T(), status.ErrorMessage, "throttled")
}

func (suite *WorkerTestSuite) TestProvisionStopsWithContext() {
	suite.db.createFailures = 100
	wc := DefaultWorkerConfig(suite.config)
	wc.RetryDelay = time.Hour
	w, err := NewWorker(suite.db, suite.config, wc, logger.Discard())
	require.NoError(suite.T(), err)

	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	assert.ErrorIs(suite.T(), w.Provision(ctx), context.Canceled)
}

func (suite *WorkerTestSuite) TestCheckNowDegradesAndRecovers() {
	w := suite.newWorker()
	require.NoError(suite.T(), w.Provision(suite.ctx))

	suite.db.missing["test_teams"] = true
	err := w.CheckNow(suite.ctx)

	require.Error(suite.T(), err)
	assert.True(suite.T(), dal.IsTableNotFound(err))
	status := w.Status()
	assert.Equal(suite.T(), models.StatusDegraded, status.Status)
	assert.False(suite.T(), status.Healthy)
	assert.Contains(suite.T(), status.ErrorMessage, "test_teams")

	delete(suite.db.missing, "test_teams")
	require.NoError(suite.T(), w.CheckNow(suite.ctx))
	status = w.Status()
	assert.Equal(suite.T(), models.StatusMonitoring, status.Status)
	assert.Empty(suite.T(), status.ErrorMessage)
	assert.Equal(suite.T(), 3, status.Checks)
}

func (suite *WorkerTestSuite) TestCheckNowWhileProvisioning() {
	w := suite.newWorker()
	w.status.SetStatus(models.StatusCreatingTables)

	assert.ErrorIs(suite.T(), w.CheckNow(suite.ctx), ErrProvisioning)
}

func (suite *WorkerTestSuite) TestStartStop() {
	w := suite.newWorker()
	require.NoError(suite.T(), w.Provision(suite.ctx))

	require.NoError(suite.T(), w.Start())
	assert.True(suite.T(), w.IsRunning())
	assert.ErrorIs(suite.T(), w.Start(), ErrAlreadyRunning)

	w.Stop()
	assert.False(suite.T(), w.IsRunning())
	assert.Equal(suite.T(), models.StatusStopped, w.Status().Status)

	// Stopping twice is harmless
	w.Stop()
}

func (suite *WorkerTestSuite) TestSnapshotIsACopy() {
	w := suite.newWorker()
	require.NoError(suite.T(), w.Provision(suite.ctx))

	snapshot := w.Status()
	snapshot.TablesCreated[0] = "mutated"
	snapshot.Tables[0].Status = "mutated"

	again := w.Status()
	assert.NotEqual(suite.T(), "mutated", again.TablesCreated[0])
	assert.NotEqual(suite.T(), "mutated", again.Tables[0].Status)
}

func TestNewWorkerValidation(t *testing.T) {
	cfg := &models.Config{AppEnv: "development", DynamoDBTablePrefix: "test"}
	db := dal.NewMemoryClient(logger.Discard())

	tests := []struct {
		name   string
		mutate func(wc *models.WorkerConfig)
		errMsg string
	}{
		{"negative retries", func(wc *models.WorkerConfig) { wc.MaxRetries = -1 }, "max retries"},
		{"zero delay", func(wc *models.WorkerConfig) { wc.RetryDelay = 0 }, "retry delay"},
		{"no tables", func(wc *models.WorkerConfig) { wc.Tables = nil }, "at least one table"},
		{"unknown table", func(wc *models.WorkerConfig) { wc.Tables = []string{"invoices"} }, "no schema"},
		{"bad schedule", func(wc *models.WorkerConfig) { wc.HealthCheckSchedule = "every five minutes" }, "invalid health check schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := DefaultWorkerConfig(cfg)
			tt.mutate(wc)
			_, err := NewWorker(db, cfg, wc, logger.Discard())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := NewWorker(nil, cfg, nil, logger.Discard())
	assert.Error(t, err)

	w, err := NewWorker(db, cfg, nil, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, defaultHealthCheckSchedule, w.workerConfig.HealthCheckSchedule)
}

func TestTableDetails(t *testing.T) {
	cfg := &models.Config{AppEnv: "production", AppName: "MainTrack Backend", DynamoDBTablePrefix: "prod"}
	wc := DefaultWorkerConfig(cfg)
	p := NewProvisioner(dal.NewMemoryClient(logger.Discard()), cfg, wc, logger.Discard())

	details := p.TableDetails()
	require.Len(t, details, len(wc.Tables))
	for _, d := range details {
		assert.Equal(t, "prod_"+d.BaseName, d.Name)
		assert.Equal(t, billingProvisioned, d.BillingMode)
		assert.Equal(t, "production", d.Tags["Environment"])
		if d.BaseName == "requests" {
			assert.Equal(t, 3, d.IndexCount)
		}
	}

	cfg.AppEnv = "development"
	assert.Equal(t, billingPayPerRequest, p.TableDetails()[0].BillingMode)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, backoff(2*time.Second, 0))
	assert.Equal(t, 4*time.Second, backoff(2*time.Second, 1))
	assert.Equal(t, 16*time.Second, backoff(2*time.Second, 3))
	assert.Equal(t, time.Hour, backoff(2*time.Second, 40))
}
