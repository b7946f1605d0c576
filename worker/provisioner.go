package worker

import (
	"context"
	"fmt"
	"maintrack-backend/dal"
	"maintrack-backend/infrastructure"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	billingProvisioned   = "PROVISIONED"
	billingPayPerRequest = "PAY_PER_REQUEST"
)

// Provisioner creates the service tables and checks that they are usable
type Provisioner struct {
	db           dal.DatabaseClientInterface
	config       *models.Config
	workerConfig *models.WorkerConfig
	logger       logger.Logger
}

func NewProvisioner(db dal.DatabaseClientInterface, cfg *models.Config, wc *models.WorkerConfig, log logger.Logger) *Provisioner {
	return &Provisioner{
		db:           db,
		config:       cfg,
		workerConfig: wc,
		logger:       log,
	}
}

// TableDetails lists the physical tables to provision
func (p *Provisioner) TableDetails() []*models.TableInfo {
	tableDetails := make([]*models.TableInfo, 0, len(p.workerConfig.Tables))
	for _, baseName := range p.workerConfig.Tables {
		tableDetails = append(tableDetails, &models.TableInfo{
			Name:     p.config.TableName(baseName),
			BaseName: baseName,
			Status:   "PENDING",
			Tags: map[string]string{
				"Environment": p.config.AppEnv,
				"Application": p.config.AppName,
				"TableType":   baseName,
				"CreatedBy":   "infrastructure-worker",
				"Version":     p.config.AppVersion,
			},
			IndexCount:  len(infrastructure.IndexNames(baseName)),
			BillingMode: p.billingMode(),
		})
	}
	return tableDetails
}

func (p *Provisioner) billingMode() string {
	if p.config.AppEnv == "production" {
		return billingProvisioned
	}
	return billingPayPerRequest
}

// EnsureTables creates every missing table. created is called with the
// name of each table this run created.
func (p *Provisioner) EnsureTables(ctx context.Context, created func(tableName string)) error {
	p.logger.Info("Starting storage provisioning")

	// Sequential creation avoids control plane throttling
	for _, tableInfo := range p.TableDetails() {
		made, err := p.createTableWithRetry(ctx, tableInfo)
		if err != nil {
			return err
		}
		if made {
			if created != nil {
				created(tableInfo.Name)
			}
			p.logger.Infof("Created table %s", tableInfo.Name)
		}
	}
	return nil
}

// createTableWithRetry reports whether the table had to be created
func (p *Provisioner) createTableWithRetry(ctx context.Context, tableInfo *models.TableInfo) (bool, error) {
	maxRetries := p.workerConfig.MaxRetries

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(p.workerConfig.RetryDelay, attempt-1)
			p.logger.Infof("Retrying table creation for %s in %v (attempt %d/%d)", tableInfo.Name, delay, attempt+1, maxRetries+1)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		exists, err := p.tableExists(ctx, tableInfo.Name)
		if err != nil {
			p.logger.Errorf("Failed to check if table %s exists: %v", tableInfo.Name, err)
			lastErr = err
			continue
		}
		if exists {
			p.logger.Debugf("Table %s already exists, skipping creation", tableInfo.Name)
			return false, nil
		}

		err = p.createTable(ctx, tableInfo)
		if err == nil {
			return true, nil
		}
		// Another instance won the race
		if dal.IsTableExists(err) {
			return false, nil
		}
		p.logger.Errorf("Attempt %d failed to create table %s: %v", attempt+1, tableInfo.Name, err)
		lastErr = err
	}

	return false, fmt.Errorf("failed to create table %s after %d attempts: %w", tableInfo.Name, maxRetries+1, lastErr)
}

func (p *Provisioner) createTable(ctx context.Context, tableInfo *models.TableInfo) error {
	input, err := infrastructure.GetTables(tableInfo.Name, tableInfo.BillingMode == billingPayPerRequest)
	if err != nil {
		return fmt.Errorf("failed to get table input: %w", err)
	}

	keys := make([]string, 0, len(tableInfo.Tags))
	for k := range tableInfo.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if tableInfo.Tags[k] == "" {
			continue
		}
		input.Tags = append(input.Tags, types.Tag{Key: aws.String(k), Value: aws.String(tableInfo.Tags[k])})
	}

	if err := p.db.CreateTable(ctx, input); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (p *Provisioner) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := p.db.DescribeTable(ctx, tableName)
	if err != nil {
		if dal.IsTableNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Validate describes every table. healthy is false when a table or one of
// its indexes is not ACTIVE or an index is missing. err is set only when a
// table could not be described at all.
func (p *Provisioner) Validate(ctx context.Context) (tables []models.TableInfo, healthy bool, err error) {
	healthy = true
	for _, table := range p.TableDetails() {
		table.CheckedAt = time.Now()

		desc, descErr := p.db.DescribeTable(ctx, table.Name)
		if descErr != nil {
			table.Status = "UNAVAILABLE"
			tables = append(tables, *table)
			return tables, false, fmt.Errorf("table %s validation failed: %w", table.Name, descErr)
		}

		table.Status = string(desc.Table.TableStatus)
		if desc.Table.TableStatus != types.TableStatusActive {
			p.logger.Warnf("Table %s is not active: %s", table.Name, desc.Table.TableStatus)
			healthy = false
		}

		active := 0
		for _, gsi := range desc.Table.GlobalSecondaryIndexes {
			if gsi.IndexStatus == types.IndexStatusActive {
				active++
			}
		}
		if active != table.IndexCount {
			p.logger.Warnf("Table %s has %d active indexes, expected %d", table.Name, active, table.IndexCount)
			healthy = false
		}

		tables = append(tables, *table)
	}
	return tables, healthy, nil
}

// backoff doubles base for every previous retry, capped at one hour
func backoff(base time.Duration, retry int) time.Duration {
	delay := base
	for i := 0; i < retry; i++ {
		delay *= 2
		if delay >= time.Hour {
			return time.Hour
		}
	}
	return delay
}
