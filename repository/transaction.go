package repository

import (
	"context"
	"maintrack-backend/apperror"
	"maintrack-backend/dal"
	"maintrack-backend/infrastructure"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"strings"
)

// TransactionManager commits WriteOps built by the repositories in one
// conditional transaction.
type TransactionManager struct {
	db     dal.DatabaseClientInterface
	logger logger.Logger
}

func NewTransactionManager(db dal.DatabaseClientInterface, log logger.Logger) *TransactionManager {
	return &TransactionManager{db: db, logger: log}
}

// Commit applies all ops or none. A lost version race becomes apperror Conflict.
func (t *TransactionManager) Commit(ctx context.Context, ops ...models.WriteOp) error {
	if len(ops) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ops))
	for _, op := range ops {
		keys = append(keys, infrastructure.ExtractBaseTableName(op.TableName)+"/"+op.KeyValue)
	}
	t.logger.Debugf("Committing transaction: %s", strings.Join(keys, ", "))

	if err := t.db.TransactWrite(ctx, ops); err != nil {
		if dal.IsConditionFailed(err) {
			t.logger.Warnf("Transaction lost a version race on %s: %v", strings.Join(keys, ", "), err)
			return conflictFor(ops, err)
		}
		t.logger.Errorf("Transaction on %s failed: %v", strings.Join(keys, ", "), err)
		return err
	}
	return nil
}

func conflictFor(ops []models.WriteOp, err error) error {
	if len(ops) == 1 {
		return apperror.Conflict(resourceName(ops[0].TableName), ops[0].KeyValue, err)
	}
	ids := make([]string, 0, len(ops))
	for _, op := range ops {
		ids = append(ids, op.KeyValue)
	}
	return apperror.Conflict("records", strings.Join(ids, ","), err)
}

func resourceName(tableName string) string {
	switch infrastructure.ExtractBaseTableName(tableName) {
	case "requests":
		return "request"
	case "equipment":
		return "equipment"
	default:
		return infrastructure.ExtractBaseTableName(tableName)
	}
}
