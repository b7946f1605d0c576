package dal

import (
	"context"
	"fmt"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type memoryTable struct {
	keyName   string
	indexes   map[string]string // index name -> hash key attribute
	items     map[string]map[string]types.AttributeValue
	createdAt time.Time
}

// MemoryClient is an in-process implementation of DatabaseClientInterface.
// Items are kept in their DynamoDB attribute form so marshalling behaves the
// same as against the real service.
type MemoryClient struct {
	mu     sync.RWMutex
	tables map[string]*memoryTable
	logger logger.Logger
}

// NewMemoryClient creates an empty in-memory database
func NewMemoryClient(log logger.Logger) *MemoryClient {
	return &MemoryClient{
		tables: make(map[string]*memoryTable),
		logger: log,
	}
}

func attributeString(av types.AttributeValue) (string, bool) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, true
	case *types.AttributeValueMemberN:
		return v.Value, true
	}
	return "", false
}

func (m *MemoryClient) table(name string) (*memoryTable, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// sortedItems returns the table items ordered by primary key
func (t *memoryTable) sortedItems() []map[string]types.AttributeValue {
	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, k := range keys {
		items = append(items, t.items[k])
	}
	return items
}

func (t *memoryTable) keyOf(item map[string]types.AttributeValue) (string, error) {
	av, ok := item[t.keyName]
	if !ok {
		return "", fmt.Errorf("item is missing key attribute %s", t.keyName)
	}
	key, ok := attributeString(av)
	if !ok || key == "" {
		return "", fmt.Errorf("key attribute %s must be a non-empty string or number", t.keyName)
	}
	return key, nil
}

func (t *memoryTable) query(keyName, keyValue string) []map[string]types.AttributeValue {
	var matches []map[string]types.AttributeValue
	for _, item := range t.sortedItems() {
		if v, ok := attributeString(item[keyName]); ok && v == keyValue {
			matches = append(matches, item)
		}
	}
	return matches
}

func versionOf(item map[string]types.AttributeValue) int64 {
	v, ok := attributeString(item[models.VersionAttribute])
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(v, 10, 64)
	return n
}

func (m *MemoryClient) GetItem(ctx context.Context, cfg models.QueryConfig, result interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(cfg.TableName)
	if err != nil {
		return err
	}

	if cfg.IndexName != "" {
		if _, ok := t.indexes[cfg.IndexName]; !ok {
			return fmt.Errorf("table %s has no index %s", cfg.TableName, cfg.IndexName)
		}
		matches := t.query(cfg.KeyName, cfg.KeyValue)
		if len(matches) == 0 {
			return nil
		}
		return attributevalue.UnmarshalMap(matches[0], result)
	}

	item, ok := t.items[cfg.KeyValue]
	if !ok {
		return nil
	}
	return attributevalue.UnmarshalMap(item, result)
}

func (m *MemoryClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(tableName)
	if err != nil {
		return err
	}
	key, err := t.keyOf(av)
	if err != nil {
		return err
	}
	t.items[key] = av
	return nil
}

func (m *MemoryClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.table(tableName)
	if err != nil {
		return err
	}
	existing, ok := t.items[keyValue]
	if !ok {
		return fmt.Errorf("%w: %s %s does not exist", ErrConditionFailed, tableName, keyValue)
	}

	updated := make(map[string]types.AttributeValue, len(existing)+len(updates))
	for k, v := range existing {
		updated[k] = v
	}
	for field, value := range updates {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		updated[field] = av
	}
	t.items[keyValue] = updated
	return nil
}

func (m *MemoryClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(tableName)
	if err != nil {
		return err
	}
	if _, ok := t.indexes[indexName]; !ok {
		return fmt.Errorf("table %s has no index %s", tableName, indexName)
	}
	return attributevalue.UnmarshalListOfMaps(t.query(keyName, keyValue), results)
}

func (m *MemoryClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(tableName)
	if err != nil {
		return err
	}
	return attributevalue.UnmarshalListOfMaps(t.sortedItems(), results)
}

func (m *MemoryClient) ScanTable(ctx context.Context, tableName string, results interface{}) error {
	return m.Scan(ctx, tableName, results)
}

// TransactWrite checks every condition under one lock before applying any put
func (m *MemoryClient) TransactWrite(ctx context.Context, ops []models.WriteOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	type pending struct {
		table *memoryTable
		key   string
		item  map[string]types.AttributeValue
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	writes := make([]pending, 0, len(ops))
	for _, op := range ops {
		t, err := m.table(op.TableName)
		if err != nil {
			return err
		}
		av, err := attributevalue.MarshalMap(op.Item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s item %s: %w", op.TableName, op.KeyValue, err)
		}

		existing, exists := t.items[op.KeyValue]
		switch {
		case op.ExpectedVersion == 0 && exists:
			return fmt.Errorf("%w: %s %s already exists", ErrConditionFailed, op.TableName, op.KeyValue)
		case op.ExpectedVersion != 0 && !exists:
			return fmt.Errorf("%w: %s %s does not exist", ErrConditionFailed, op.TableName, op.KeyValue)
		case op.ExpectedVersion != 0 && versionOf(existing) != op.ExpectedVersion:
			return fmt.Errorf("%w: %s %s is at version %d, expected %d",
				ErrConditionFailed, op.TableName, op.KeyValue, versionOf(existing), op.ExpectedVersion)
		}
		writes = append(writes, pending{table: t, key: op.KeyValue, item: av})
	}

	for _, w := range writes {
		w.table.items[w.key] = w.item
	}
	return nil
}

func (m *MemoryClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := aws.ToString(input.TableName)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[name]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, name)
	}

	t := &memoryTable{
		indexes:   make(map[string]string),
		items:     make(map[string]map[string]types.AttributeValue),
		createdAt: time.Now(),
	}
	for _, k := range input.KeySchema {
		if k.KeyType == types.KeyTypeHash {
			t.keyName = aws.ToString(k.AttributeName)
		}
	}
	if t.keyName == "" {
		return fmt.Errorf("table %s has no HASH key", name)
	}
	for _, gsi := range input.GlobalSecondaryIndexes {
		for _, k := range gsi.KeySchema {
			if k.KeyType == types.KeyTypeHash {
				t.indexes[aws.ToString(gsi.IndexName)] = aws.ToString(k.AttributeName)
			}
		}
	}

	m.tables[name] = t
	m.logger.Debugf("Created in-memory table %s (key=%s, indexes=%d)", name, t.keyName, len(t.indexes))
	return nil
}

func (m *MemoryClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.table(tableName)
	if err != nil {
		return nil, err
	}

	indexNames := make([]string, 0, len(t.indexes))
	for name := range t.indexes {
		indexNames = append(indexNames, name)
	}
	sort.Strings(indexNames)

	gsis := make([]types.GlobalSecondaryIndexDescription, 0, len(indexNames))
	for _, name := range indexNames {
		gsis = append(gsis, types.GlobalSecondaryIndexDescription{
			IndexName:   aws.String(name),
			IndexStatus: types.IndexStatusActive,
		})
	}

	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:              aws.String(tableName),
			TableStatus:            types.TableStatusActive,
			ItemCount:              aws.Int64(int64(len(t.items))),
			CreationDateTime:       aws.Time(t.createdAt),
			GlobalSecondaryIndexes: gsis,
		},
	}, nil
}
